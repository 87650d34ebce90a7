package gemini

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	text string
	err  error

	model  string
	prompt string
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: f.text}},
			},
		}},
	}, nil
}

func TestNew_NoAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestClient_Recommend(t *testing.T) {
	m := &fakeModels{text: "Development fits best."}
	c := newClient(m, "")

	got, err := c.Recommend(context.Background(), "I need an online shop")
	require.NoError(t, err)
	assert.Equal(t, "Development fits best.", got)
	assert.Equal(t, DefaultModel, m.model)
	assert.Equal(t, RecommendPrompt("I need an online shop"), m.prompt)
}

func TestClient_Pitch(t *testing.T) {
	m := &fakeModels{text: "Stand out."}
	c := newClient(m, "gemini-custom")

	got, err := c.Pitch(context.Background(), "SEO Optimization")
	require.NoError(t, err)
	assert.Equal(t, "Stand out.", got)
	assert.Equal(t, "gemini-custom", c.Model())
	assert.Equal(t, "gemini-custom", m.model)
	assert.Contains(t, m.prompt, `"SEO Optimization"`)
}

func TestClient_Error(t *testing.T) {
	c := newClient(&fakeModels{err: errors.New("quota")}, "")

	_, err := c.Recommend(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestPrompts(t *testing.T) {
	p := RecommendPrompt("logo")
	for _, cat := range []string{"Development", "Design", "Marketing", "Writing", "Business"} {
		assert.Contains(t, p, cat)
	}
	assert.Contains(t, p, `"logo"`)
	assert.Contains(t, p, "under 3 sentences")

	assert.Contains(t, PitchPrompt("Blog"), "2-sentence")
}

func TestPrompts_VerbatimInput(t *testing.T) {
	need := "a \"fancy\" logo\nand a site"
	assert.Contains(t, RecommendPrompt(need), `"a "fancy" logo`+"\nand a site\"")
	assert.NotContains(t, RecommendPrompt(need), `\"`)
	assert.NotContains(t, RecommendPrompt(need), `\n`)

	m := &fakeModels{text: "ok"}
	c := newClient(m, "")
	_, err := c.Pitch(context.Background(), `Café "Pro" Pack`)
	require.NoError(t, err)
	assert.Contains(t, m.prompt, `called "Café "Pro" Pack".`)
}
