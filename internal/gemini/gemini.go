// Package gemini implements the advisor collaborator on top of the Gemini API.
package gemini

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"google.golang.org/genai"

	"github.com/xenking/eservices-storefront/internal/domain/advisor"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-3-flash-preview"

// ErrNoAPIKey is returned by New when no API key is configured.
var ErrNoAPIKey = errors.New("gemini api key is required")

var _ advisor.Collaborator = (*Client)(nil)

// Config configures the Gemini client.
type Config struct {
	APIKey string
	Model  string
}

// generator is the subset of genai.Models used by Client.
type generator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client generates storefront text with a Gemini model.
type Client struct {
	models generator
	model  string
}

// New creates a Gemini-backed collaborator.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}

	return newClient(c.Models, cfg.Model), nil
}

func newClient(models generator, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{models: models, model: model}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Recommend implements advisor.Collaborator.
func (c *Client) Recommend(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, RecommendPrompt(prompt))
}

// Pitch implements advisor.Collaborator.
func (c *Client) Pitch(ctx context.Context, serviceTitle string) (string, error) {
	return c.generate(ctx, PitchPrompt(serviceTitle))
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", errors.Wrap(err, "generate content")
	}
	if resp == nil {
		return "", errors.New("empty response")
	}
	return resp.Text(), nil
}

// RecommendPrompt builds the category recommendation prompt.
func RecommendPrompt(need string) string {
	return fmt.Sprintf(
		"You are an AI assistant for E-Services, a digital service e-commerce platform. "+
			"Based on the user's need: \"%s\", suggest which of our service categories "+
			"(Development, Design, Marketing, Writing, Business) would be best and why. "+
			"Keep it concise (under 3 sentences).",
		need,
	)
}

// PitchPrompt builds the sales pitch prompt.
func PitchPrompt(serviceTitle string) string {
	return fmt.Sprintf(
		"Generate a short, high-converting 2-sentence sales pitch for a digital service called \"%s\".",
		serviceTitle,
	)
}
