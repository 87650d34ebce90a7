package advisor

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type fakeCollab struct {
	text  string
	err   error
	panic bool

	prompts []string
	titles  []string
}

func (f *fakeCollab) Recommend(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.panic {
		panic("boom")
	}
	return f.text, f.err
}

func (f *fakeCollab) Pitch(_ context.Context, title string) (string, error) {
	f.titles = append(f.titles, title)
	if f.panic {
		panic("boom")
	}
	return f.text, f.err
}

func newAdvisor(c Collaborator) *Advisor {
	return New(c,
		WithTracerProvider(tracenoop.NewTracerProvider()),
		WithMeterProvider(metricnoop.NewMeterProvider()),
	)
}

func TestAdvisor_Unavailable(t *testing.T) {
	a := newAdvisor(nil)
	ctx := context.Background()

	assert.False(t, a.Available())
	assert.Equal(t, RecommendUnavailable, a.Recommend(ctx, "I need a website"))
	assert.Equal(t, PitchUnavailable, a.Pitch(ctx, "Brand Identity Package"))
}

func TestAdvisor_Success(t *testing.T) {
	c := &fakeCollab{text: "  Try Development and Design.\n"}
	a := newAdvisor(c)
	ctx := context.Background()

	require.True(t, a.Available())
	assert.Equal(t, "Try Development and Design.", a.Recommend(ctx, "I need a website"))
	assert.Equal(t, []string{"I need a website"}, c.prompts)

	assert.Equal(t, "Try Development and Design.", a.Pitch(ctx, "SEO Optimization"))
	assert.Equal(t, []string{"SEO Optimization"}, c.titles)
}

func TestAdvisor_Failures(t *testing.T) {
	tests := []struct {
		name   string
		collab *fakeCollab
	}{
		{name: "error", collab: &fakeCollab{err: errors.New("quota exceeded")}},
		{name: "empty", collab: &fakeCollab{text: ""}},
		{name: "whitespace", collab: &fakeCollab{text: " \n\t"}},
		{name: "panic", collab: &fakeCollab{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAdvisor(tt.collab)
			ctx := context.Background()

			assert.Equal(t, RecommendFailed, a.Recommend(ctx, "help"))
			assert.Equal(t, PitchFailed, a.Pitch(ctx, "Blog Post"))
		})
	}
}

func TestAdvisor_DefaultProviders(t *testing.T) {
	a := New(&fakeCollab{text: "ok"})
	assert.Equal(t, "ok", a.Recommend(context.Background(), "x"))
}
