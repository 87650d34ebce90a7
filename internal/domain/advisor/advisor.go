// Package advisor answers shoppers with AI-written text. Every call resolves
// to a string: when the text generator is missing or fails, a canned
// fallback is returned instead of an error.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Fallback texts.
const (
	RecommendUnavailable = "I'm sorry, the AI service is currently unavailable. Please browse our categories manually!"
	RecommendFailed      = "I'm sorry, I couldn't process your request at the moment. Please feel free to browse our categories!"
	PitchUnavailable     = "Unlock your business potential with our premium digital solutions."
	PitchFailed          = "This high-quality service is designed to help your business grow effectively and efficiently."
)

const instrumentationName = "github.com/xenking/eservices-storefront/internal/domain/advisor"

// Collaborator generates text. Implementations may fail freely.
type Collaborator interface {
	// Recommend suggests catalog categories for a shopper's need.
	Recommend(ctx context.Context, prompt string) (string, error)
	// Pitch writes a short sales pitch for a service title.
	Pitch(ctx context.Context, serviceTitle string) (string, error)
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithTracerProvider sets the provider used for advisor spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Advisor) { a.tracer = tp.Tracer(instrumentationName) }
}

// WithMeterProvider sets the provider used for the fallback counter.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(a *Advisor) { a.meter = mp.Meter(instrumentationName) }
}

// Advisor wraps a Collaborator with the fallback policy. There is no retry:
// one attempt, then the fallback.
type Advisor struct {
	collab    Collaborator
	tracer    trace.Tracer
	meter     metric.Meter
	fallbacks metric.Int64Counter
}

// New returns an Advisor. A nil collab means no credentials are configured and
// every call returns the "unavailable" fallback.
func New(collab Collaborator, opts ...Option) *Advisor {
	a := &Advisor{
		collab: collab,
		tracer: tracenoop.NewTracerProvider().Tracer(instrumentationName),
		meter:  metricnoop.NewMeterProvider().Meter(instrumentationName),
	}
	for _, o := range opts {
		o(a)
	}

	counter, err := a.meter.Int64Counter("advisor.fallbacks",
		metric.WithDescription("Advisor answers served from canned fallback text"),
	)
	if err != nil {
		counter, _ = metricnoop.NewMeterProvider().Meter(instrumentationName).Int64Counter("advisor.fallbacks")
	}
	a.fallbacks = counter
	return a
}

// Available reports whether a collaborator is configured.
func (a *Advisor) Available() bool {
	return a.collab != nil
}

// Recommend suggests categories for prompt.
func (a *Advisor) Recommend(ctx context.Context, prompt string) string {
	return a.ask(ctx, "recommend", RecommendUnavailable, RecommendFailed, func(ctx context.Context) (string, error) {
		return a.collab.Recommend(ctx, prompt)
	})
}

// Pitch writes a sales pitch for serviceTitle.
func (a *Advisor) Pitch(ctx context.Context, serviceTitle string) string {
	return a.ask(ctx, "pitch", PitchUnavailable, PitchFailed, func(ctx context.Context) (string, error) {
		return a.collab.Pitch(ctx, serviceTitle)
	})
}

func (a *Advisor) ask(
	ctx context.Context,
	op, unavailable, failed string,
	call func(ctx context.Context) (string, error),
) (answer string) {
	ctx, span := a.tracer.Start(ctx, "advisor."+op)
	defer span.End()

	lg := zctx.From(ctx).With(zap.String("op", op))

	if a.collab == nil {
		a.fallback(ctx, op, "unavailable")
		return unavailable
	}

	defer func() {
		if r := recover(); r != nil {
			lg.Error("Advisor panicked", zap.Any("panic", r))
			span.SetStatus(codes.Error, "panic")
			a.fallback(ctx, op, "panic")
			answer = failed
		}
	}()

	text, err := call(ctx)
	if err != nil {
		lg.Warn("Advisor request failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.fallback(ctx, op, "error")
		return failed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		lg.Warn("Advisor returned empty text")
		a.fallback(ctx, op, "empty")
		return failed
	}
	return text
}

func (a *Advisor) fallback(ctx context.Context, op, reason string) {
	a.fallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("reason", reason),
	))
}

// String describes the advisor for startup logs.
func (a *Advisor) String() string {
	if a.collab == nil {
		return "advisor(unavailable)"
	}
	return fmt.Sprintf("advisor(%T)", a.collab)
}
