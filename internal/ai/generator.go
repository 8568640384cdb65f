// Package ai defines the text-generation contract shared by every provider
// and the middleware that wraps providers with logging and tracing.
package ai

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spigell/tech-interviewer/internal/logger"
	"github.com/spigell/tech-interviewer/internal/util"
)

// Provider names accepted by configuration.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderFake      = "fake"
)

// DefaultMaxLogLength bounds prompt and response previews in logs.
const DefaultMaxLogLength = 160

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
	Provider() string
}

// Providers lists the provider names in the order they are documented.
func Providers() []string {
	return []string{ProviderOpenAI, ProviderGemini, ProviderAnthropic, ProviderFake}
}

// Middleware decorates a Generator.
type Middleware func(Generator) Generator

// Chain applies middlewares so that the first one is the outermost.
func Chain(g Generator, middlewares ...Middleware) Generator {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			g = middlewares[i](g)
		}
	}
	return g
}

type generatorFunc struct {
	Generator
	generate func(ctx context.Context, prompt string) (string, error)
}

func (g generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt)
}

// WithLogging logs every call with truncated previews of the prompt and the
// response. maxLogLen <= 0 selects DefaultMaxLogLength.
func WithLogging(log *zap.Logger, maxLogLen int) Middleware {
	if maxLogLen <= 0 {
		maxLogLen = DefaultMaxLogLength
	}

	return func(next Generator) Generator {
		log := logger.WithCommonFields(log, next.Provider(), next.Model())

		return generatorFunc{
			Generator: next,
			generate: func(ctx context.Context, prompt string) (string, error) {
				started := time.Now()
				log.Debug("sending prompt", zap.String("prompt", util.PreviewForLog(prompt, maxLogLen)))

				text, err := next.Generate(ctx, prompt)
				if err != nil {
					log.Error("text generation failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
					return "", err
				}

				log.Debug("received response",
					zap.Duration("elapsed", time.Since(started)),
					zap.Int("length", len(text)),
					zap.String("response", util.PreviewForLog(text, maxLogLen)),
				)
				return text, nil
			},
		}
	}
}

// WithTracing wraps every call in a span.
func WithTracing(tracer trace.Tracer) Middleware {
	return func(next Generator) Generator {
		return generatorFunc{
			Generator: next,
			generate: func(ctx context.Context, prompt string) (string, error) {
				ctx, span := tracer.Start(ctx, "ai.generate",
					trace.WithSpanKind(trace.SpanKindClient),
					trace.WithAttributes(
						attribute.String("ai.provider", next.Provider()),
						attribute.String("ai.model", next.Model()),
						attribute.Int("ai.prompt_length", len(prompt)),
					),
				)
				defer span.End()

				text, err := next.Generate(ctx, prompt)
				if err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
					return "", err
				}

				span.SetAttributes(attribute.Int("ai.response_length", len(text)))
				return text, nil
			},
		}
	}
}
