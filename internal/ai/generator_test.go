package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/tech-interviewer/internal/logger"
)

type stubGenerator struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.reply, s.err
}

func (s *stubGenerator) Model() string    { return "stub-model" }
func (s *stubGenerator) Provider() string { return "stub" }

type tagGenerator struct {
	Generator
	tag   string
	order *[]string
}

func (g tagGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	*g.order = append(*g.order, g.tag)
	return g.Generator.Generate(ctx, prompt)
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Generator) Generator {
			return tagGenerator{Generator: next, tag: name, order: &order}
		}
	}

	base := &stubGenerator{reply: "ok"}
	g := Chain(base, tag("outer"), nil, tag("inner"))

	out, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, "stub-model", g.Model())
	assert.Equal(t, "stub", g.Provider())
}

func TestWithLoggingPreviewsPromptAndResponse(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := &stubGenerator{reply: strings.Repeat("answer ", 20)}

	g := Chain(base, WithLogging(zap.New(core), 10))
	_, err := g.Generate(context.Background(), "line one\nline two\nline three")
	require.NoError(t, err)

	sent := logs.FilterMessage("sending prompt").All()
	require.Len(t, sent, 1)
	fields := sent[0].ContextMap()
	assert.Equal(t, "line one l...", fields["prompt"])
	assert.Equal(t, "stub", fields[logger.FieldProvider])
	assert.Equal(t, "stub-model", fields[logger.FieldModel])

	received := logs.FilterMessage("received response").All()
	require.Len(t, received, 1)
	assert.Equal(t, "answer ans...", received[0].ContextMap()["response"])
}

func TestWithLoggingReportsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := &stubGenerator{err: errors.New("quota exceeded")}

	_, err := Chain(base, WithLogging(zap.New(core), 0)).Generate(context.Background(), "prompt")
	require.Error(t, err)

	failed := logs.FilterMessage("text generation failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
}

func TestWithTracingRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ok := Chain(&stubGenerator{reply: "fine"}, WithTracing(tp.Tracer("test")))
	_, err := ok.Generate(context.Background(), "prompt")
	require.NoError(t, err)

	failing := Chain(&stubGenerator{err: errors.New("boom")}, WithTracing(tp.Tracer("test")))
	_, err = failing.Generate(context.Background(), "prompt")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "ai.generate", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
