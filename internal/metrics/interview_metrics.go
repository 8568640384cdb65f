package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "interview-metrics"

// InterviewMetrics records question, answer and outcome counters for interviews.
type InterviewMetrics struct {
	questionsCounter   metric.Int64Counter
	answersCounter     metric.Int64Counter
	completedCounter   metric.Int64Counter
	questionsHistogram metric.Int64Histogram
	successHistogram   metric.Float64Histogram
}

// NewInterviewMetrics creates the instruments on meter, or on the global
// meter provider when meter is nil.
func NewInterviewMetrics(meter metric.Meter) (*InterviewMetrics, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}

	questionsCounter, err := meter.Int64Counter(
		"interview.questions.asked",
		metric.WithDescription("Total number of questions asked"),
		metric.WithUnit("{question}"),
	)
	if err != nil {
		return nil, err
	}

	answersCounter, err := meter.Int64Counter(
		"interview.answers.evaluated",
		metric.WithDescription("Total number of evaluated answers"),
		metric.WithUnit("{answer}"),
	)
	if err != nil {
		return nil, err
	}

	completedCounter, err := meter.Int64Counter(
		"interview.sessions.completed",
		metric.WithDescription("Total number of finished interviews"),
		metric.WithUnit("{interview}"),
	)
	if err != nil {
		return nil, err
	}

	questionsHistogram, err := meter.Int64Histogram(
		"interview.session.questions",
		metric.WithDescription("Questions asked per finished interview"),
		metric.WithUnit("{question}"),
	)
	if err != nil {
		return nil, err
	}

	successHistogram, err := meter.Float64Histogram(
		"interview.session.success_rate",
		metric.WithDescription("Share of correct answers per finished interview"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return nil, err
	}

	return &InterviewMetrics{
		questionsCounter:   questionsCounter,
		answersCounter:     answersCounter,
		completedCounter:   completedCounter,
		questionsHistogram: questionsHistogram,
		successHistogram:   successHistogram,
	}, nil
}

// RecordQuestion records a generated question
func (m *InterviewMetrics) RecordQuestion(ctx context.Context, followup bool) {
	m.questionsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.Bool("followup", followup),
		),
	)
}

// RecordAnswer records an evaluated answer
func (m *InterviewMetrics) RecordAnswer(ctx context.Context, correct bool) {
	m.answersCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.Bool("correct", correct),
		),
	)
}

// RecordCompleted records the end of an interview
func (m *InterviewMetrics) RecordCompleted(ctx context.Context, reason string, questions int, successRate float64) {
	attrs := metric.WithAttributes(attribute.String("reason", reason))

	m.completedCounter.Add(ctx, 1, attrs)
	m.questionsHistogram.Record(ctx, int64(questions), attrs)
	m.successHistogram.Record(ctx, successRate, attrs)
}
