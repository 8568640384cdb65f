package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/spigell/tech-interviewer/internal/interview"
)

var _ interview.Recorder = (*InterviewMetrics)(nil)

func TestInterviewMetrics_Creation(t *testing.T) {
	t.Run("global meter", func(t *testing.T) {
		metrics, err := NewInterviewMetrics(nil)
		require.NoError(t, err)
		assert.NotNil(t, metrics.questionsCounter)
		assert.NotNil(t, metrics.answersCounter)
		assert.NotNil(t, metrics.completedCounter)
		assert.NotNil(t, metrics.questionsHistogram)
		assert.NotNil(t, metrics.successHistogram)
	})

	t.Run("explicit meter", func(t *testing.T) {
		metrics, err := NewInterviewMetrics(noop.NewMeterProvider().Meter("test"))
		require.NoError(t, err)
		assert.NotNil(t, metrics)
	})
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	byName := make(map[string]metricdata.Aggregation)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			byName[m.Name] = m.Data
		}
	}
	return byName
}

// sumBy indexes the data points of an int64 counter by one attribute.
func sumBy(t *testing.T, data metricdata.Aggregation, key attribute.Key) map[string]int64 {
	t.Helper()

	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)

	values := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(key)
		values[v.Emit()] += dp.Value
	}
	return values
}

func TestInterviewMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := NewInterviewMetrics(provider.Meter("test"))
	require.NoError(t, err)
	ctx := context.Background()

	metrics.RecordQuestion(ctx, false)
	metrics.RecordQuestion(ctx, false)
	metrics.RecordQuestion(ctx, true)
	metrics.RecordAnswer(ctx, true)
	metrics.RecordAnswer(ctx, false)
	metrics.RecordAnswer(ctx, false)
	metrics.RecordCompleted(ctx, string(interview.StopMaxQuestions), 10, 100)
	metrics.RecordCompleted(ctx, string(interview.StopConsecutiveWrong), 3, 0)
	metrics.RecordCompleted(ctx, string(interview.StopConsecutiveWrong), 4, 25)

	got := collect(t, reader)

	assert.Equal(t, map[string]int64{"false": 2, "true": 1}, sumBy(t, got["interview.questions.asked"], "followup"))
	assert.Equal(t, map[string]int64{"true": 1, "false": 2}, sumBy(t, got["interview.answers.evaluated"], "correct"))
	assert.Equal(t, map[string]int64{
		string(interview.StopMaxQuestions):     1,
		string(interview.StopConsecutiveWrong): 2,
	}, sumBy(t, got["interview.sessions.completed"], "reason"))

	questions, ok := got["interview.session.questions"].(metricdata.Histogram[int64])
	require.True(t, ok)
	var count uint64
	var total int64
	for _, dp := range questions.DataPoints {
		count += dp.Count
		total += dp.Sum
	}
	assert.Equal(t, uint64(3), count)
	assert.Equal(t, int64(17), total)

	rates, ok := got["interview.session.success_rate"].(metricdata.Histogram[float64])
	require.True(t, ok)
	for _, dp := range rates.DataPoints {
		reason, _ := dp.Attributes.Value("reason")
		if reason.AsString() == string(interview.StopConsecutiveWrong) {
			assert.Equal(t, uint64(2), dp.Count)
			assert.InDelta(t, 25.0, dp.Sum, 0.001)
		}
	}
}
