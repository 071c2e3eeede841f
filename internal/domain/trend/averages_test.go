package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(focus, confidence, anxiety, enjoyment, burnout, effort, motivation int, ts time.Time) Entry {
	return Entry{
		Focus:      focus,
		Confidence: confidence,
		Anxiety:    anxiety,
		Enjoyment:  enjoyment,
		Burnout:    burnout,
		Effort:     effort,
		Motivation: motivation,
		Timestamp:  ts,
	}
}

func TestComputeAverages_MeanPerMetric(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []Entry{
		entry(2, 5, 1, 6, 3, 7, 8, t0),
		entry(4, 7, 3, 8, 5, 9, 10, t0.Add(time.Hour)),
	}

	avg, err := ComputeAverages("athlete@example.com", entries)
	require.NoError(t, err)

	assert.Equal(t, "athlete@example.com", avg.Email)
	assert.InDelta(t, 3.0, avg.AverageFocus, 1e-9)
	assert.InDelta(t, 6.0, avg.AverageConfidence, 1e-9)
	assert.InDelta(t, 2.0, avg.AverageAnxiety, 1e-9)
	assert.InDelta(t, 7.0, avg.AverageEnjoyment, 1e-9)
	assert.InDelta(t, 4.0, avg.AverageBurnout, 1e-9)
	assert.InDelta(t, 8.0, avg.AverageEffort, 1e-9)
	assert.InDelta(t, 9.0, avg.AverageMotivation, 1e-9)
	assert.Equal(t, 2, avg.TotalEntries)
	// (3+6+7+8+9)/5
	assert.InDelta(t, 6.6, avg.TotalAverage, 1e-9)
}

func TestComputeAverages_SingleEntryEchoesValues(t *testing.T) {
	ts := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	e := entry(1, 2, 3, 4, 5, 6, 7, ts)

	avg, err := ComputeAverages("solo@example.com", []Entry{e})
	require.NoError(t, err)

	for _, m := range AllMetrics {
		assert.InDelta(t, float64(e.Value(m)), avg.Of(m), 1e-9, "metric %s", m)
	}
	assert.Equal(t, 1, avg.TotalEntries)
	assert.True(t, avg.LastUpdated.Equal(ts))
}

func TestComputeAverages_TotalIgnoresNegativeMetrics(t *testing.T) {
	ts := time.Now().UTC()
	calm := []Entry{entry(5, 6, 1, 7, 1, 8, 9, ts)}
	stressed := []Entry{entry(5, 6, 1_000_000, 7, 999_999, 8, 9, ts)}

	a, err := ComputeAverages("x@example.com", calm)
	require.NoError(t, err)
	b, err := ComputeAverages("x@example.com", stressed)
	require.NoError(t, err)

	assert.InDelta(t, (5.0+6+7+8+9)/5, a.TotalAverage, 1e-9)
	assert.InDelta(t, a.TotalAverage, b.TotalAverage, 1e-9)
	assert.InDelta(t, 1_000_000.0, b.AverageAnxiety, 1e-9)
}

func TestComputeAverages_LastUpdatedIsLastAppended(t *testing.T) {
	newer := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	avg, err := ComputeAverages("x@example.com", []Entry{
		entry(1, 1, 1, 1, 1, 1, 1, newer),
		entry(1, 1, 1, 1, 1, 1, 1, older),
	})
	require.NoError(t, err)

	assert.True(t, avg.LastUpdated.Equal(older), "got %s", avg.LastUpdated)
}

func TestComputeAverages_EmptyStates(t *testing.T) {
	_, err := ComputeAverages("x@example.com", nil)
	assert.ErrorIs(t, err, ErrNoPerformanceData)

	_, err = ComputeAverages("x@example.com", []Entry{})
	assert.ErrorIs(t, err, ErrNoPerformanceTrends)
}

func TestSubmitRequest_EntryDefaultsTimestamp(t *testing.T) {
	v := 4
	now := time.Date(2026, 2, 2, 10, 30, 0, 0, time.FixedZone("EST", -5*3600))

	req := SubmitRequest{
		Email: "a@example.com", Focus: &v, Confidence: &v, Anxiety: &v,
		Enjoyment: &v, Burnout: &v, Effort: &v, Motivation: &v,
	}

	e := req.Entry(now)
	assert.Equal(t, time.UTC, e.Timestamp.Location())
	assert.True(t, e.Timestamp.Equal(now))
	assert.Equal(t, 4, e.Motivation)

	explicit := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	req.Timestamp = &explicit
	assert.True(t, req.Entry(now).Timestamp.Equal(explicit))
}

func TestSubmitRequest_EntryNormalizesExplicitTimestamp(t *testing.T) {
	v := 1
	now := time.Date(2026, 2, 2, 10, 30, 0, 0, time.UTC)
	req := SubmitRequest{
		Email: "a@example.com", Focus: &v, Confidence: &v, Anxiety: &v,
		Enjoyment: &v, Burnout: &v, Effort: &v, Motivation: &v,
	}

	offset := time.Date(2026, 1, 5, 9, 0, 0, 0, time.FixedZone("", 2*3600))
	req.Timestamp = &offset
	e := req.Entry(now)
	assert.Equal(t, time.UTC, e.Timestamp.Location())
	assert.Equal(t, time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC), e.Timestamp)

	var zero time.Time
	require.NoError(t, zero.UnmarshalJSON([]byte(`"0001-01-01T00:00:00Z"`)))
	req.Timestamp = &zero
	e = req.Entry(now)
	assert.True(t, e.Timestamp.IsZero(), "an explicit zero instant is kept, got %v", e.Timestamp)
}
