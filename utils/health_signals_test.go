package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(t MetricType, vs ...float64) []MetricSample {
	out := make([]MetricSample, 0, len(vs))
	for i, v := range vs {
		out = append(out, MetricSample{Type: t, Value: Scalar(v), Timestamp: day0.Add(time.Duration(i) * time.Hour)})
	}
	return out
}

func bpSamples(pairs ...[2]float64) []MetricSample {
	out := make([]MetricSample, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, MetricSample{Type: MetricBloodPressure, Value: BloodPressure(p[0], p[1]), Timestamp: day0})
	}
	return out
}

func concat(groups ...[]MetricSample) []MetricSample {
	var out []MetricSample
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func TestCalculateHealthScore_Baseline(t *testing.T) {
	s := NewHealthSignalScorer(DefaultReferenceRanges())
	assert.Equal(t, 70, s.CalculateHealthScore(nil))
}

func TestCalculateHealthScore_HealthyWeek(t *testing.T) {
	metrics := concat(
		samples(MetricHeartRate, 65, 75),
		samples(MetricSleep, 7.5, 8.5),
		samples(MetricSteps, 12000, 10000),
	)
	assert.Equal(t, 93, ScoreHealth(metrics).HealthScore)
}

func TestCalculateHealthScore_HeartRateBands(t *testing.T) {
	s := NewHealthSignalScorer(DefaultReferenceRanges())
	cases := []struct {
		avg  float64
		want int
	}{
		{55, 65},
		{60, 75},
		{80, 75},
		{90, 70},
		{100, 70},
		{101, 65},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, s.CalculateHealthScore(samples(MetricHeartRate, tc.avg)), "avg %v", tc.avg)
	}
}

func TestCalculateHealthScore_BloodPressureShare(t *testing.T) {
	s := NewHealthSignalScorer(DefaultReferenceRanges())

	allOptimal := bpSamples([2]float64{115, 75}, [2]float64{110, 70})
	assert.Equal(t, 80, s.CalculateHealthScore(allOptimal))

	// 4 of 5 optimal is exactly 0.8, not above it
	fourOfFive := bpSamples([2]float64{115, 75}, [2]float64{115, 75}, [2]float64{115, 75}, [2]float64{115, 75}, [2]float64{125, 75})
	assert.Equal(t, 70, s.CalculateHealthScore(fourOfFive))

	noneOptimal := bpSamples([2]float64{125, 85}, [2]float64{120, 70})
	assert.Equal(t, 60, s.CalculateHealthScore(noneOptimal))
}

func TestCalculateHealthScore_SleepBands(t *testing.T) {
	s := NewHealthSignalScorer(DefaultReferenceRanges())
	cases := []struct {
		avg  float64
		want int
	}{
		{5, 62},
		{6, 66},
		{6.5, 66},
		{7, 78},
		{9, 78},
		{10, 70},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, s.CalculateHealthScore(samples(MetricSleep, tc.avg)), "avg %v", tc.avg)
	}
}

func TestCalculateHealthScore_StepBands(t *testing.T) {
	s := NewHealthSignalScorer(DefaultReferenceRanges())
	cases := []struct {
		avg  float64
		want int
	}{
		{4999, 65},
		{5000, 70},
		{7499, 70},
		{7500, 75},
		{10000, 80},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, s.CalculateHealthScore(samples(MetricSteps, tc.avg)), "avg %v", tc.avg)
	}
}

func TestCalculateHealthScore_Clamped(t *testing.T) {
	r := DefaultReferenceRanges()
	r.BaseScore = 98
	s := NewHealthSignalScorer(r)
	assert.Equal(t, 100, s.CalculateHealthScore(samples(MetricSteps, 20000)))

	r.BaseScore = 3
	s = NewHealthSignalScorer(r)
	assert.Equal(t, 0, s.CalculateHealthScore(samples(MetricSteps, 100)))
}

func TestCalculateHealthScore_IgnoresOtherTypes(t *testing.T) {
	assert.Equal(t, 70, ScoreHealth(samples(MetricWeight, 80, 81)).HealthScore)
}

func TestGenerateObservations(t *testing.T) {
	s := NewHealthSignalScorer(DefaultReferenceRanges())
	assert.Empty(t, s.GenerateObservations(nil))

	obs := s.GenerateObservations(concat(
		samples(MetricSteps, 4000),
		samples(MetricSleep, 8),
		samples(MetricHeartRate, 72),
		bpSamples([2]float64{120, 80}),
	))
	require.Len(t, obs, 3)
	assert.Contains(t, obs[0], "heart rate of 72 bpm is within")
	assert.Contains(t, obs[1], "8.0 hours of sleep, within")
	assert.Contains(t, obs[2], "4000 steps per day is below")
}

func TestIdentifyConcerns_LowActivity(t *testing.T) {
	s := NewHealthSignalScorer(DefaultReferenceRanges())
	assert.Equal(t, []string{ConcernLowActivity}, s.IdentifyConcerns(samples(MetricSteps, 1000, 2000, 9000)))
	assert.Empty(t, s.IdentifyConcerns(samples(MetricSteps, 1000, 9000)))
}

func TestIdentifyConcerns_BloodPressure(t *testing.T) {
	s := NewHealthSignalScorer(DefaultReferenceRanges())
	high := bpSamples([2]float64{135, 78}, [2]float64{125, 85}, [2]float64{118, 76})
	assert.Equal(t, []string{ConcernElevatedBloodPressure}, s.IdentifyConcerns(high))

	half := bpSamples([2]float64{135, 78}, [2]float64{118, 76})
	assert.Empty(t, s.IdentifyConcerns(half))
}

func TestIdentifyConcerns_SleepSwings(t *testing.T) {
	s := NewHealthSignalScorer(DefaultReferenceRanges())
	// pairs: 2.0, 0.5, 0.5 -> one of three, not more than a third
	assert.Empty(t, s.IdentifyConcerns(samples(MetricSleep, 6, 8, 8.5, 8)))
	// pairs: 2.0, 2.0, 0.5 -> two of three
	assert.Equal(t, []string{ConcernIrregularSleep}, s.IdentifyConcerns(samples(MetricSleep, 6, 8, 6, 6.5)))
	// single night has no pairs
	assert.Empty(t, s.IdentifyConcerns(samples(MetricSleep, 3)))
}

func TestIdentifyConcerns_Order(t *testing.T) {
	got := ScoreHealth(concat(
		samples(MetricSteps, 100, 200),
		samples(MetricSleep, 4, 9, 4),
		bpSamples([2]float64{150, 95}),
	)).Concerns
	assert.Equal(t, []string{ConcernElevatedBloodPressure, ConcernIrregularSleep, ConcernLowActivity}, got)
}

func TestScoreHealth_NaNDegradesQuietly(t *testing.T) {
	metrics := concat(
		samples(MetricHeartRate, math.NaN(), 70),
		samples(MetricSteps, 11000),
	)
	res := ScoreHealth(metrics)
	assert.True(t, res.Incomplete)
	assert.Equal(t, 80, res.HealthScore)
	require.Len(t, res.Observations, 2)
	assert.Contains(t, res.Observations[0], "NaN")
}

func TestScoreHealth_WrongShapeIsIncomplete(t *testing.T) {
	metrics := []MetricSample{{Type: MetricBloodPressure, Value: Scalar(120), Timestamp: day0}}
	res := ScoreHealth(metrics)
	assert.True(t, res.Incomplete)
	// the reading is not optimal, so the share is 0
	assert.Equal(t, 60, res.HealthScore)
}

func TestScoreHealth_Deterministic(t *testing.T) {
	metrics := concat(
		samples(MetricHeartRate, 88, 91),
		samples(MetricSleep, 6.2, 8.1, 5.9),
		samples(MetricSteps, 3000, 8000),
		bpSamples([2]float64{128, 82}, [2]float64{119, 79}),
	)
	assert.Equal(t, ScoreHealth(metrics), ScoreHealth(metrics))
	assert.False(t, ScoreHealth(metrics).Incomplete)
}
