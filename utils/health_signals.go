package utils

import (
	"fmt"
	"math"
	"time"
)

type MetricType string

const (
	MetricHeartRate        MetricType = "heart_rate"
	MetricBloodPressure    MetricType = "blood_pressure"
	MetricWeight           MetricType = "weight"
	MetricSleep            MetricType = "sleep"
	MetricSteps            MetricType = "steps"
	MetricTemperature      MetricType = "temperature"
	MetricBloodGlucose     MetricType = "blood_glucose"
	MetricOxygenSaturation MetricType = "oxygen_saturation"
)

// MetricUnits maps metric types to their display units.
var MetricUnits = map[MetricType]string{
	MetricHeartRate:        "bpm",
	MetricBloodPressure:    "mmHg",
	MetricWeight:           "kg",
	MetricSleep:            "hours",
	MetricSteps:            "steps",
	MetricTemperature:      "°C",
	MetricBloodGlucose:     "mg/dL",
	MetricOxygenSaturation: "%",
}

// IsValidMetricType reports whether s names a known metric type.
func IsValidMetricType(s string) bool {
	_, ok := MetricUnits[MetricType(s)]
	return ok
}

// MetricSample is one timestamped health measurement.
type MetricSample struct {
	Type      MetricType
	Value     Measure
	Timestamp time.Time
}

// ScoreResult is the output of one scoring pass. Incomplete is set when some
// sample carried a value that could not be used as a number; the affected
// category then contributes nothing and its observation shows NaN.
type ScoreResult struct {
	HealthScore  int      `json:"health_score"`
	Observations []string `json:"observations"`
	Concerns     []string `json:"concerns"`
	Incomplete   bool     `json:"incomplete,omitempty"`
}

// HealthSignalScorer turns a window of metric samples into a bounded score
// and short text findings. The zero value is not usable; use NewHealthSignalScorer.
type HealthSignalScorer struct {
	Ranges ReferenceRanges
}

func NewHealthSignalScorer(r ReferenceRanges) *HealthSignalScorer {
	return &HealthSignalScorer{Ranges: r}
}

var defaultScorer = NewHealthSignalScorer(DefaultReferenceRanges())

// ScoreHealth scores metrics against the default reference ranges.
func ScoreHealth(metrics []MetricSample) ScoreResult {
	return defaultScorer.Score(metrics)
}

// Score runs every check over metrics in one pass.
func (h *HealthSignalScorer) Score(metrics []MetricSample) ScoreResult {
	return ScoreResult{
		HealthScore:  h.CalculateHealthScore(metrics),
		Observations: h.GenerateObservations(metrics),
		Concerns:     h.IdentifyConcerns(metrics),
		Incomplete:   hasUnusableValue(metrics),
	}
}

func (h *HealthSignalScorer) CalculateHealthScore(metrics []MetricSample) int {
	r := h.Ranges
	score := r.BaseScore

	if hr := scalarValues(metrics, MetricHeartRate); len(hr) > 0 {
		avg := mean(hr)
		switch {
		case avg < r.NormalHeartRate.Min || avg > r.NormalHeartRate.Max:
			score += r.HeartRateOutOfRange
		case r.RestingHeartRate.Contains(avg):
			score += r.HeartRateIdeal
		}
	}

	if bp := ofType(metrics, MetricBloodPressure); len(bp) > 0 {
		optimal := 0
		for _, s := range bp {
			sys, dia := pressure(s.Value)
			if sys < r.OptimalSystolicBelow && dia < r.OptimalDiastolicBelow {
				optimal++
			}
		}
		share := float64(optimal) / float64(len(bp))
		switch {
		case share > r.OptimalShareGood:
			score += r.BloodPressureGood
		case share < r.OptimalSharePoor:
			score += r.BloodPressurePoor
		}
	}

	if sleep := scalarValues(metrics, MetricSleep); len(sleep) > 0 {
		avg := mean(sleep)
		switch {
		case r.RecommendedSleep.Contains(avg):
			score += r.SleepIdeal
		case avg < r.ShortSleepBelow:
			score += r.SleepShort
		case avg < r.RecommendedSleep.Min:
			score += r.SleepSlightlyLow
		}
	}

	if steps := scalarValues(metrics, MetricSteps); len(steps) > 0 {
		avg := mean(steps)
		switch {
		case avg >= r.StepsTarget:
			score += r.StepsTargetMet
		case avg >= r.StepsActive:
			score += r.StepsActiveBonus
		case avg < r.StepsSedentary:
			score += r.StepsLow
		}
	}

	return clampPercent(float64(score))
}

// GenerateObservations returns at most one sentence each for heart rate,
// sleep and steps, in that order.
func (h *HealthSignalScorer) GenerateObservations(metrics []MetricSample) []string {
	r := h.Ranges
	out := []string{}

	if hr := scalarValues(metrics, MetricHeartRate); len(hr) > 0 {
		avg := mean(hr)
		if r.NormalHeartRate.Contains(avg) {
			out = append(out, fmt.Sprintf("Your average heart rate of %.0f bpm is within the normal range (%.0f-%.0f bpm).",
				avg, r.NormalHeartRate.Min, r.NormalHeartRate.Max))
		} else {
			out = append(out, fmt.Sprintf("Your average heart rate of %.0f bpm is outside the normal range (%.0f-%.0f bpm).",
				avg, r.NormalHeartRate.Min, r.NormalHeartRate.Max))
		}
	}

	if sleep := scalarValues(metrics, MetricSleep); len(sleep) > 0 {
		avg := mean(sleep)
		switch {
		case r.RecommendedSleep.Contains(avg):
			out = append(out, fmt.Sprintf("You are averaging %.1f hours of sleep, within the recommended %.0f-%.0f hours.",
				avg, r.RecommendedSleep.Min, r.RecommendedSleep.Max))
		case avg > r.RecommendedSleep.Max:
			out = append(out, fmt.Sprintf("You are averaging %.1f hours of sleep, more than the recommended %.0f-%.0f hours.",
				avg, r.RecommendedSleep.Min, r.RecommendedSleep.Max))
		default:
			out = append(out, fmt.Sprintf("You are averaging %.1f hours of sleep, less than the recommended %.0f-%.0f hours.",
				avg, r.RecommendedSleep.Min, r.RecommendedSleep.Max))
		}
	}

	if steps := scalarValues(metrics, MetricSteps); len(steps) > 0 {
		avg := mean(steps)
		if avg >= r.StepsTarget {
			out = append(out, fmt.Sprintf("Your average of %.0f steps per day meets the %.0f step target.", avg, r.StepsTarget))
		} else {
			out = append(out, fmt.Sprintf("Your average of %.0f steps per day is below the %.0f step target.", avg, r.StepsTarget))
		}
	}

	return out
}

const (
	ConcernElevatedBloodPressure = "Elevated blood pressure in more than half of your readings. Consider discussing this with a healthcare provider."
	ConcernIrregularSleep        = "Irregular sleep pattern: your sleep duration changes by more than 1.5 hours between many consecutive nights."
	ConcernLowActivity           = "Low activity: more than half of your step counts are below 5000 steps."
)

// IdentifyConcerns flags elevated blood pressure, irregular sleep and low
// activity, in that order. Sleep pairs follow input order, not timestamps.
func (h *HealthSignalScorer) IdentifyConcerns(metrics []MetricSample) []string {
	r := h.Ranges
	out := []string{}

	if bp := ofType(metrics, MetricBloodPressure); len(bp) > 0 {
		elevated := 0
		for _, s := range bp {
			sys, dia := pressure(s.Value)
			if sys > r.ElevatedSystolicAbove || dia > r.ElevatedDiastolicAbove {
				elevated++
			}
		}
		if float64(elevated)/float64(len(bp)) > r.ElevatedShareConcern {
			out = append(out, ConcernElevatedBloodPressure)
		}
	}

	if sleep := scalarValues(metrics, MetricSleep); len(sleep) > 1 {
		swings := 0
		for i := 1; i < len(sleep); i++ {
			if math.Abs(sleep[i]-sleep[i-1]) > r.SleepSwingHours {
				swings++
			}
		}
		if float64(swings)/float64(len(sleep)-1) > r.SleepSwingConcern {
			out = append(out, ConcernIrregularSleep)
		}
	}

	if steps := scalarValues(metrics, MetricSteps); len(steps) > 0 {
		low := 0
		for _, v := range steps {
			if v < r.StepsSedentary {
				low++
			}
		}
		if float64(low)/float64(len(steps)) > r.LowStepsShareWarn {
			out = append(out, ConcernLowActivity)
		}
	}

	return out
}

func ofType(metrics []MetricSample, t MetricType) []MetricSample {
	var out []MetricSample
	for _, m := range metrics {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// scalarValues keeps input order. A pair-shaped value where a number is
// expected becomes NaN.
func scalarValues(metrics []MetricSample, t MetricType) []float64 {
	var out []float64
	for _, m := range metrics {
		if m.Type != t {
			continue
		}
		if m.Value.IsBloodPressure() {
			out = append(out, math.NaN())
			continue
		}
		out = append(out, m.Value.Value)
	}
	return out
}

func pressure(m Measure) (systolic, diastolic float64) {
	if !m.IsBloodPressure() {
		return math.NaN(), math.NaN()
	}
	return m.Systolic, m.Diastolic
}

func hasUnusableValue(metrics []MetricSample) bool {
	for _, m := range metrics {
		wantPair := m.Type == MetricBloodPressure
		if m.Value.IsBloodPressure() != wantPair || !m.Value.Finite() {
			return true
		}
	}
	return false
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
