package utils

import (
	"errors"
	"fmt"
	"math"
)

// MeasureKind tags which fields of a Measure carry data.
type MeasureKind string

const (
	MeasureScalar        MeasureKind = "scalar"
	MeasureBloodPressure MeasureKind = "blood_pressure"
)

// ErrMeasureMismatch is returned when a value and its target have different shapes
// (e.g. a plain number checked in against a blood-pressure target).
var ErrMeasureMismatch = errors.New("measure kind does not match target kind")

// Measure is either a plain number or a systolic/diastolic pair.
type Measure struct {
	Kind      MeasureKind `json:"kind"`
	Value     float64     `json:"value,omitempty"`
	Systolic  float64     `json:"systolic,omitempty"`
	Diastolic float64     `json:"diastolic,omitempty"`
}

func Scalar(v float64) Measure {
	return Measure{Kind: MeasureScalar, Value: v}
}

func BloodPressure(systolic, diastolic float64) Measure {
	return Measure{Kind: MeasureBloodPressure, Systolic: systolic, Diastolic: diastolic}
}

// ParseMeasureKind accepts "" as scalar so that older rows without a kind still load.
func ParseMeasureKind(s string) (MeasureKind, error) {
	switch MeasureKind(s) {
	case "", MeasureScalar:
		return MeasureScalar, nil
	case MeasureBloodPressure:
		return MeasureBloodPressure, nil
	default:
		return "", fmt.Errorf("unknown measure kind %q", s)
	}
}

// IsBloodPressure reports whether m is a systolic/diastolic pair.
func (m Measure) IsBloodPressure() bool { return m.Kind == MeasureBloodPressure }

// Finite reports whether every populated field is a real number.
func (m Measure) Finite() bool {
	if m.IsBloodPressure() {
		return isFinite(m.Systolic) && isFinite(m.Diastolic)
	}
	return isFinite(m.Value)
}

func (m Measure) String() string {
	if m.IsBloodPressure() {
		return fmt.Sprintf("%.0f/%.0f", m.Systolic, m.Diastolic)
	}
	return fmt.Sprintf("%g", m.Value)
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
