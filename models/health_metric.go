package models

import (
	"time"

	"healthtrack/utils"

	"gorm.io/gorm"
)

// HealthMetric is one measurement. Blood pressure rows use Systolic/Diastolic,
// every other type uses Value.
type HealthMetric struct {
	gorm.Model
	UserID     uint      `gorm:"index:idx_metric_user_type_time;not null" json:"user_id"`
	Type       string    `gorm:"size:32;index:idx_metric_user_type_time;not null" json:"type"`
	Value      float64   `json:"value"`
	Systolic   float64   `json:"systolic,omitempty"`
	Diastolic  float64   `json:"diastolic,omitempty"`
	Unit       string    `gorm:"size:16" json:"unit"`
	RecordedAt time.Time `gorm:"index:idx_metric_user_type_time;not null" json:"recorded_at"`
	Source     string    `gorm:"size:32" json:"source"` // manual | device
	Notes      string    `gorm:"type:text" json:"notes"`
}

func (m HealthMetric) Measure() utils.Measure {
	if utils.MetricType(m.Type) == utils.MetricBloodPressure {
		return utils.BloodPressure(m.Systolic, m.Diastolic)
	}
	return utils.Scalar(m.Value)
}

func (m HealthMetric) Sample() utils.MetricSample {
	return utils.MetricSample{
		Type:      utils.MetricType(m.Type),
		Value:     m.Measure(),
		Timestamp: m.RecordedAt,
	}
}

// Samples converts rows in their current order.
func Samples(rows []HealthMetric) []utils.MetricSample {
	out := make([]utils.MetricSample, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Sample())
	}
	return out
}
