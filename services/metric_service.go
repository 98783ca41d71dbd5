package services

import (
	"context"
	"fmt"
	"time"

	"healthtrack/models"
	"healthtrack/utils"

	"gorm.io/gorm"
)

type MetricService struct{ db *gorm.DB }

func NewMetricService(db *gorm.DB) *MetricService { return &MetricService{db: db} }

type MetricInput struct {
	Type       string     `json:"type" binding:"required,metrictype"`
	Value      *float64   `json:"value"`
	Systolic   *float64   `json:"systolic"`
	Diastolic  *float64   `json:"diastolic"`
	Unit       string     `json:"unit"`
	RecordedAt *time.Time `json:"recorded_at"`
	Source     string     `json:"source" binding:"omitempty,oneof=manual device import"`
	Notes      string     `json:"notes"`
}

// BuildMetric checks that the value shape fits the metric type: blood pressure
// needs systolic and diastolic, every other type needs value.
func BuildMetric(userID uint, in MetricInput, now time.Time) (*models.HealthMetric, error) {
	if !utils.IsValidMetricType(in.Type) {
		return nil, fmt.Errorf("%w: unknown metric type %q", ErrInvalidInput, in.Type)
	}
	m := &models.HealthMetric{
		UserID:     userID,
		Type:       in.Type,
		Unit:       in.Unit,
		RecordedAt: now,
		Source:     in.Source,
		Notes:      in.Notes,
	}
	if utils.MetricType(in.Type) == utils.MetricBloodPressure {
		if in.Systolic == nil || in.Diastolic == nil {
			return nil, fmt.Errorf("%w: blood_pressure needs systolic and diastolic", ErrInvalidInput)
		}
		if *in.Systolic <= 0 || *in.Diastolic <= 0 {
			return nil, fmt.Errorf("%w: blood pressure must be positive", ErrInvalidInput)
		}
		m.Systolic, m.Diastolic = *in.Systolic, *in.Diastolic
	} else {
		if in.Value == nil {
			return nil, fmt.Errorf("%w: %s needs value", ErrInvalidInput, in.Type)
		}
		if *in.Value < 0 {
			return nil, fmt.Errorf("%w: value must not be negative", ErrInvalidInput)
		}
		m.Value = *in.Value
	}
	if m.Unit == "" {
		m.Unit = utils.MetricUnits[utils.MetricType(in.Type)]
	}
	if m.Source == "" {
		m.Source = "manual"
	}
	if in.RecordedAt != nil {
		m.RecordedAt = *in.RecordedAt
	}
	return m, nil
}

func (s *MetricService) Create(ctx context.Context, userID uint, in MetricInput) (*models.HealthMetric, error) {
	m, err := BuildMetric(userID, in, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// CreateBatch stores device uploads in one transaction; one bad row rejects the batch.
func (s *MetricService) CreateBatch(ctx context.Context, userID uint, in []MetricInput) ([]models.HealthMetric, error) {
	now := time.Now()
	rows := make([]models.HealthMetric, 0, len(in))
	for i, item := range in {
		m, err := BuildMetric(userID, item, now)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		rows = append(rows, *m)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, 100).Error
	})
	return rows, err
}

// List returns metrics oldest first, optionally filtered by type.
func (s *MetricService) List(ctx context.Context, userID uint, metricType string, r DateRange) ([]models.HealthMetric, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if metricType != "" {
		q = q.Where("type = ?", metricType)
	}
	var out []models.HealthMetric
	err := r.apply(q, "recorded_at").Order("recorded_at asc").Find(&out).Error
	return out, err
}

func (s *MetricService) Get(ctx context.Context, userID, id uint) (*models.HealthMetric, error) {
	var m models.HealthMetric
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (s *MetricService) Update(ctx context.Context, userID, id uint, in MetricInput) (*models.HealthMetric, error) {
	cur, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	next, err := BuildMetric(userID, in, cur.RecordedAt)
	if err != nil {
		return nil, err
	}
	next.Model = cur.Model
	if err := s.db.WithContext(ctx).Save(next).Error; err != nil {
		return nil, err
	}
	return next, nil
}

func (s *MetricService) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.HealthMetric{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
