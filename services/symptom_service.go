package services

import (
	"context"
	"strings"
	"time"

	"healthtrack/models"

	"gorm.io/gorm"
)

type SymptomService struct{ db *gorm.DB }

func NewSymptomService(db *gorm.DB) *SymptomService { return &SymptomService{db: db} }

type SymptomInput struct {
	Name       string     `json:"name" binding:"required,max=120"`
	Severity   int        `json:"severity" binding:"required,min=1,max=10"`
	BodyArea   string     `json:"body_area" binding:"max=60"`
	Notes      string     `json:"notes"`
	OccurredAt *time.Time `json:"occurred_at"`
}

func (s *SymptomService) Create(ctx context.Context, userID uint, in SymptomInput) (*models.Symptom, error) {
	sym := &models.Symptom{
		UserID:     userID,
		Name:       strings.TrimSpace(in.Name),
		Severity:   in.Severity,
		BodyArea:   in.BodyArea,
		Notes:      in.Notes,
		OccurredAt: time.Now(),
	}
	if in.OccurredAt != nil {
		sym.OccurredAt = *in.OccurredAt
	}
	if err := s.db.WithContext(ctx).Create(sym).Error; err != nil {
		return nil, err
	}
	return sym, nil
}

func (s *SymptomService) List(ctx context.Context, userID uint, r DateRange) ([]models.Symptom, error) {
	var out []models.Symptom
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	err := r.apply(q, "occurred_at").Order("occurred_at desc").Find(&out).Error
	return out, err
}

func (s *SymptomService) Get(ctx context.Context, userID, id uint) (*models.Symptom, error) {
	var sym models.Symptom
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&sym).Error; err != nil {
		return nil, notFound(err)
	}
	return &sym, nil
}

func (s *SymptomService) Update(ctx context.Context, userID, id uint, in SymptomInput) (*models.Symptom, error) {
	sym, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	sym.Name = strings.TrimSpace(in.Name)
	sym.Severity = in.Severity
	sym.BodyArea = in.BodyArea
	sym.Notes = in.Notes
	if in.OccurredAt != nil {
		sym.OccurredAt = *in.OccurredAt
	}
	if err := s.db.WithContext(ctx).Save(sym).Error; err != nil {
		return nil, err
	}
	return sym, nil
}

func (s *SymptomService) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Symptom{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
