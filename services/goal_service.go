package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"healthtrack/models"
	"healthtrack/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GoalService owns goals and their check-ins. It is the only writer of a
// goal's cached progress, streak and status.
type GoalService struct {
	db     *gorm.DB
	alerts *AlertService // nil disables completion alerts
	log    *zap.Logger
}

func NewGoalService(db *gorm.DB, alerts *AlertService, log *zap.Logger) *GoalService {
	return &GoalService{db: db, alerts: alerts, log: log}
}

type TargetInput struct {
	Current   float64  `json:"current"`
	Target    *float64 `json:"target"`
	Systolic  *float64 `json:"systolic"`
	Diastolic *float64 `json:"diastolic"`
	Unit      string   `json:"unit" binding:"max=16"`
}

type GoalInput struct {
	Title        string      `json:"title" binding:"required,max=200"`
	Description  string      `json:"description"`
	Category     string      `json:"category" binding:"max=40"`
	TargetMetric TargetInput `json:"target_metric"`
	Frequency    string      `json:"frequency" binding:"required,cadence"`
	StartDate    *time.Time  `json:"start_date"`
	EndDate      *time.Time  `json:"end_date"`
}

type CheckInInput struct {
	Date      *time.Time `json:"date"`
	Completed bool       `json:"completed"`
	Value     *float64   `json:"value"`
	Systolic  *float64   `json:"systolic"`
	Diastolic *float64   `json:"diastolic"`
	Notes     string     `json:"notes"`
}

// measure turns the loose JSON shape into the tagged variant.
func (t TargetInput) measure() (utils.Measure, error) {
	switch {
	case t.Systolic != nil || t.Diastolic != nil:
		if t.Systolic == nil || t.Diastolic == nil || *t.Systolic <= 0 || *t.Diastolic <= 0 {
			return utils.Measure{}, fmt.Errorf("%w: blood pressure target needs positive systolic and diastolic", ErrInvalidInput)
		}
		return utils.BloodPressure(*t.Systolic, *t.Diastolic), nil
	case t.Target != nil:
		if *t.Target <= 0 {
			return utils.Measure{}, fmt.Errorf("%w: target must be positive", ErrInvalidInput)
		}
		return utils.Scalar(*t.Target), nil
	default:
		return utils.Measure{}, fmt.Errorf("%w: target_metric needs target or systolic/diastolic", ErrInvalidInput)
	}
}

func (in CheckInInput) measure() (utils.Measure, error) {
	switch {
	case in.Systolic != nil || in.Diastolic != nil:
		if in.Systolic == nil || in.Diastolic == nil {
			return utils.Measure{}, fmt.Errorf("%w: blood pressure check-in needs systolic and diastolic", ErrInvalidInput)
		}
		return utils.BloodPressure(*in.Systolic, *in.Diastolic), nil
	case in.Value != nil:
		return utils.Scalar(*in.Value), nil
	default:
		return utils.Measure{}, fmt.Errorf("%w: check-in needs value or systolic/diastolic", ErrInvalidInput)
	}
}

func (s *GoalService) Create(ctx context.Context, userID uint, in GoalInput) (*models.Goal, error) {
	target, err := in.TargetMetric.measure()
	if err != nil {
		return nil, err
	}
	cadence, err := utils.ParseCadence(in.Frequency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	g := &models.Goal{
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Category:      in.Category,
		TargetCurrent: in.TargetMetric.Current,
		TargetUnit:    in.TargetMetric.Unit,
		Frequency:     string(cadence),
		Status:        string(utils.GoalActive),
		StartDate:     time.Now(),
		EndDate:       in.EndDate,
	}
	setTarget(g, target)
	if in.StartDate != nil {
		g.StartDate = *in.StartDate
	}
	if g.EndDate != nil && g.EndDate.Before(g.StartDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}

	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GoalService) List(ctx context.Context, userID uint, status string) ([]models.Goal, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Goal
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}

// Get loads a goal with its check-ins, newest first.
func (s *GoalService) Get(ctx context.Context, userID, id uint) (*models.Goal, error) {
	var g models.Goal
	err := s.db.WithContext(ctx).
		Preload("CheckIns", func(db *gorm.DB) *gorm.DB { return db.Order("date desc") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&g).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

// Update edits goal metadata and target. A target change recomputes progress
// against the existing check-ins; the new target must keep the old shape.
func (s *GoalService) Update(ctx context.Context, userID, id uint, in GoalInput) (*models.Goal, error) {
	target, err := in.TargetMetric.measure()
	if err != nil {
		return nil, err
	}
	cadence, err := utils.ParseCadence(in.Frequency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var g *models.Goal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = lockGoal(tx, userID, id)
		if err != nil {
			return err
		}
		if g.Target().Kind != target.Kind && len(g.CheckIns) > 0 {
			return utils.ErrMeasureMismatch
		}
		g.Title = strings.TrimSpace(in.Title)
		g.Description = in.Description
		g.Category = in.Category
		g.TargetUnit = in.TargetMetric.Unit
		g.Frequency = string(cadence)
		g.EndDate = in.EndDate
		if in.StartDate != nil {
			g.StartDate = *in.StartDate
		}
		setTarget(g, target)

		if err := recomputeGoal(g); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(g).Error
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Abandon is the caller-driven transition out of active.
func (s *GoalService) Abandon(ctx context.Context, userID, id uint) (*models.Goal, error) {
	g, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if g.Status != string(utils.GoalActive) {
		return nil, ErrGoalClosed
	}
	// A check-in may complete the goal between the read and this write.
	res := s.db.WithContext(ctx).Model(&models.Goal{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, string(utils.GoalActive)).
		Update("status", string(utils.GoalAbandoned))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrGoalClosed
	}
	g.Status = string(utils.GoalAbandoned)
	return g, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Goal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("goal_id = ?", id).Delete(&models.GoalCheckIn{}).Error
	})
}

// AddCheckIn appends a check-in and stores the recomputed progress, streak and
// status in the same transaction.
func (s *GoalService) AddCheckIn(ctx context.Context, userID, goalID uint, in CheckInInput) (*models.Goal, *models.GoalCheckIn, error) {
	var (
		g         *models.Goal
		ci        *models.GoalCheckIn
		completed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = lockGoal(tx, userID, goalID)
		if err != nil {
			return err
		}
		before := g.Status
		ci, err = ApplyCheckIn(g, in, time.Now())
		if err != nil {
			return err
		}
		completed = before != g.Status && g.Status == string(utils.GoalCompleted)

		if err := tx.Create(ci).Error; err != nil {
			return err
		}
		return tx.Model(&models.Goal{}).Where("id = ?", g.ID).Updates(map[string]any{
			"progress":          g.Progress,
			"streak":            g.Streak,
			"status":            g.Status,
			"target_current":    g.TargetCurrent,
			"current_systolic":  g.CurrentSystolic,
			"current_diastolic": g.CurrentDiastolic,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("goal check-in",
		zap.Uint("goal_id", g.ID),
		zap.Int("progress", g.Progress),
		zap.Int("streak", g.Streak),
		zap.String("status", g.Status))
	if completed && s.alerts != nil {
		s.alerts.Emit(ctx, userID, AlertAchievement, "goal", fmt.Sprintf("You reached your goal %q!", g.Title))
	}
	return g, ci, nil
}

func (s *GoalService) ListCheckIns(ctx context.Context, userID, goalID uint) ([]models.GoalCheckIn, error) {
	g, err := s.Get(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	return g.CheckIns, nil
}

// Recompute rebuilds the cached fields from the stored check-ins and saves
// them if they drifted.
func (s *GoalService) Recompute(ctx context.Context, userID, goalID uint) (*models.Goal, error) {
	var g *models.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = lockGoal(tx, userID, goalID)
		if err != nil {
			return err
		}
		progress, streak := g.Progress, g.Streak
		if err := recomputeGoal(g); err != nil {
			return err
		}
		if progress == g.Progress && streak == g.Streak {
			return nil
		}
		s.log.Warn("goal cache drifted",
			zap.Uint("goal_id", g.ID),
			zap.Int("progress_was", progress),
			zap.Int("streak_was", streak))
		return tx.Model(&models.Goal{}).Where("id = ?", g.ID).Updates(map[string]any{
			"progress": g.Progress,
			"streak":   g.Streak,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// RecomputeAll repairs every active goal and reports how many drifted.
func (s *GoalService) RecomputeAll(ctx context.Context) (checked, repaired int, err error) {
	var goals []models.Goal
	err = s.db.WithContext(ctx).
		Select("id", "user_id", "progress", "streak").
		Where("status = ?", string(utils.GoalActive)).
		Order("id asc").
		Find(&goals).Error
	if err != nil {
		return 0, 0, err
	}
	for _, g := range goals {
		got, err := s.Recompute(ctx, g.UserID, g.ID)
		if err != nil {
			return checked, repaired, fmt.Errorf("goal %d: %w", g.ID, err)
		}
		checked++
		if got.Progress != g.Progress || got.Streak != g.Streak {
			repaired++
		}
	}
	return checked, repaired, nil
}

// ApplyCheckIn validates in against g's target, appends it to g.CheckIns and
// refreshes g's derived fields. It touches no storage.
func ApplyCheckIn(g *models.Goal, in CheckInInput, now time.Time) (*models.GoalCheckIn, error) {
	if g.Status != "" && g.Status != string(utils.GoalActive) {
		return nil, ErrGoalClosed
	}
	value, err := in.measure()
	if err != nil {
		return nil, err
	}

	ci := &models.GoalCheckIn{
		GoalID:    g.ID,
		Date:      now,
		Completed: in.Completed,
		Kind:      string(value.Kind),
		Value:     value.Value,
		Systolic:  value.Systolic,
		Diastolic: value.Diastolic,
		Notes:     in.Notes,
	}
	if in.Date != nil {
		ci.Date = *in.Date
	}

	next, err := utils.AppendCheckIn(g.Snapshot(), ci.ToCheckIn())
	if err != nil {
		return nil, err
	}
	g.CheckIns = append(g.CheckIns, *ci)
	g.ApplySnapshot(next)
	if value.IsBloodPressure() {
		g.CurrentSystolic, g.CurrentDiastolic = value.Systolic, value.Diastolic
	} else {
		g.TargetCurrent = value.Value
	}
	return ci, nil
}

func recomputeGoal(g *models.Goal) error {
	next, err := utils.Recompute(g.Snapshot())
	if err != nil {
		return err
	}
	g.ApplySnapshot(next)
	return nil
}

func setTarget(g *models.Goal, m utils.Measure) {
	g.TargetKind = string(m.Kind)
	g.TargetValue = 0
	g.TargetSystolic, g.TargetDiastolic = 0, 0
	if m.IsBloodPressure() {
		g.TargetSystolic, g.TargetDiastolic = m.Systolic, m.Diastolic
	} else {
		g.TargetValue = m.Value
	}
}

// lockGoal loads a goal and its check-ins, holding a row lock until tx ends.
func lockGoal(tx *gorm.DB, userID, id uint) (*models.Goal, error) {
	var g models.Goal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&g).Error
	if err != nil {
		return nil, notFound(err)
	}
	if err := tx.Where("goal_id = ?", g.ID).Order("id asc").Find(&g.CheckIns).Error; err != nil {
		return nil, err
	}
	return &g, nil
}
