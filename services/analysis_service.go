package services

import (
	"context"
	"encoding/json"
	"time"

	"healthtrack/models"
	"healthtrack/utils"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisService scores a user's recent metrics and keeps the reports.
type AnalysisService struct {
	db         *gorm.DB
	scorer     *utils.HealthSignalScorer
	alerts     *AlertService // nil disables concern alerts
	windowDays int
	log        *zap.Logger
}

func NewAnalysisService(db *gorm.DB, scorer *utils.HealthSignalScorer, alerts *AlertService, windowDays int, log *zap.Logger) *AnalysisService {
	if scorer == nil {
		scorer = utils.NewHealthSignalScorer(utils.DefaultReferenceRanges())
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	return &AnalysisService{db: db, scorer: scorer, alerts: alerts, windowDays: windowDays, log: log}
}

type AnalysisResult struct {
	ReportID        uint             `json:"report_id"`
	WindowFrom      time.Time        `json:"window_from"`
	WindowTo        time.Time        `json:"window_to"`
	SampleCount     int              `json:"sample_count"`
	HealthScore     int              `json:"health_score"`
	Observations    []string         `json:"observations"`
	Concerns        []string         `json:"concerns"`
	Recommendations []Recommendation `json:"recommendations"`
	Incomplete      bool             `json:"incomplete,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Analyze scores the last windowDays of metrics (0 uses the configured
// window), stores a report and raises one warning alert per concern.
func (s *AnalysisService) Analyze(ctx context.Context, userID uint, windowDays int) (*AnalysisResult, error) {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}
	to := time.Now()
	from := dayStart(to.AddDate(0, 0, -(windowDays - 1)))

	var rows []models.HealthMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at BETWEEN ? AND ?", userID, from, to).
		Order("recorded_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := s.scorer.Score(models.Samples(rows))
	recs := Recommend(res, len(rows))

	report, err := buildReport(userID, from, to, len(rows), res, recs)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}

	s.log.Info("health analysis",
		zap.Uint("user_id", userID),
		zap.Int("samples", len(rows)),
		zap.Int("score", res.HealthScore),
		zap.Int("concerns", len(res.Concerns)),
		zap.Bool("incomplete", res.Incomplete))

	if s.alerts != nil {
		for _, c := range res.Concerns {
			s.alerts.Emit(ctx, userID, AlertWarning, "analysis", c)
		}
	}

	return &AnalysisResult{
		ReportID:        report.ID,
		WindowFrom:      from,
		WindowTo:        to,
		SampleCount:     len(rows),
		HealthScore:     res.HealthScore,
		Observations:    res.Observations,
		Concerns:        res.Concerns,
		Recommendations: recs,
		Incomplete:      res.Incomplete,
		CreatedAt:       report.CreatedAt,
	}, nil
}

// Latest returns the newest stored report.
func (s *AnalysisService) Latest(ctx context.Context, userID uint) (*AnalysisResult, error) {
	var r models.AnalysisReport
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").First(&r).Error
	if err != nil {
		return nil, notFound(err)
	}
	return ReportResult(&r)
}

// Score runs the scorer over caller-supplied samples without storing anything.
func (s *AnalysisService) Score(samples []utils.MetricSample) (utils.ScoreResult, []Recommendation) {
	res := s.scorer.Score(samples)
	return res, Recommend(res, len(samples))
}

func buildReport(userID uint, from, to time.Time, n int, res utils.ScoreResult, recs []Recommendation) (*models.AnalysisReport, error) {
	obs, err := json.Marshal(res.Observations)
	if err != nil {
		return nil, err
	}
	concerns, err := json.Marshal(res.Concerns)
	if err != nil {
		return nil, err
	}
	recJSON, err := json.Marshal(recs)
	if err != nil {
		return nil, err
	}
	return &models.AnalysisReport{
		UserID:          userID,
		WindowFrom:      from,
		WindowTo:        to,
		SampleCount:     n,
		HealthScore:     res.HealthScore,
		Incomplete:      res.Incomplete,
		Observations:    datatypes.JSON(obs),
		Concerns:        datatypes.JSON(concerns),
		Recommendations: datatypes.JSON(recJSON),
	}, nil
}

// ReportResult decodes a stored report.
func ReportResult(r *models.AnalysisReport) (*AnalysisResult, error) {
	out := &AnalysisResult{
		ReportID:        r.ID,
		WindowFrom:      r.WindowFrom,
		WindowTo:        r.WindowTo,
		SampleCount:     r.SampleCount,
		HealthScore:     r.HealthScore,
		Incomplete:      r.Incomplete,
		Observations:    []string{},
		Concerns:        []string{},
		Recommendations: []Recommendation{},
		CreatedAt:       r.CreatedAt,
	}
	for _, f := range []struct {
		raw datatypes.JSON
		dst any
	}{
		{r.Observations, &out.Observations},
		{r.Concerns, &out.Concerns},
		{r.Recommendations, &out.Recommendations},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return nil, err
		}
	}
	return out, nil
}
