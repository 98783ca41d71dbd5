package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"healthtrack/models"
	"healthtrack/utils"

	"gorm.io/gorm"
)

type AnalyticsService struct{ db *gorm.DB }

func NewAnalyticsService(db *gorm.DB) *AnalyticsService { return &AnalyticsService{db: db} }

// ---------- Summary ----------

type Stats struct {
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
	Unit  string  `json:"unit,omitempty"`
}

type DailyAverage struct {
	Date  string  `json:"date"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

type SeriesSummary struct {
	Stats
	Daily []DailyAverage `json:"daily"`
}

type AnalyticsSummary struct {
	Range struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"range"`

	// Keyed by metric type; blood pressure splits into
	// blood_pressure.systolic and blood_pressure.diastolic.
	Metrics map[string]SeriesSummary `json:"metrics"`

	Metadata struct {
		DaysCounted        int  `json:"days_counted"`
		IncludeMissingDays bool `json:"include_missing_days"`
		Samples            int  `json:"samples"`
	} `json:"metadata"`
}

func (s *AnalyticsService) Summary(
	ctx context.Context, userID uint, from, to time.Time, includeMissing bool,
) (*AnalyticsSummary, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	rows, err := s.metrics(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return SummarizeMetrics(rows, from, to, includeMissing), nil
}

// SummarizeMetrics aggregates rows per series and per day. With includeMissing
// every calendar day in [from, to] appears in Daily, empty days as zero.
func SummarizeMetrics(rows []models.HealthMetric, from, to time.Time, includeMissing bool) *AnalyticsSummary {
	out := &AnalyticsSummary{Metrics: map[string]SeriesSummary{}}
	out.Range.From = from.Format("2006-01-02")
	out.Range.To = to.Format("2006-01-02")
	out.Metadata.IncludeMissingDays = includeMissing
	out.Metadata.Samples = len(rows)

	byDay := groupByDay(rows)
	var days []string
	if includeMissing {
		for d := dayStart(from); !d.After(to); d = d.AddDate(0, 0, 1) {
			days = append(days, d.Format("2006-01-02"))
		}
	} else {
		for k := range byDay {
			days = append(days, k)
		}
		sort.Strings(days)
	}
	out.Metadata.DaysCounted = len(days)

	all := map[string][]float64{}
	units := map[string]string{}
	for _, r := range rows {
		for key, v := range seriesValues(r) {
			all[key] = append(all[key], v)
			units[key] = r.Unit
		}
	}

	for key, vals := range all {
		sum := SeriesSummary{Stats: describe(vals)}
		sum.Unit = units[key]
		for _, day := range days {
			var dv []float64
			for _, r := range byDay[day] {
				if v, ok := seriesValues(r)[key]; ok {
					dv = append(dv, v)
				}
			}
			sum.Daily = append(sum.Daily, DailyAverage{Date: day, Avg: avgOf(dv), Count: len(dv)})
		}
		out.Metrics[key] = sum
	}
	return out
}

// ---------- Weekly Overview ----------

type WeeklyOverviewResponse struct {
	WeekStart string         `json:"week_start"`
	Days      []DayOverview  `json:"days"`
	Goals     []GoalOverview `json:"goals"`
}

type DayOverview struct {
	Date     string             `json:"date"`
	Averages map[string]float64 `json:"averages"`
	Symptoms int                `json:"symptoms"`
	CheckIns int                `json:"check_ins"`
}

type GoalOverview struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
	Streak   int    `json:"streak"`
	Status   string `json:"status"`
}

func (s *AnalyticsService) WeeklyOverview(ctx context.Context, userID uint, weekStart time.Time) (*WeeklyOverviewResponse, error) {
	from := dayStart(weekStart)
	to := dayEnd(from.AddDate(0, 0, 6))

	rows, err := s.metrics(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	var symptoms []models.Symptom
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND occurred_at BETWEEN ? AND ?", userID, from, to).
		Find(&symptoms).Error; err != nil {
		return nil, err
	}

	var goals []models.Goal
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(utils.GoalActive)).
		Order("id asc").
		Find(&goals).Error; err != nil {
		return nil, err
	}

	var checkIns []models.GoalCheckIn
	if len(goals) > 0 {
		ids := make([]uint, 0, len(goals))
		for _, g := range goals {
			ids = append(ids, g.ID)
		}
		if err := s.db.WithContext(ctx).
			Where("goal_id IN ? AND date BETWEEN ? AND ?", ids, from, to).
			Find(&checkIns).Error; err != nil {
			return nil, err
		}
	}

	return BuildWeeklyOverview(from, rows, symptoms, goals, checkIns), nil
}

// BuildWeeklyOverview lays out seven days starting at from.
func BuildWeeklyOverview(from time.Time, rows []models.HealthMetric, symptoms []models.Symptom, goals []models.Goal, checkIns []models.GoalCheckIn) *WeeklyOverviewResponse {
	from = dayStart(from)
	byDay := groupByDay(rows)

	symptomCount := map[string]int{}
	for _, sy := range symptoms {
		symptomCount[sy.OccurredAt.Format("2006-01-02")]++
	}
	checkInCount := map[string]int{}
	for _, c := range checkIns {
		checkInCount[c.Date.Format("2006-01-02")]++
	}

	out := &WeeklyOverviewResponse{
		WeekStart: from.Format("2006-01-02"),
		Days:      make([]DayOverview, 0, 7),
		Goals:     make([]GoalOverview, 0, len(goals)),
	}
	for i := 0; i < 7; i++ {
		key := from.AddDate(0, 0, i).Format("2006-01-02")
		vals := map[string][]float64{}
		for _, r := range byDay[key] {
			for k, v := range seriesValues(r) {
				vals[k] = append(vals[k], v)
			}
		}
		avgs := make(map[string]float64, len(vals))
		for k, v := range vals {
			avgs[k] = avgOf(v)
		}
		out.Days = append(out.Days, DayOverview{
			Date:     key,
			Averages: avgs,
			Symptoms: symptomCount[key],
			CheckIns: checkInCount[key],
		})
	}
	for _, g := range goals {
		out.Goals = append(out.Goals, GoalOverview{
			ID: g.ID, Title: g.Title, Progress: g.Progress, Streak: g.Streak, Status: g.Status,
		})
	}
	return out
}

// ---------- internals ----------

func (s *AnalyticsService) metrics(ctx context.Context, userID uint, from, to time.Time) ([]models.HealthMetric, error) {
	var rows []models.HealthMetric
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Order("recorded_at asc").
		Find(&rows).Error
	return rows, err
}

func groupByDay(rows []models.HealthMetric) map[string][]models.HealthMetric {
	out := map[string][]models.HealthMetric{}
	for _, r := range rows {
		k := r.RecordedAt.Format("2006-01-02")
		out[k] = append(out[k], r)
	}
	return out
}

func seriesValues(r models.HealthMetric) map[string]float64 {
	if utils.MetricType(r.Type) == utils.MetricBloodPressure {
		return map[string]float64{
			r.Type + ".systolic":  r.Systolic,
			r.Type + ".diastolic": r.Diastolic,
		}
	}
	return map[string]float64{r.Type: r.Value}
}

func describe(vs []float64) Stats {
	if len(vs) == 0 {
		return Stats{}
	}
	st := Stats{Min: vs[0], Max: vs[0], Count: len(vs)}
	for _, v := range vs {
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
	}
	st.Avg = avgOf(vs)
	st.Min, st.Max = round2(st.Min), round2(st.Max)
	return st
}

func avgOf(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return round2(sum / float64(len(vs)))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
