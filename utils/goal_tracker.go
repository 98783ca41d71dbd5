package utils

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Cadence is how often a goal expects a check-in.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
	CadenceCustom  Cadence = "custom"
)

// ParseCadence validates a frequency string.
func ParseCadence(s string) (Cadence, error) {
	switch c := Cadence(s); c {
	case CadenceDaily, CadenceWeekly, CadenceMonthly, CadenceCustom:
		return c, nil
	default:
		return "", fmt.Errorf("unknown cadence %q", s)
	}
}

// ExpectedGapDays is the day distance between two on-schedule check-ins.
// Custom cadences have no schedule and report 0; UpdateStreak caps them at 1.
func (c Cadence) ExpectedGapDays() int {
	switch c {
	case CadenceDaily:
		return 1
	case CadenceWeekly:
		return 7
	case CadenceMonthly:
		return 30
	default:
		return 0
	}
}

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
)

// CheckIn is one dated record of progress toward a goal.
type CheckIn struct {
	Date      time.Time
	Completed bool
	Value     Measure
	Notes     string
}

// GoalSnapshot is the state of a goal at one point in its check-in history.
// Progress, Streak and Status are derived from the other fields; build new
// snapshots with AppendCheckIn or Recompute instead of editing them by hand.
type GoalSnapshot struct {
	Target   Measure
	Cadence  Cadence
	CheckIns []CheckIn
	Progress int
	Streak   int
	Status   GoalStatus
}

// CalculateProgress returns percent progress (0-100) of the latest check-in
// toward target. previous is returned unchanged when the numbers can't be used
// (NaN, infinite, or a non-positive target).
func CalculateProgress(checkIns []CheckIn, target Measure, previous int) (int, error) {
	if len(checkIns) == 0 {
		return 0, nil
	}
	latest := checkIns[latestIndex(checkIns)].Value
	if latest.Kind != target.Kind {
		return previous, ErrMeasureMismatch
	}
	if !latest.Finite() || !target.Finite() {
		return previous, nil
	}

	var pct float64
	if target.IsBloodPressure() {
		if target.Systolic <= 0 || target.Diastolic <= 0 {
			return previous, nil
		}
		sys := latest.Systolic / target.Systolic * 100
		dia := latest.Diastolic / target.Diastolic * 100
		pct = (sys + dia) / 2
	} else {
		if target.Value <= 0 {
			return previous, nil
		}
		pct = latest.Value / target.Value * 100
	}
	return clampPercent(math.Round(pct)), nil
}

// UpdateStreak counts consecutive completed, on-schedule check-ins ending at the
// most recent one.
func UpdateStreak(checkIns []CheckIn, cadence Cadence) int {
	if len(checkIns) == 0 {
		return 0
	}
	sorted := sortedByDateDesc(checkIns)
	if !sorted[0].Completed {
		return 0
	}

	gap := cadence.ExpectedGapDays()
	if gap <= 0 {
		return 1
	}
	streak := 1
	for i := 1; i < len(sorted); i++ {
		cur := sorted[i]
		if !cur.Completed || dayDiff(sorted[i-1].Date, cur.Date) != gap {
			break
		}
		streak++
	}
	return streak
}

// NextStatus applies the only transition computed here: active becomes
// completed once progress reaches 100 on a completed check-in.
func NextStatus(current GoalStatus, progress int, justCompleted bool) GoalStatus {
	if current == "" {
		current = GoalActive
	}
	if current == GoalActive && progress >= 100 && justCompleted {
		return GoalCompleted
	}
	return current
}

// AppendCheckIn returns a new snapshot with ci appended and every derived field
// recomputed. The input snapshot is not modified.
func AppendCheckIn(s GoalSnapshot, ci CheckIn) (GoalSnapshot, error) {
	if ci.Value.Kind != s.Target.Kind {
		return s, ErrMeasureMismatch
	}
	next := s
	next.CheckIns = make([]CheckIn, 0, len(s.CheckIns)+1)
	next.CheckIns = append(next.CheckIns, s.CheckIns...)
	next.CheckIns = append(next.CheckIns, ci)

	progress, err := CalculateProgress(next.CheckIns, next.Target, s.Progress)
	if err != nil {
		return s, err
	}
	next.Progress = progress
	next.Streak = UpdateStreak(next.CheckIns, next.Cadence)
	next.Status = NextStatus(s.Status, progress, ci.Completed)
	return next, nil
}

// Recompute rebuilds Progress and Streak from the check-in list, keeping Status.
func Recompute(s GoalSnapshot) (GoalSnapshot, error) {
	progress, err := CalculateProgress(s.CheckIns, s.Target, s.Progress)
	if err != nil {
		return s, err
	}
	s.Progress = progress
	s.Streak = UpdateStreak(s.CheckIns, s.Cadence)
	if s.Status == "" {
		s.Status = GoalActive
	}
	return s, nil
}

// latestIndex picks the check-in with the greatest date; on a tie the one
// appended last wins.
func latestIndex(checkIns []CheckIn) int {
	idx := 0
	for i := 1; i < len(checkIns); i++ {
		if !checkIns[i].Date.Before(checkIns[idx].Date) {
			idx = i
		}
	}
	return idx
}

func sortedByDateDesc(checkIns []CheckIn) []CheckIn {
	out := make([]CheckIn, len(checkIns))
	copy(out, checkIns)
	// stable + reversed input keeps "appended last wins" for equal dates
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// dayDiff counts calendar days from b to a, using each time's own date.
func dayDiff(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(da.Sub(db).Hours() / 24)
}

func clampPercent(v float64) int {
	switch {
	case v > 100:
		return 100
	case v < 0:
		return 0
	default:
		return int(v)
	}
}
