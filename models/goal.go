package models

import (
	"time"

	"healthtrack/utils"

	"gorm.io/gorm"
)

// Goal is a user's target plus its check-in history. Progress and Streak are
// a cache of utils.Recompute over CheckIns; only the goal service writes them.
type Goal struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:40" json:"category"` // fitness | sleep | nutrition | vitals | ...

	TargetKind       string  `gorm:"size:20;default:scalar" json:"target_kind"`
	TargetCurrent    float64 `json:"target_current"`
	TargetValue      float64 `json:"target_value"`
	TargetSystolic   float64 `json:"target_systolic,omitempty"`
	TargetDiastolic  float64 `json:"target_diastolic,omitempty"`
	CurrentSystolic  float64 `json:"current_systolic,omitempty"`
	CurrentDiastolic float64 `json:"current_diastolic,omitempty"`
	TargetUnit       string  `gorm:"size:16" json:"target_unit"`

	Frequency string     `gorm:"size:16;not null;default:daily" json:"frequency"`
	Status    string     `gorm:"size:16;index;not null;default:active" json:"status"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	Progress int `json:"progress"`
	Streak   int `json:"streak"`

	CheckIns []GoalCheckIn `gorm:"constraint:OnDelete:CASCADE" json:"check_ins,omitempty"`
}

// GoalCheckIn is append-only.
type GoalCheckIn struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GoalID    uint      `gorm:"index;not null" json:"goal_id"`
	Date      time.Time `gorm:"index;not null" json:"date"`
	Completed bool      `json:"completed"`
	Kind      string    `gorm:"size:20;default:scalar" json:"kind"`
	Value     float64   `json:"value"`
	Systolic  float64   `json:"systolic,omitempty"`
	Diastolic float64   `json:"diastolic,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func (g Goal) Target() utils.Measure {
	if utils.MeasureKind(g.TargetKind) == utils.MeasureBloodPressure {
		return utils.BloodPressure(g.TargetSystolic, g.TargetDiastolic)
	}
	return utils.Scalar(g.TargetValue)
}

func (c GoalCheckIn) Measure() utils.Measure {
	if utils.MeasureKind(c.Kind) == utils.MeasureBloodPressure {
		return utils.BloodPressure(c.Systolic, c.Diastolic)
	}
	return utils.Scalar(c.Value)
}

func (c GoalCheckIn) ToCheckIn() utils.CheckIn {
	return utils.CheckIn{Date: c.Date, Completed: c.Completed, Value: c.Measure(), Notes: c.Notes}
}

// Snapshot is the goal as seen by the tracker.
func (g Goal) Snapshot() utils.GoalSnapshot {
	checkIns := make([]utils.CheckIn, 0, len(g.CheckIns))
	for _, c := range g.CheckIns {
		checkIns = append(checkIns, c.ToCheckIn())
	}
	return utils.GoalSnapshot{
		Target:   g.Target(),
		Cadence:  utils.Cadence(g.Frequency),
		CheckIns: checkIns,
		Progress: g.Progress,
		Streak:   g.Streak,
		Status:   utils.GoalStatus(g.Status),
	}
}

// ApplySnapshot copies the derived fields of s back onto g.
func (g *Goal) ApplySnapshot(s utils.GoalSnapshot) {
	g.Progress = s.Progress
	g.Streak = s.Streak
	g.Status = string(s.Status)
}
