package services

import (
	"time"

	"gorm.io/gorm"
)

// DateRange bounds list queries. Zero values are open ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) apply(q *gorm.DB, column string) *gorm.DB {
	if !r.From.IsZero() {
		q = q.Where(column+" >= ?", r.From)
	}
	if !r.To.IsZero() {
		q = q.Where(column+" <= ?", r.To)
	}
	return q
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
