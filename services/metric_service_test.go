package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMetric(t *testing.T) {
	ts := time.Date(2026, 2, 1, 7, 0, 0, 0, time.UTC)

	m, err := BuildMetric(1, MetricInput{Type: "heart_rate", Value: fptr(64)}, ts)
	require.NoError(t, err)
	assert.Equal(t, 64.0, m.Value)
	assert.Equal(t, "bpm", m.Unit)
	assert.Equal(t, "manual", m.Source)
	assert.Equal(t, ts, m.RecordedAt)

	m, err = BuildMetric(1, MetricInput{Type: "blood_pressure", Systolic: fptr(118), Diastolic: fptr(76), Source: "device"}, ts)
	require.NoError(t, err)
	assert.Equal(t, 118.0, m.Systolic)
	assert.Equal(t, 76.0, m.Diastolic)
	assert.Equal(t, "mmHg", m.Unit)
	assert.Equal(t, "device", m.Source)

	bad := []MetricInput{
		{Type: "mood", Value: fptr(3)},
		{Type: "blood_pressure", Value: fptr(120)},
		{Type: "blood_pressure", Systolic: fptr(0), Diastolic: fptr(80)},
		{Type: "steps"},
		{Type: "steps", Value: fptr(-1)},
	}
	for _, in := range bad {
		_, err := BuildMetric(1, in, ts)
		assert.ErrorIs(t, err, ErrInvalidInput, in.Type)
	}
}

func TestMetricService_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewMetricService(db)

	mock.ExpectQuery(`INSERT INTO "health_metrics"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	m, err := svc.Create(context.Background(), 1, MetricInput{Type: "sleep", Value: fptr(7.5)})
	require.NoError(t, err)
	assert.Equal(t, uint(7), m.ID)
	assert.Equal(t, "hours", m.Unit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricService_CreateBatchRejectsBadItem(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewMetricService(db)

	_, err := svc.CreateBatch(context.Background(), 1, []MetricInput{
		{Type: "steps", Value: fptr(4000)},
		{Type: "blood_pressure", Value: fptr(1)},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "item 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSymptomService_GetAndDeleteNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewSymptomService(db)

	mock.ExpectQuery(`SELECT \* FROM "symptoms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err := svc.Get(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec(`UPDATE "symptoms" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = svc.Delete(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlertService_MarkRead(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAlertService(db, nil, nil, nil)

	mock.ExpectExec(`UPDATE "alerts" SET "is_read"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, svc.MarkRead(context.Background(), 1, 2))

	mock.ExpectExec(`UPDATE "alerts" SET "is_read"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, svc.MarkRead(context.Background(), 1, 3), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
