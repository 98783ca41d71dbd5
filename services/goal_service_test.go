package services

import (
	"context"
	"testing"
	"time"

	"healthtrack/models"
	"healthtrack/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func stepsGoal() *models.Goal {
	g := &models.Goal{Title: "Walk", Frequency: "daily", Status: "active"}
	setTarget(g, utils.Scalar(10000))
	return g
}

func TestApplyCheckIn_UpdatesCache(t *testing.T) {
	g := stepsGoal()

	ci, err := ApplyCheckIn(g, CheckInInput{Value: fptr(5000), Completed: true}, now)
	require.NoError(t, err)
	assert.Equal(t, "scalar", ci.Kind)
	assert.Equal(t, now, ci.Date)
	assert.Equal(t, 50, g.Progress)
	assert.Equal(t, 1, g.Streak)
	assert.Equal(t, "active", g.Status)
	assert.Equal(t, 5000.0, g.TargetCurrent)
	assert.Len(t, g.CheckIns, 1)

	_, err = ApplyCheckIn(g, CheckInInput{Value: fptr(12000), Completed: true}, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 100, g.Progress)
	assert.Equal(t, 2, g.Streak)
	assert.Equal(t, "completed", g.Status)
}

func TestApplyCheckIn_BloodPressure(t *testing.T) {
	g := &models.Goal{Frequency: "daily", Status: "active"}
	setTarget(g, utils.BloodPressure(120, 80))

	_, err := ApplyCheckIn(g, CheckInInput{Systolic: fptr(120), Diastolic: fptr(80)}, now)
	require.NoError(t, err)
	assert.Equal(t, 100, g.Progress)
	assert.Equal(t, 0, g.Streak)
	assert.Equal(t, "active", g.Status, "not completed without a completed check-in")
	assert.Equal(t, 120.0, g.CurrentSystolic)
	assert.Equal(t, 80.0, g.CurrentDiastolic)
}

func TestApplyCheckIn_Rejects(t *testing.T) {
	t.Run("shape mismatch", func(t *testing.T) {
		g := stepsGoal()
		_, err := ApplyCheckIn(g, CheckInInput{Systolic: fptr(120), Diastolic: fptr(80)}, now)
		assert.ErrorIs(t, err, utils.ErrMeasureMismatch)
		assert.Empty(t, g.CheckIns)
		assert.Equal(t, 0, g.Progress)
	})
	t.Run("half a pressure pair", func(t *testing.T) {
		g := stepsGoal()
		_, err := ApplyCheckIn(g, CheckInInput{Systolic: fptr(120)}, now)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
	t.Run("no value", func(t *testing.T) {
		g := stepsGoal()
		_, err := ApplyCheckIn(g, CheckInInput{Completed: true}, now)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
	t.Run("closed goal", func(t *testing.T) {
		g := stepsGoal()
		g.Status = "abandoned"
		_, err := ApplyCheckIn(g, CheckInInput{Value: fptr(1)}, now)
		assert.ErrorIs(t, err, ErrGoalClosed)
	})
}

func TestTargetInputMeasure(t *testing.T) {
	m, err := TargetInput{Target: fptr(8)}.measure()
	require.NoError(t, err)
	assert.Equal(t, utils.Scalar(8), m)

	m, err = TargetInput{Systolic: fptr(120), Diastolic: fptr(80)}.measure()
	require.NoError(t, err)
	assert.Equal(t, utils.BloodPressure(120, 80), m)

	_, err = TargetInput{Target: fptr(0)}.measure()
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = TargetInput{}.measure()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGoalService_AddCheckIn(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewGoalService(db, nil, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "goals"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "target_kind", "target_value", "frequency", "status", "progress", "streak"}).
			AddRow(3, 1, "Sleep 8h", "scalar", 8, "daily", "active", 0, 0))
	mock.ExpectQuery(`SELECT \* FROM "goal_check_ins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "goal_id", "date", "completed", "kind", "value"}))
	mock.ExpectQuery(`INSERT INTO "goal_check_ins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`UPDATE "goals" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	g, ci, err := svc.AddCheckIn(context.Background(), 1, 3, CheckInInput{Value: fptr(8), Completed: true})
	require.NoError(t, err)
	assert.Equal(t, uint(11), ci.ID)
	assert.Equal(t, uint(3), ci.GoalID)
	assert.Equal(t, 100, g.Progress)
	assert.Equal(t, 1, g.Streak)
	assert.Equal(t, "completed", g.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalService_AddCheckInMissingGoal(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewGoalService(db, nil, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "goals"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, _, err := svc.AddCheckIn(context.Background(), 1, 99, CheckInInput{Value: fptr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalService_RecomputeAll(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewGoalService(db, nil, zap.NewNop())

	mock.ExpectQuery(`SELECT "id","user_id","progress","streak" FROM "goals"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "progress", "streak"}).AddRow(3, 1, 0, 0))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "goals"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "target_kind", "target_value", "frequency", "status", "progress", "streak"}).
			AddRow(3, 1, "Sleep 8h", "scalar", 8, "daily", "active", 0, 0))
	mock.ExpectQuery(`SELECT \* FROM "goal_check_ins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "goal_id", "date", "completed", "kind", "value"}).
			AddRow(11, 3, now, true, "scalar", 8))
	mock.ExpectExec(`UPDATE "goals" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	checked, repaired, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, checked)
	assert.Equal(t, 1, repaired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func abandonGoalRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "title", "target_kind", "target_value", "frequency", "status"}).
		AddRow(3, 1, "Walk", "scalar", 10000, "daily", "active")
}

func TestGoalService_Abandon(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewGoalService(db, nil, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "goals"`).WillReturnRows(abandonGoalRows())
	mock.ExpectQuery(`SELECT \* FROM "goal_check_ins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "goal_id"}))
	mock.ExpectExec(`UPDATE "goals" SET "status"=.*AND status = `).
		WithArgs("abandoned", sqlmock.AnyArg(), 3, 1, "active").
		WillReturnResult(sqlmock.NewResult(0, 1))

	g, err := svc.Abandon(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, "abandoned", g.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalService_AbandonLosesToConcurrentCompletion(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewGoalService(db, nil, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "goals"`).WillReturnRows(abandonGoalRows())
	mock.ExpectQuery(`SELECT \* FROM "goal_check_ins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "goal_id"}))
	// the row is already completed, so the guarded update matches nothing
	mock.ExpectExec(`UPDATE "goals" SET "status"=.*AND status = `).
		WithArgs("abandoned", sqlmock.AnyArg(), 3, 1, "active").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Abandon(context.Background(), 1, 3)
	assert.ErrorIs(t, err, ErrGoalClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
