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
	"gorm.io/datatypes"
)

func TestRecommend(t *testing.T) {
	recs := Recommend(utils.ScoreResult{Concerns: []string{utils.ConcernLowActivity, utils.ConcernElevatedBloodPressure}}, 10)
	require.Len(t, recs, 4)
	assert.Equal(t, "fitness", recs[0].Category)
	assert.Equal(t, "vitals", recs[2].Category)

	recs = Recommend(utils.ScoreResult{}, 10)
	assert.Equal(t, []Recommendation{maintainRec}, recs)

	recs = Recommend(utils.ScoreResult{}, 0)
	assert.Equal(t, []Recommendation{moreDataRec}, recs)

	recs = Recommend(utils.ScoreResult{Incomplete: true}, 3)
	assert.Equal(t, []Recommendation{moreDataRec}, recs)
}

func TestReportResult_DecodesJSON(t *testing.T) {
	r := &models.AnalysisReport{
		HealthScore:     80,
		Observations:    datatypes.JSON(`["a","b"]`),
		Concerns:        datatypes.JSON(`[]`),
		Recommendations: datatypes.JSON(`[{"category":"sleep","title":"t","detail":"d","priority":"low"}]`),
	}
	r.ID = 4

	out, err := ReportResult(r)
	require.NoError(t, err)
	assert.Equal(t, uint(4), out.ReportID)
	assert.Equal(t, []string{"a", "b"}, out.Observations)
	assert.Empty(t, out.Concerns)
	require.Len(t, out.Recommendations, 1)
	assert.Equal(t, "sleep", out.Recommendations[0].Category)

	_, err = ReportResult(&models.AnalysisReport{Concerns: datatypes.JSON(`{`)})
	assert.Error(t, err)
}

func TestAnalysisService_Score(t *testing.T) {
	svc := NewAnalysisService(nil, nil, nil, 0, zap.NewNop())
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	res, recs := svc.Score([]utils.MetricSample{
		{Type: utils.MetricSteps, Value: utils.Scalar(2000), Timestamp: ts},
		{Type: utils.MetricSteps, Value: utils.Scalar(3000), Timestamp: ts},
	})
	assert.Equal(t, 65, res.HealthScore)
	assert.Equal(t, []string{utils.ConcernLowActivity}, res.Concerns)
	assert.Len(t, recs, 2)
}

func TestAnalysisService_AnalyzeEmptyWindow(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAnalysisService(db, nil, nil, 7, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "health_metrics"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "value"}))
	mock.ExpectQuery(`INSERT INTO "analysis_reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	res, err := svc.Analyze(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(21), res.ReportID)
	assert.Equal(t, 70, res.HealthScore)
	assert.Equal(t, 0, res.SampleCount)
	assert.Empty(t, res.Concerns)
	assert.Equal(t, []Recommendation{moreDataRec}, res.Recommendations)
	assert.Equal(t, res.WindowTo.AddDate(0, 0, -6).Format("2006-01-02"), res.WindowFrom.Format("2006-01-02"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisService_LatestMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAnalysisService(db, nil, nil, 7, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "analysis_reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Latest(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
