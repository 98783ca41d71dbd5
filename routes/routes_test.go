package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"healthtrack/controllers"
	"healthtrack/middlewares"
	"healthtrack/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testRouter(dev bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	alerts := services.NewAlertService(nil, nil, nil, log)
	h := Handlers{
		Auth:      controllers.NewAuthController(services.NewAuthService(nil, nil, "s", 0, log)),
		User:      controllers.NewUserController(services.NewUserService(nil, nil, log)),
		Device:    controllers.NewDeviceController(services.NewDeviceService(nil, nil)),
		Alert:     controllers.NewAlertController(alerts),
		Symptom:   controllers.NewSymptomController(services.NewSymptomService(nil)),
		Metric:    controllers.NewMetricController(services.NewMetricService(nil)),
		Journal:   controllers.NewJournalController(services.NewJournalService(nil, nil, nil, log)),
		Goal:      controllers.NewGoalController(services.NewGoalService(nil, alerts, log)),
		Analysis:  controllers.NewAnalysisController(services.NewAnalysisService(nil, nil, alerts, 7, log)),
		Analytics: controllers.NewAnalyticsController(services.NewAnalyticsService(nil)),
		Realtime:  controllers.NewRealtimeController(services.NewRealtimeHub(log)),
	}
	if dev {
		h.Dev = controllers.NewDevController(alerts, nil)
	}
	return SetupRouter(h, middlewares.AuthMiddleware("s", nil), log)
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middlewares.RequestIDHeader))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := testRouter(false)
	for _, path := range []string{
		"/user/profile", "/symptoms", "/metrics", "/journal", "/goals",
		"/goals/1/checkins", "/ai/analysis", "/analytics/summary", "/alerts", "/ws/alerts",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestDevRoutesMountedOnlyWhenEnabled(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(false).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/dev/alert", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	testRouter(true).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/dev/alert", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
