package routes

import (
	"net/http"

	"healthtrack/controllers"
	"healthtrack/middlewares"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers is everything the router mounts. Dev may be nil.
type Handlers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Device    *controllers.DeviceController
	Alert     *controllers.AlertController
	Symptom   *controllers.SymptomController
	Metric    *controllers.MetricController
	Journal   *controllers.JournalController
	Goal      *controllers.GoalController
	Analysis  *controllers.AnalysisController
	Analytics *controllers.AnalyticsController
	Realtime  *controllers.RealtimeController
	Dev       *controllers.DevController
}

func SetupRouter(h Handlers, auth gin.HandlerFunc, log *zap.Logger) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(middlewares.RequestLogger(log), middlewares.Recovery(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public auth routes
	a := r.Group("/auth")
	{
		a.POST("/register", h.Auth.Register)
		a.POST("/login", h.Auth.Login)
		a.POST("/verify-mfa", h.Auth.VerifyMFA)
		a.POST("/forgot-password", h.Auth.ForgotPassword)
		a.POST("/reset-password", h.Auth.ResetPassword)
	}

	api := r.Group("/")
	api.Use(auth)

	user := api.Group("/user")
	{
		user.GET("/profile", h.User.GetProfile)
		user.PUT("/profile", h.User.UpdateProfile)
		user.DELETE("/profile", h.User.DeleteAccount)
		user.GET("/devices", h.Device.List)
		user.POST("/devices", h.Device.Register)
		user.POST("/notifications/toggle", h.Device.ToggleNotifications)
	}

	alerts := api.Group("/alerts")
	{
		alerts.GET("", h.Alert.List)
		alerts.PATCH("/:id/read", h.Alert.MarkRead)
	}

	symptoms := api.Group("/symptoms")
	{
		symptoms.POST("", h.Symptom.Create)
		symptoms.GET("", h.Symptom.List)
		symptoms.GET("/:id", h.Symptom.Get)
		symptoms.PUT("/:id", h.Symptom.Update)
		symptoms.DELETE("/:id", h.Symptom.Delete)
	}

	metrics := api.Group("/metrics")
	{
		metrics.POST("", h.Metric.Create)
		metrics.POST("/batch", h.Metric.CreateBatch)
		metrics.GET("", h.Metric.List)
		metrics.GET("/:id", h.Metric.Get)
		metrics.PUT("/:id", h.Metric.Update)
		metrics.DELETE("/:id", h.Metric.Delete)
	}

	journal := api.Group("/journal")
	{
		journal.POST("", h.Journal.Create)
		journal.GET("", h.Journal.List)
		journal.GET("/:id", h.Journal.Get)
		journal.PUT("/:id", h.Journal.Update)
		journal.DELETE("/:id", h.Journal.Delete)
	}

	goals := api.Group("/goals")
	{
		goals.POST("", h.Goal.Create)
		goals.GET("", h.Goal.List)
		goals.GET("/:id", h.Goal.Get)
		goals.PUT("/:id", h.Goal.Update)
		goals.DELETE("/:id", h.Goal.Delete)
		goals.POST("/:id/abandon", h.Goal.Abandon)
		goals.POST("/:id/recompute", h.Goal.Recompute)
		goals.POST("/:id/checkins", h.Goal.AddCheckIn)
		goals.GET("/:id/checkins", h.Goal.ListCheckIns)
	}

	ai := api.Group("/ai")
	{
		ai.POST("/analysis", h.Analysis.Analyze)
		ai.GET("/analysis", h.Analysis.Latest)
		ai.POST("/score", h.Analysis.Score)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/summary", h.Analytics.GetAnalyticsSummary)
		analytics.GET("/weekly", h.Analytics.GetWeeklyOverview)
	}

	api.GET("/ws/alerts", h.Realtime.AlertsWS)

	if h.Dev != nil {
		dev := api.Group("/dev")
		dev.POST("/alert", h.Dev.TestAlert)
		dev.POST("/upload", h.Dev.UploadImage)
	}

	return r
}
