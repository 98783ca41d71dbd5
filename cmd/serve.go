package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthtrack/config"
	"healthtrack/controllers"
	"healthtrack/middlewares"
	"healthtrack/routes"
	"healthtrack/services"
	"healthtrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg, db, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		uploader services.ImageUploader
		mailer   services.Mailer
		labeler  services.ImageLabeler
		push     *services.PushService
	)
	if cfg.AWSDisabled {
		log.Warn("AWS disabled: uploads, mail, push and image labels are off")
	} else {
		s3u, err := utils.NewS3Uploader(ctx, cfg.S3Region, cfg.S3Bucket, cfg.CloudFrontURL)
		if err != nil {
			return err
		}
		uploader = s3u

		ses, err := utils.NewSESMailer(ctx, cfg.AWSRegion, cfg.SESEmail)
		if err != nil {
			return err
		}
		mailer = ses

		rek, err := services.NewRekognitionService(ctx, cfg.AWSRegion)
		if err != nil {
			return err
		}
		labeler = rek

		push, err = services.NewPushService(ctx, db, cfg.AWSRegion, cfg.SNSFCMArn, log)
		if err != nil {
			return err
		}
	}

	hub := services.NewRealtimeHub(log)
	var broadcaster services.Broadcaster = hub
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		relay := services.NewAlertRelay(rdb, cfg.RedisChannel, hub, log)
		if err := relay.Start(ctx); err != nil {
			return err
		}
		broadcaster = relay
	}
	var pusher services.Pusher
	if push != nil {
		pusher = push
	}
	alerts := services.NewAlertService(db, broadcaster, pusher, log)
	scorer := utils.NewHealthSignalScorer(utils.DefaultReferenceRanges())
	ttl := time.Duration(cfg.JWTTTLHours) * time.Hour

	h := routes.Handlers{
		Auth:      controllers.NewAuthController(services.NewAuthService(db, mailer, cfg.JWTSecret, ttl, log)),
		User:      controllers.NewUserController(services.NewUserService(db, uploader, log)),
		Device:    controllers.NewDeviceController(services.NewDeviceService(db, push)),
		Alert:     controllers.NewAlertController(alerts),
		Symptom:   controllers.NewSymptomController(services.NewSymptomService(db)),
		Metric:    controllers.NewMetricController(services.NewMetricService(db)),
		Journal:   controllers.NewJournalController(services.NewJournalService(db, uploader, labeler, log)),
		Goal:      controllers.NewGoalController(services.NewGoalService(db, alerts, log)),
		Analysis:  controllers.NewAnalysisController(services.NewAnalysisService(db, scorer, alerts, cfg.AnalysisWindowDays, log)),
		Analytics: controllers.NewAnalyticsController(services.NewAnalyticsService(db)),
		Realtime:  controllers.NewRealtimeController(hub),
	}
	if cfg.DevRoutes {
		h.Dev = controllers.NewDevController(alerts, uploader)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(h, middlewares.AuthMiddleware(cfg.JWTSecret, db), log)

	srv := &http.Server{Addr: cfg.Address, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
