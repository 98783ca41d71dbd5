package config

import (
	"fmt"

	"healthtrack/models"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	Address   string `env:"ADDRESS" envDefault:":8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Optional rotating log file.
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"14"`

	JWTSecret   string `env:"JWT_SECRET,required"`
	JWTTTLHours int    `env:"JWT_TTL_HOURS" envDefault:"72"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"healthtrack"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	AWSRegion     string `env:"AWS_REGION" envDefault:"ap-south-1"`
	S3Region      string `env:"S3_REGION"`
	S3Bucket      string `env:"S3_BUCKET"`
	CloudFrontURL string `env:"CLOUDFRONT_URL"`
	SESEmail      string `env:"SES_EMAIL"`
	SNSFCMArn     string `env:"SNS_FCM_ARN"`

	// Disables every AWS-backed feature (uploads, mail, push, image labels).
	AWSDisabled bool `env:"AWS_DISABLED" envDefault:"false"`

	// Empty RedisAddr keeps realtime alerts on this instance only.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisChannel  string `env:"REDIS_ALERT_CHANNEL" envDefault:"healthtrack:alerts"`

	AnalysisWindowDays int `env:"ANALYSIS_WINDOW_DAYS" envDefault:"7"`

	// Mounts /dev test endpoints.
	DevRoutes bool `env:"DEV_ROUTES" envDefault:"false"`
}

// Load reads .env when present and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Info("no .env file loaded", zap.Error(err))
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.S3Region == "" {
		cfg.S3Region = cfg.AWSRegion
	}
	if cfg.AnalysisWindowDays <= 0 {
		cfg.AnalysisWindowDays = 7
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// InitDB connects to postgres and migrates every model.
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Symptom{},
		&models.HealthMetric{},
		&models.JournalEntry{},
		&models.Goal{},
		&models.GoalCheckIn{},
		&models.AnalysisReport{},
		&models.Alert{},
		&models.UserDevice{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}
