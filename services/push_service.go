package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"healthtrack/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PushService sends mobile push notifications through SNS platform endpoints.
type PushService struct {
	db             *gorm.DB
	sns            *awssns.Client
	fcmPlatformArn string
	log            *zap.Logger
}

func NewPushService(ctx context.Context, db *gorm.DB, region, fcmArn string, log *zap.Logger) (*PushService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &PushService{
		db:             db,
		sns:            awssns.NewFromConfig(cfg),
		fcmPlatformArn: fcmArn,
		log:            log,
	}, nil
}

type RegisterDeviceReq struct {
	Platform string `json:"platform" binding:"required,oneof=android ios"`
	Token    string `json:"token" binding:"required"`
}

func tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (p *PushService) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android", "ios":
		if p.fcmPlatformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return p.fcmPlatformArn, nil
	default:
		return "", errors.New("unknown platform")
	}
}

func (p *PushService) RegisterDevice(ctx context.Context, userID uint, platform, token string) (*models.UserDevice, error) {
	appArn, err := p.platformArn(platform)
	if err != nil {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(ctx, &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, err
	}

	hash := tokenHash(token)
	var dev models.UserDevice
	err = p.db.WithContext(ctx).Where("user_id = ? AND token_hash = ?", userID, hash).First(&dev).Error
	switch {
	case err == nil:
		dev.EndpointARN = aws.ToString(out.EndpointArn)
		dev.Platform = strings.ToLower(platform)
		dev.Enabled = true
		return &dev, p.db.WithContext(ctx).Save(&dev).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		dev = models.UserDevice{
			UserID:      userID,
			Platform:    strings.ToLower(platform),
			TokenHash:   hash,
			EndpointARN: aws.ToString(out.EndpointArn),
			Enabled:     true,
		}
		return &dev, p.db.WithContext(ctx).Create(&dev).Error
	default:
		return nil, err
	}
}

// PushToUser is best effort: failures are logged, never returned.
func (p *PushService) PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string) {
	var endpoints []models.UserDevice
	if err := p.db.WithContext(ctx).Where("user_id = ? AND enabled = ?", userID, true).Find(&endpoints).Error; err != nil {
		p.log.Warn("load push endpoints", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	if len(endpoints) == 0 {
		return
	}

	gcm, _ := json.Marshal(map[string]any{
		"notification": map[string]string{"title": title, "body": body},
		"data":         data,
	})
	raw, _ := json.Marshal(map[string]string{"default": body, "GCM": string(gcm)})

	now := time.Now()
	for _, d := range endpoints {
		_, err := p.sns.Publish(ctx, &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(string(raw)),
			TargetArn:        aws.String(d.EndpointARN),
		})
		if err != nil {
			p.log.Warn("sns publish", zap.Uint("device_id", d.ID), zap.Error(err))
			continue
		}
		_ = p.db.WithContext(ctx).Model(&models.UserDevice{}).Where("id = ?", d.ID).Update("last_notified_at", now).Error
	}
}
