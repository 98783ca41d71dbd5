package services

import (
	"context"
	"fmt"
	"time"

	"healthtrack/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	AlertInfo        = "info"
	AlertWarning     = "warning"
	AlertAchievement = "achievement"
)

type Broadcaster interface {
	BroadcastAlert(userID uint, payload any)
}

type Pusher interface {
	PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string)
}

// AlertService stores alerts and fans them out over websocket and push.
// rt and push may be nil.
type AlertService struct {
	db   *gorm.DB
	rt   Broadcaster
	push Pusher
	log  *zap.Logger
}

func NewAlertService(db *gorm.DB, rt Broadcaster, push Pusher, log *zap.Logger) *AlertService {
	return &AlertService{db: db, rt: rt, push: push, log: log}
}

// Emit never fails the caller; delivery problems are logged.
func (s *AlertService) Emit(ctx context.Context, userID uint, typ, source, message string) *models.Alert {
	a := &models.Alert{UserID: userID, Type: typ, Source: source, Message: message, CreatedAt: time.Now()}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		s.log.Warn("store alert", zap.Uint("user_id", userID), zap.Error(err))
	}

	if s.rt != nil {
		s.rt.BroadcastAlert(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
	if s.push != nil {
		s.push.PushToUser(ctx, userID, pushTitle(typ), message, map[string]string{
			"type": typ, "source": source, "alertId": fmt.Sprintf("%d", a.ID),
		})
	}
	return a
}

func (s *AlertService) List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Alert, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []models.Alert
	err := q.Order("created_at desc").Limit(100).Find(&out).Error
	return out, err
}

func (s *AlertService) MarkRead(ctx context.Context, userID, alertID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Alert{}).
		Where("id = ? AND user_id = ?", alertID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func pushTitle(typ string) string {
	switch typ {
	case AlertAchievement:
		return "Goal reached"
	case AlertWarning:
		return "Health alert"
	default:
		return "New alert"
	}
}
