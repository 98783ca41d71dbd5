package services

import (
	"context"

	"healthtrack/models"

	"gorm.io/gorm"
)

// DeviceService manages a user's push endpoints. Registration needs SNS and
// fails with ErrUnavailable when push is nil.
type DeviceService struct {
	db   *gorm.DB
	push *PushService
}

func NewDeviceService(db *gorm.DB, push *PushService) *DeviceService {
	return &DeviceService{db: db, push: push}
}

func (s *DeviceService) Register(ctx context.Context, userID uint, req RegisterDeviceReq) (*models.UserDevice, error) {
	if s.push == nil {
		return nil, ErrUnavailable
	}
	return s.push.RegisterDevice(ctx, userID, req.Platform, req.Token)
}

func (s *DeviceService) List(ctx context.Context, userID uint) ([]models.UserDevice, error) {
	var out []models.UserDevice
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&out).Error
	return out, err
}

// SetNotifications flips every device of the user and returns how many changed.
func (s *DeviceService) SetNotifications(ctx context.Context, userID uint, enabled bool) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.UserDevice{}).
		Where("user_id = ?", userID).
		Update("enabled", enabled)
	return res.RowsAffected, res.Error
}
