package services

import (
	"context"
	"fmt"
	"time"

	"healthtrack/models"
	"healthtrack/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ImageUploader interface {
	UploadDataURI(ctx context.Context, dataURI, prefix string) (string, error)
}

type UserService struct {
	db       *gorm.DB
	uploader ImageUploader // nil disables picture uploads
	log      *zap.Logger
}

func NewUserService(db *gorm.DB, uploader ImageUploader, log *zap.Logger) *UserService {
	return &UserService{db: db, uploader: uploader, log: log}
}

type ProfileInput struct {
	FullName       string  `json:"full_name"`
	Birthday       string  `json:"birthday"` // YYYY-MM-DD
	Sex            string  `json:"sex" binding:"omitempty,oneof=female male other"`
	Height         float64 `json:"height" binding:"gte=0"`
	Weight         float64 `json:"weight" binding:"gte=0"`
	ProfilePicture string  `json:"profile_picture"` // base64 data URI
	MFAEnabled     *bool   `json:"mfa_enabled"`
}

type Profile struct {
	ID             uint    `json:"id"`
	Email          string  `json:"email"`
	FullName       string  `json:"full_name"`
	Birthday       string  `json:"birthday,omitempty"`
	Age            int     `json:"age,omitempty"`
	Sex            string  `json:"sex,omitempty"`
	Height         float64 `json:"height,omitempty"`
	Weight         float64 `json:"weight,omitempty"`
	BMI            float64 `json:"bmi,omitempty"`
	BMICategory    string  `json:"bmi_category,omitempty"`
	ProfilePicture string  `json:"profile_picture,omitempty"`
	MFAEnabled     bool    `json:"mfa_enabled"`
}

func BuildProfile(u *models.User, now time.Time) Profile {
	p := Profile{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Sex:            u.Sex,
		Height:         u.Height,
		Weight:         u.Weight,
		ProfilePicture: u.ProfilePicture,
		MFAEnabled:     u.MFAEnabled,
	}
	if !u.Birthday.IsZero() {
		p.Birthday = u.Birthday.Format("2006-01-02")
		p.Age = utils.CalculateAge(u.Birthday, now)
	}
	if bmi, err := utils.CalculateBMI(u.Height, u.Weight); err == nil {
		p.BMI = bmi
		p.BMICategory = utils.BMICategory(bmi)
	}
	return p
}

func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND disabled = ?", userID, false).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := BuildProfile(user, time.Now())
	return &p, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*Profile, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.Birthday != "" {
		b, err := time.Parse("2006-01-02", in.Birthday)
		if err != nil {
			return nil, fmt.Errorf("%w: birthday must be YYYY-MM-DD", ErrInvalidInput)
		}
		user.Birthday = b
	}
	if in.Sex != "" {
		user.Sex = in.Sex
	}
	if in.Height > 0 {
		user.Height = in.Height
	}
	if in.Weight > 0 {
		user.Weight = in.Weight
	}
	if in.MFAEnabled != nil {
		user.MFAEnabled = *in.MFAEnabled
	}
	if in.ProfilePicture != "" {
		if s.uploader == nil {
			return nil, ErrUnavailable
		}
		url, err := s.uploader.UploadDataURI(ctx, in.ProfilePicture, fmt.Sprintf("profile-pictures/%d", user.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		user.ProfilePicture = url
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	p := BuildProfile(user, time.Now())
	return &p, nil
}

// Delete disables the account; rows stay for audit.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("disabled", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.log.Info("user disabled", zap.Uint("user_id", userID))
	return nil
}
