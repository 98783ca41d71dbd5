package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"healthtrack/models"
	"healthtrack/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type AuthService struct {
	db     *gorm.DB
	mailer Mailer // nil disables MFA and password reset mails
	secret string
	ttl    time.Duration
	log    *zap.Logger
}

func NewAuthService(db *gorm.DB, mailer Mailer, secret string, ttl time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{db: db, mailer: mailer, secret: secret, ttl: ttl, log: log}
}

// LoginResult carries either a token or the fact that an MFA code was mailed.
type LoginResult struct {
	Token       string `json:"token,omitempty"`
	MFARequired bool   `json:"mfa_required,omitempty"`
}

func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	email = normalizeEmail(email)
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: email, Password: hashed, FullName: strings.TrimSpace(fullName)}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.activeUser(ctx, email)
	if err != nil || !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrUnauthorized
	}

	if user.MFAEnabled && s.mailer != nil {
		code, err := utils.GenerateNumericCode(6)
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(user).Update("mfa_code", code).Error; err != nil {
			return nil, err
		}
		subject, body := utils.MFAEmail(code)
		if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
			s.log.Error("send mfa code", zap.Uint("user_id", user.ID), zap.Error(err))
			return nil, err
		}
		return &LoginResult{MFARequired: true}, nil
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, s.secret, s.ttl)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token}, nil
}

func (s *AuthService) VerifyMFA(ctx context.Context, email, code string) (string, error) {
	user, err := s.activeUser(ctx, email)
	if err != nil || user.MFACode == "" || user.MFACode != code {
		return "", ErrUnauthorized
	}
	if err := s.db.WithContext(ctx).Model(user).Update("mfa_code", "").Error; err != nil {
		return "", err
	}
	return utils.GenerateJWT(user.ID, user.Email, s.secret, s.ttl)
}

// ForgotPassword mails a reset code. Unknown emails succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if s.mailer == nil {
		return ErrUnavailable
	}
	user, err := s.activeUser(ctx, email)
	if err != nil {
		return nil
	}

	code, err := utils.GenerateNumericCode(6)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"reset_token":     code,
		"reset_token_exp": time.Now().Add(15 * time.Minute),
	}).Error
	if err != nil {
		return err
	}
	subject, body := utils.ResetEmail(code)
	return s.mailer.Send(ctx, user.Email, subject, body)
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrUnauthorized
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where("reset_token = ?", token).First(&user).Error; err != nil {
		return ErrUnauthorized
	}
	if time.Now().After(user.ResetTokenExp) {
		return ErrUnauthorized
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"password":        hashed,
		"reset_token":     "",
		"reset_token_exp": time.Time{},
	}).Error
}

func (s *AuthService) activeUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND disabled = ?", normalizeEmail(email), false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
