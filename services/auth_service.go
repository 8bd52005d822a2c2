package services

import (
	"context"
	"errors"

	"github.com/tringuyenminh209/Kizamu/config"
	"github.com/tringuyenminh209/Kizamu/models"
	"github.com/tringuyenminh209/Kizamu/utils"
	"gorm.io/gorm"
)

// AuthService owns registration, login and token lifecycle.
type AuthService struct {
	db         *gorm.DB
	limiter    *AttemptLimiter
	mailer     Mailer
	production bool
}

func NewAuthService(db *gorm.DB, limiter *AttemptLimiter, mailer Mailer, production bool) *AuthService {
	if mailer == nil {
		mailer = NoopMailer{}
	}
	return &AuthService{db: db, limiter: limiter, mailer: mailer, production: production}
}

// AuthResult pairs a user with a freshly issued token.
type AuthResult struct {
	User  *models.User
	Token string
}

// Register creates an account and issues its first token.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest, ip string) (*AuthResult, error) {
	errs := req.Validate()
	if errs == nil {
		errs = models.ValidationErrors{}
	}

	// Uniqueness check joins the same error map as the field rules.
	if _, ok := errs["email"]; !ok && req.Email != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("email = ?", req.Email).Count(&count).Error; err != nil {
			config.Logger.Errorw("registration email lookup failed",
				"error", err,
				"email", req.Email,
				"ip", ip,
			)
			return nil, ErrServer
		}
		if count > 0 {
			errs["email"] = append(errs["email"], "this email is already registered")
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		config.Logger.Errorw("password hashing failed", "error", err, "ip", ip)
		return nil, ErrServer
	}

	user := models.User{
		Name:            req.Name,
		Email:           req.Email,
		Password:        hash,
		EmailVerifiedAt: nil, // unverified at registration
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		config.Logger.Errorw("registration failed",
			"email", req.Email,
			"error", err,
			"ip", ip,
		)
		return nil, ErrServer
	}

	if s.production {
		if err := s.mailer.SendVerificationEmail(&user); err != nil {
			// Delivery problems never fail the registration.
			config.Logger.Warnw("verification email dispatch failed",
				"userID", user.ID,
				"error", err,
			)
		}
	}

	token, err := s.IssueToken(ctx, &user)
	if err != nil {
		config.Logger.Errorw("token issuance failed", "userID", user.ID, "error", err, "ip", ip)
		return nil, ErrServer
	}

	config.Logger.Infow("user registered",
		"userID", user.ID,
		"email", user.Email,
		"ip", ip,
	)

	return &AuthResult{User: &user, Token: token}, nil
}

// Login verifies credentials behind the per-address attempt counter.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, ip string) (*AuthResult, error) {
	if errs := req.Validate(); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	// Lockout check runs before credentials and does not consume an attempt.
	locked, attempts, err := s.limiter.TooManyAttempts(ctx, ip)
	if err != nil {
		config.Logger.Errorw("attempt counter read failed", "error", err, "ip", ip)
		return nil, ErrServer
	}
	if locked {
		config.Logger.Warnw("login blocked after too many attempts",
			"email", req.Email,
			"ip", ip,
			"attempts", attempts,
		)
		return nil, ErrTooManyAttempts
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		config.Logger.Errorw("login user lookup failed", "error", err, "ip", ip)
		return nil, ErrServer
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || !utils.CheckPassword(user.Password, req.Password) {
		newCount, recErr := s.limiter.RecordFailure(ctx, ip)
		if recErr != nil {
			config.Logger.Errorw("attempt counter write failed", "error", recErr, "ip", ip)
		}
		config.Logger.Warnw("login failed",
			"email", req.Email,
			"ip", ip,
			"attempts", newCount,
		)
		return nil, ErrInvalidCredentials
	}

	if err := s.limiter.Clear(ctx, ip); err != nil {
		config.Logger.Errorw("attempt counter clear failed", "error", err, "ip", ip)
	}

	token, err := s.IssueToken(ctx, &user)
	if err != nil {
		config.Logger.Errorw("token issuance failed", "userID", user.ID, "error", err, "ip", ip)
		return nil, ErrServer
	}

	config.Logger.Infow("user logged in",
		"userID", user.ID,
		"email", user.Email,
		"ip", ip,
	)

	return &AuthResult{User: &user, Token: token}, nil
}

// IssueToken mints a fresh opaque token bound to the user.
func (s *AuthService) IssueToken(ctx context.Context, user *models.User) (string, error) {
	plain, hash, err := utils.MintToken()
	if err != nil {
		return "", err
	}
	record := models.PersonalAccessToken{
		UserID: user.ID,
		Name:   "auth_token",
		Token:  hash,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", err
	}
	return utils.FormatToken(record.ID, plain), nil
}

// Logout revokes the presented token only; other sessions stay valid.
func (s *AuthService) Logout(ctx context.Context, userID, tokenID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", tokenID, userID).
		Delete(&models.PersonalAccessToken{})
	if result.Error != nil {
		config.Logger.Errorw("logout failed", "userID", userID, "tokenID", tokenID, "error", result.Error)
		return ErrServer
	}
	config.Logger.Infow("user logged out", "userID", userID, "tokenID", tokenID)
	return nil
}

// RefreshToken revokes the presented token and issues a replacement.
func (s *AuthService) RefreshToken(ctx context.Context, user *models.User, tokenID uint) (string, error) {
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", tokenID, user.ID).
		Delete(&models.PersonalAccessToken{}).Error; err != nil {
		config.Logger.Errorw("token refresh failed", "userID", user.ID, "error", err)
		return "", ErrServer
	}
	token, err := s.IssueToken(ctx, user)
	if err != nil {
		config.Logger.Errorw("token issuance failed", "userID", user.ID, "error", err)
		return "", ErrServer
	}
	return token, nil
}

// GetUser loads an account by id.
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrServer
	}
	return &user, nil
}

// UpdateFCMToken stores the device token for push delivery. The push itself is
// handled elsewhere.
func (s *AuthService) UpdateFCMToken(ctx context.Context, userID uint, req *models.FCMTokenRequest) error {
	if errs := req.Validate(); errs != nil {
		return &ValidationError{Fields: errs}
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("fcm_token", req.FCMToken).Error; err != nil {
		config.Logger.Errorw("fcm token update failed", "userID", userID, "error", err)
		return ErrServer
	}
	return nil
}
