package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "biblioteca/internal/errors"
	"biblioteca/internal/hash"
	"biblioteca/internal/logger"
	"biblioteca/internal/mailer"
	"biblioteca/internal/model"
	"biblioteca/internal/repository"
)

// PasswordResetService drives the reset-token lifecycle: issuance by email,
// lookup for the recovery form, and consumption against a new password.
type PasswordResetService interface {
	IssueReset(ctx context.Context, email string) error
	ConsumeReset(ctx context.Context, token, newPassword string) error
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
}

// PasswordResetConfig tunes the token lifecycle.
type PasswordResetConfig struct {
	TokenTTL time.Duration
	// ClearExpiredTokens clears a stored token when consumption finds it past
	// expiry. When false an expired token stays lookup-able until the next
	// issuance overwrites it.
	ClearExpiredTokens bool
}

type passwordResetService struct {
	repo   repository.UserRepository
	hasher hash.Hasher
	sender mailer.Sender
	cfg    PasswordResetConfig
}

// NewPasswordResetService builds the reset-token service.
func NewPasswordResetService(repo repository.UserRepository, hasher hash.Hasher, sender mailer.Sender, cfg PasswordResetConfig) PasswordResetService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 10 * time.Minute
	}
	return &passwordResetService{repo: repo, hasher: hasher, sender: sender, cfg: cfg}
}

// IssueReset mints a single-use token for the user behind the email and mails
// it out. Issuing again overwrites any prior unconsumed token, so at most one
// token per user is live at a time. Send failures are returned, never
// swallowed.
func (s *passwordResetService) IssueReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user by email: %w", err)
	}

	token, err := hash.NewResetToken(s.hasher)
	if err != nil {
		return err
	}
	expiry := time.Now().Add(s.cfg.TokenTTL)

	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.sender.SendPasswordReset(ctx, user.Email, user.DisplayName(), token); err != nil {
		logger.Error("reset email delivery failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("send reset email: %w", err)
	}

	logger.Info("reset token issued", zap.Uint("user_id", user.ID), zap.Time("expires_at", expiry))
	return nil
}

// ConsumeReset validates the token and replaces the password. Existence is
// checked strictly before expiry, and expiry strictly before any mutation.
func (s *passwordResetService) ConsumeReset(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrResetTokenInvalid
		}
		return fmt.Errorf("find user by reset token: %w", err)
	}

	if user.ResetTokenExpiry == nil || !time.Now().Before(*user.ResetTokenExpiry) {
		if s.cfg.ClearExpiredTokens {
			user.ResetToken = nil
			user.ResetTokenExpiry = nil
			if err := s.repo.Update(ctx, user); err != nil {
				logger.Warn("clearing expired reset token failed", zap.Uint("user_id", user.ID), zap.Error(err))
			}
		}
		return apperrors.ErrResetTokenExpired
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	logger.Info("password reset completed", zap.Uint("user_id", user.ID))
	return nil
}

// FindByResetToken resolves a token to its user for the recovery form.
func (s *passwordResetService) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	user, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrResetTokenInvalid
		}
		return nil, fmt.Errorf("find user by reset token: %w", err)
	}
	return user, nil
}
