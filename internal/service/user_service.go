package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"biblioteca/internal/cache"
	apperrors "biblioteca/internal/errors"
	"biblioteca/internal/hash"
	"biblioteca/internal/logger"
	"biblioteca/internal/model"
	"biblioteca/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// Bootstrap admin identity created on first run.
const (
	adminUsername   = "admin"
	adminEmail      = "admin@admin.com"
	adminNationalID = "-"
)

// UserService exposes the admin-facing user operations and the one-time
// admin bootstrap.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id uint) error
	EnsureAdmin(ctx context.Context, password string) error
}

type userService struct {
	repo   repository.UserRepository
	hasher hash.Hasher
	cache  *cache.Client
}

// NewUserService builds a UserService with repository, hasher and cache.
func NewUserService(repo repository.UserRepository, hasher hash.Hasher, cache *cache.Client) UserService {
	return &userService{repo: repo, hasher: hasher, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// DeleteUser removes a user unless the target is an administrator. Admin
// accounts cannot be deleted through this path, whoever the actor is.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if user.IsAdmin() {
		return apperrors.ErrAdminProtected
	}

	if err := s.repo.Delete(ctx, user); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	logger.Info("user deleted", zap.Uint("user_id", id))
	return nil
}

// EnsureAdmin creates the seed administrator if no user named "admin"
// exists. It is idempotent and safe to run on every startup.
func (s *userService) EnsureAdmin(ctx context.Context, password string) error {
	exists, err := s.repo.ExistsByUsername(ctx, adminUsername)
	if err != nil {
		return fmt.Errorf("check admin existence: %w", err)
	}
	if exists {
		return nil
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	nationalID := adminNationalID
	admin := &model.User{
		Username:     adminUsername,
		Email:        adminEmail,
		NationalID:   &nationalID,
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
		RegisteredAt: time.Now(),
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		// A concurrent bootstrap may have won the race; the unique index on
		// email makes that safe to ignore.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("create admin user: %w", err)
	}

	logger.Info("seed admin created", zap.Uint("user_id", admin.ID))
	return nil
}
