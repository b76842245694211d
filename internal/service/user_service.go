package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/blue-farid/DrugBox/internal/cache"
	apperrors "github.com/blue-farid/DrugBox/internal/errors"
	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// userCacheKey is the redis key for a user's identity, keyed by badge
// because dispense requests arrive with an RFID code, not an ID.
func userCacheKey(rfidCode string) string {
	return fmt.Sprintf("user:rfid:%s", rfidCode)
}

// UserService exposes administrative user operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	RenameUser(ctx context.Context, id uint, name string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// RenameUser sets the display name that devices typically leave empty at
// enrollment time.
func (s *userService) RenameUser(ctx context.Context, id uint, name string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if err := s.repo.UpdateName(ctx, id, name); err != nil {
		return nil, err
	}
	user.Name = name

	// Drop the cached identity so dispense lookups see the new name.
	_ = s.cache.Delete(ctx, userCacheKey(user.RFIDCode))

	return user, nil
}
