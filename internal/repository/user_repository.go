package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/blue-farid/DrugBox/internal/errors"
	"github.com/blue-farid/DrugBox/internal/model"
)

// UserRepository defines persistence operations for enrolled users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByRFID(ctx context.Context, rfidCode string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateName(ctx context.Context, id uint, name string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			// Keep the driver detail; the audit trail records it verbatim.
			return fmt.Errorf("%w: %v", apperrors.ErrDuplicateCredentials, err)
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByRFID(ctx context.Context, rfidCode string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("rfid_code = ?", rfidCode).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateName(ctx context.Context, id uint, name string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("name", name).Error
}
