package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/blue-farid/DrugBox/internal/errors"
	"github.com/blue-farid/DrugBox/internal/model"
)

// ScheduleRepository defines persistence operations for dosage schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.DosageSchedule) error
	FindByID(ctx context.Context, id uint) (*model.DosageSchedule, error)
	FindByUserAndDate(ctx context.Context, userID uint, date time.Time) (*model.DosageSchedule, error)
	// MarkConsumed flips the consumed flag for the user's schedule on date
	// and reports how many rows changed. Zero means another request already
	// consumed it; the update and the check are a single statement so two
	// concurrent dispenses can never both win.
	MarkConsumed(ctx context.Context, userID uint, date time.Time) (int64, error)
	ResetConsumed(ctx context.Context, id uint) error
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository builds a GORM-backed repository.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *model.DosageSchedule) error {
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrScheduleExists, err)
		}
		return err
	}
	return nil
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uint) (*model.DosageSchedule, error) {
	var schedule model.DosageSchedule
	if err := r.db.WithContext(ctx).First(&schedule, id).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) FindByUserAndDate(ctx context.Context, userID uint, date time.Time) (*model.DosageSchedule, error) {
	var schedule model.DosageSchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.Format(model.DateLayout)).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) MarkConsumed(ctx context.Context, userID uint, date time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.DosageSchedule{}).
		Where("user_id = ? AND date = ? AND consumed = ?", userID, date.Format(model.DateLayout), false).
		Update("consumed", true)
	return res.RowsAffected, res.Error
}

func (r *scheduleRepository) ResetConsumed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.DosageSchedule{}).
		Where("id = ?", id).
		Update("consumed", false).Error
}
