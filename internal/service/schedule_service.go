package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/blue-farid/DrugBox/internal/errors"
	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/repository"
)

// ScheduleService exposes administrative schedule operations.
type ScheduleService interface {
	CreateSchedule(ctx context.Context, userID uint, date time.Time, dosage decimal.Decimal) (*model.DosageSchedule, error)
	ResetSchedule(ctx context.Context, id uint) (*model.DosageSchedule, error)
}

type scheduleService struct {
	schedules repository.ScheduleRepository
	users     repository.UserRepository
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(schedules repository.ScheduleRepository, users repository.UserRepository) ScheduleService {
	return &scheduleService{schedules: schedules, users: users}
}

func (s *scheduleService) CreateSchedule(ctx context.Context, userID uint, date time.Time, dosage decimal.Decimal) (*model.DosageSchedule, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	schedule := &model.DosageSchedule{
		UserID: userID,
		Date:   date,
		Dosage: dosage,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// ResetSchedule clears the consumed flag so the dose can be dispensed
// again, for cases like a jammed tray where nothing reached the patient.
func (s *scheduleService) ResetSchedule(ctx context.Context, id uint) (*model.DosageSchedule, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, err
	}

	if err := s.schedules.ResetConsumed(ctx, id); err != nil {
		return nil, err
	}
	schedule.Consumed = false

	return schedule, nil
}
