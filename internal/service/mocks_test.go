package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/queue"
	"github.com/blue-farid/DrugBox/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByRFID(ctx context.Context, rfidCode string) (*model.User, error) {
	args := m.Called(ctx, rfidCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateName(ctx context.Context, id uint, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

// MockScheduleRepository is a mock implementation of repository.ScheduleRepository.
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Create(ctx context.Context, schedule *model.DosageSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) FindByID(ctx context.Context, id uint) (*model.DosageSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DosageSchedule), args.Error(1)
}

func (m *MockScheduleRepository) FindByUserAndDate(ctx context.Context, userID uint, date time.Time) (*model.DosageSchedule, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DosageSchedule), args.Error(1)
}

func (m *MockScheduleRepository) MarkConsumed(ctx context.Context, userID uint, date time.Time) (int64, error) {
	args := m.Called(ctx, userID, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScheduleRepository) ResetConsumed(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventLogRepository is a mock implementation of repository.EventLogRepository.
type MockEventLogRepository struct {
	mock.Mock
}

func (m *MockEventLogRepository) Create(ctx context.Context, entry *model.EventLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEventLogRepository) List(ctx context.Context, filter repository.EventLogFilter) ([]model.EventLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventLog), args.Error(1)
}

// MockPublisher is a mock implementation of queue.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishDispenseRecorded(ctx context.Context, event queue.DispenseRecordedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// expectAuditEntry registers a one-time expectation for an audit write with
// the given shape. hasUser asserts whether the entry is tied to a user row.
func expectAuditEntry(m *MockEventLogRepository, eventType model.EventType, status model.EventStatus, message string, hasUser bool) {
	m.On("Create", mock.Anything, mock.MatchedBy(func(e *model.EventLog) bool {
		return e.EventType == eventType &&
			e.Status == status &&
			e.Message == message &&
			(e.UserID != nil) == hasUser
	})).Return(nil).Once()
}
