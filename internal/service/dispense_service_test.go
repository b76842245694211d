package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "github.com/blue-farid/DrugBox/internal/errors"
	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/queue"
)

func TestDispenseService_Authorize(t *testing.T) {
	eventDate := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	enrolled := &model.User{ID: 7, Name: "Test User", RFIDCode: "RFID123456", FingerprintID: 12345}

	tests := []struct {
		name          string
		rfidCode      string
		fingerprintID int64
		timestamp     string
		setupMocks    func(*MockUserRepository, *MockScheduleRepository, *MockEventLogRepository)
		expectedError error
	}{
		{
			name:          "successful dispense",
			rfidCode:      "RFID123456",
			fingerprintID: 12345,
			timestamp:     "2025-03-14T10:30:00",
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				users.On("FindByRFID", mock.Anything, "RFID123456").Return(enrolled, nil)
				schedules.On("FindByUserAndDate", mock.Anything, uint(7), eventDate).
					Return(&model.DosageSchedule{ID: 3, UserID: 7, Date: eventDate, Dosage: decimal.NewFromFloat(2.5)}, nil)
				schedules.On("MarkConsumed", mock.Anything, uint(7), eventDate).Return(int64(1), nil)
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusSuccess, "Authentication successful, dosage sent", true)
			},
		},
		{
			name:          "zoned timestamp keeps the written date",
			rfidCode:      "RFID123456",
			fingerprintID: 12345,
			timestamp:     "2025-03-14T23:30:00-05:00",
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				users.On("FindByRFID", mock.Anything, "RFID123456").Return(enrolled, nil)
				schedules.On("FindByUserAndDate", mock.Anything, uint(7), eventDate).
					Return(&model.DosageSchedule{ID: 3, UserID: 7, Date: eventDate, Dosage: decimal.NewFromFloat(2.5)}, nil)
				schedules.On("MarkConsumed", mock.Anything, uint(7), eventDate).Return(int64(1), nil)
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusSuccess, "Authentication successful, dosage sent", true)
			},
		},
		{
			name:          "missing rfid code",
			fingerprintID: 12345,
			timestamp:     "2025-03-14T10:30:00",
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusFailed, "Missing required fields", false)
			},
			expectedError: apperrors.ErrMissingFields,
		},
		{
			name:      "missing fingerprint id",
			rfidCode:  "RFID123456",
			timestamp: "2025-03-14T10:30:00",
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusFailed, "Missing required fields", false)
			},
			expectedError: apperrors.ErrMissingFields,
		},
		{
			name:          "missing timestamp",
			rfidCode:      "RFID123456",
			fingerprintID: 12345,
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusFailed, "Missing required fields", false)
			},
			expectedError: apperrors.ErrMissingFields,
		},
		{
			name:          "invalid timestamp",
			rfidCode:      "RFID123456",
			fingerprintID: 12345,
			timestamp:     "14-03-2025 10:30",
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusFailed, "Invalid timestamp format", false)
			},
			expectedError: apperrors.ErrInvalidTimestamp,
		},
		{
			name:          "unknown rfid",
			rfidCode:      "RFID000000",
			fingerprintID: 12345,
			timestamp:     "2025-03-14T10:30:00",
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				users.On("FindByRFID", mock.Anything, "RFID000000").Return(nil, gorm.ErrRecordNotFound)
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusFailed, "RFID not found", false)
			},
			expectedError: apperrors.ErrRFIDNotFound,
		},
		{
			name:          "fingerprint mismatch",
			rfidCode:      "RFID123456",
			fingerprintID: 99999,
			timestamp:     "2025-03-14T10:30:00",
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				users.On("FindByRFID", mock.Anything, "RFID123456").Return(enrolled, nil)
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusFailed, "Fingerprint mismatch", true)
			},
			expectedError: apperrors.ErrFingerprintMismatch,
		},
		{
			name:          "no schedule for the date",
			rfidCode:      "RFID123456",
			fingerprintID: 12345,
			timestamp:     "2025-03-14T10:30:00",
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				users.On("FindByRFID", mock.Anything, "RFID123456").Return(enrolled, nil)
				schedules.On("FindByUserAndDate", mock.Anything, uint(7), eventDate).Return(nil, gorm.ErrRecordNotFound)
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusFailed, "No dosage for date", true)
			},
			expectedError: apperrors.ErrNoDosageForDate,
		},
		{
			name:          "dosage already consumed",
			rfidCode:      "RFID123456",
			fingerprintID: 12345,
			timestamp:     "2025-03-14T10:30:00",
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				users.On("FindByRFID", mock.Anything, "RFID123456").Return(enrolled, nil)
				schedules.On("FindByUserAndDate", mock.Anything, uint(7), eventDate).
					Return(&model.DosageSchedule{ID: 3, UserID: 7, Date: eventDate, Dosage: decimal.NewFromFloat(2.5), Consumed: true}, nil)
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusFailed, "Dosage already consumed for the specified date", true)
			},
			expectedError: apperrors.ErrDosageConsumed,
		},
		{
			name:          "concurrent request wins the consume",
			rfidCode:      "RFID123456",
			fingerprintID: 12345,
			timestamp:     "2025-03-14T10:30:00",
			setupMocks: func(users *MockUserRepository, schedules *MockScheduleRepository, logs *MockEventLogRepository) {
				users.On("FindByRFID", mock.Anything, "RFID123456").Return(enrolled, nil)
				schedules.On("FindByUserAndDate", mock.Anything, uint(7), eventDate).
					Return(&model.DosageSchedule{ID: 3, UserID: 7, Date: eventDate, Dosage: decimal.NewFromFloat(2.5)}, nil)
				schedules.On("MarkConsumed", mock.Anything, uint(7), eventDate).Return(int64(0), nil)
				expectAuditEntry(logs, model.EventTypeHandleRequest, model.EventStatusFailed, "Dosage already consumed for the specified date", true)
			},
			expectedError: apperrors.ErrDosageConsumed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockSchedules := new(MockScheduleRepository)
			mockLogs := new(MockEventLogRepository)
			tt.setupMocks(mockUsers, mockSchedules, mockLogs)

			svc := NewDispenseService(mockUsers, mockSchedules, NewAuditLogger(mockLogs), nil, nil)
			dosage, err := svc.Authorize(context.Background(), tt.rfidCode, tt.fingerprintID, tt.timestamp)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.True(t, dosage.IsZero())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "2.5", dosage.String())
			}

			mockUsers.AssertExpectations(t)
			mockSchedules.AssertExpectations(t)
			mockLogs.AssertExpectations(t)
		})
	}
}

func TestDispenseService_Authorize_AuditWriteFailure(t *testing.T) {
	eventDate := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	enrolled := &model.User{ID: 7, RFIDCode: "RFID123456", FingerprintID: 12345}

	mockUsers := new(MockUserRepository)
	mockSchedules := new(MockScheduleRepository)
	mockLogs := new(MockEventLogRepository)
	mockUsers.On("FindByRFID", mock.Anything, "RFID123456").Return(enrolled, nil)
	mockSchedules.On("FindByUserAndDate", mock.Anything, uint(7), eventDate).
		Return(&model.DosageSchedule{ID: 3, UserID: 7, Date: eventDate, Dosage: decimal.NewFromFloat(2.5)}, nil)
	mockSchedules.On("MarkConsumed", mock.Anything, uint(7), eventDate).Return(int64(1), nil)
	mockLogs.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	svc := NewDispenseService(mockUsers, mockSchedules, NewAuditLogger(mockLogs), nil, nil)
	dosage, err := svc.Authorize(context.Background(), "RFID123456", 12345, "2025-03-14T10:30:00")

	assert.Error(t, err)
	assert.True(t, dosage.IsZero())

	httpErr := apperrors.MapErrorToHTTP(err)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestDispenseService_Authorize_PublishesEvent(t *testing.T) {
	eventDate := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	enrolled := &model.User{ID: 7, RFIDCode: "RFID123456", FingerprintID: 12345}

	tests := []struct {
		name       string
		publishErr error
	}{
		{name: "event carries the dispense details"},
		{name: "publish failure never fails the dispense", publishErr: errors.New("broker unreachable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockSchedules := new(MockScheduleRepository)
			mockLogs := new(MockEventLogRepository)
			mockPublisher := new(MockPublisher)

			mockUsers.On("FindByRFID", mock.Anything, "RFID123456").Return(enrolled, nil)
			mockSchedules.On("FindByUserAndDate", mock.Anything, uint(7), eventDate).
				Return(&model.DosageSchedule{ID: 3, UserID: 7, Date: eventDate, Dosage: decimal.NewFromFloat(2.5)}, nil)
			mockSchedules.On("MarkConsumed", mock.Anything, uint(7), eventDate).Return(int64(1), nil)
			mockLogs.On("Create", mock.Anything, mock.Anything).Return(nil)
			mockPublisher.On("PublishDispenseRecorded", mock.Anything, mock.MatchedBy(func(e queue.DispenseRecordedEvent) bool {
				return e.UserID == 7 &&
					e.RFIDCode == "RFID123456" &&
					e.Date == "2025-03-14" &&
					e.Dosage == 2.5
			})).Return(tt.publishErr).Once()

			svc := NewDispenseService(mockUsers, mockSchedules, NewAuditLogger(mockLogs), nil, mockPublisher)
			dosage, err := svc.Authorize(context.Background(), "RFID123456", 12345, "2025-03-14T10:30:00")

			assert.NoError(t, err)
			assert.Equal(t, "2.5", dosage.String())
			mockPublisher.AssertExpectations(t)
		})
	}
}

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		want      time.Time
		wantErr   bool
	}{
		{
			name:      "plain device timestamp",
			timestamp: "2025-03-14T10:30:00",
			want:      time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "rfc3339 with zulu suffix",
			timestamp: "2025-03-14T00:30:00Z",
			want:      time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "zone offset does not shift the date",
			timestamp: "2025-03-14T23:30:00-05:00",
			want:      time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		},
		{name: "date without a time", timestamp: "2025-03-14", wantErr: true},
		{name: "garbage", timestamp: "not-a-timestamp", wantErr: true},
		{name: "empty", timestamp: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEventDate(tt.timestamp)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
