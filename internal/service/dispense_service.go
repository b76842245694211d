package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blue-farid/DrugBox/internal/cache"
	apperrors "github.com/blue-farid/DrugBox/internal/errors"
	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/queue"
	"github.com/blue-farid/DrugBox/internal/repository"
)

// timestampLayout matches device clocks that report wall time without a
// zone. Zoned RFC3339 timestamps are accepted as well.
const timestampLayout = "2006-01-02T15:04:05"

// DispenseService authorizes dosage requests from dispensing devices.
type DispenseService interface {
	Authorize(ctx context.Context, rfidCode string, fingerprintID int64, timestamp string) (decimal.Decimal, error)
}

type dispenseService struct {
	users     repository.UserRepository
	schedules repository.ScheduleRepository
	audit     AuditLogger
	cache     *cache.Client
	publisher queue.Publisher
}

// NewDispenseService creates a new dispense service. publisher may be nil
// when no broker is configured.
func NewDispenseService(
	users repository.UserRepository,
	schedules repository.ScheduleRepository,
	audit AuditLogger,
	cache *cache.Client,
	publisher queue.Publisher,
) DispenseService {
	return &dispenseService{
		users:     users,
		schedules: schedules,
		audit:     audit,
		cache:     cache,
		publisher: publisher,
	}
}

// Authorize runs the dispense checks in a fixed order: field presence,
// timestamp format, RFID lookup, fingerprint match, schedule lookup, then
// a conditional consume of the day's dose. The first failing check decides
// the outcome, and every call leaves exactly one event log entry.
func (s *dispenseService) Authorize(ctx context.Context, rfidCode string, fingerprintID int64, timestamp string) (decimal.Decimal, error) {
	fp := fingerprintRef(fingerprintID)

	fail := func(user *model.User, message string, cause error) (decimal.Decimal, error) {
		if err := s.audit.Record(ctx, AuditEntry{
			EventType:     model.EventTypeHandleRequest,
			User:          user,
			RFIDCode:      rfidCode,
			FingerprintID: fp,
			Status:        model.EventStatusFailed,
			Message:       message,
		}); err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, cause
	}

	if rfidCode == "" || fingerprintID == 0 || timestamp == "" {
		return fail(nil, "Missing required fields", apperrors.ErrMissingFields)
	}

	date, err := parseEventDate(timestamp)
	if err != nil {
		return fail(nil, "Invalid timestamp format", apperrors.ErrInvalidTimestamp)
	}

	user, err := s.resolveUser(ctx, rfidCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(nil, "RFID not found", apperrors.ErrRFIDNotFound)
		}
		return fail(nil, err.Error(), err)
	}

	if user.FingerprintID != fingerprintID {
		return fail(user, "Fingerprint mismatch", apperrors.ErrFingerprintMismatch)
	}

	schedule, err := s.schedules.FindByUserAndDate(ctx, user.ID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(user, "No dosage for date", apperrors.ErrNoDosageForDate)
		}
		return fail(user, err.Error(), err)
	}

	if schedule.Consumed {
		return fail(user, "Dosage already consumed for the specified date", apperrors.ErrDosageConsumed)
	}

	updated, err := s.schedules.MarkConsumed(ctx, user.ID, date)
	if err != nil {
		return fail(user, err.Error(), err)
	}
	if updated == 0 {
		// A concurrent request for the same user and date won the update.
		return fail(user, "Dosage already consumed for the specified date", apperrors.ErrDosageConsumed)
	}

	if err := s.audit.Record(ctx, AuditEntry{
		EventType:     model.EventTypeHandleRequest,
		User:          user,
		RFIDCode:      rfidCode,
		FingerprintID: fp,
		Status:        model.EventStatusSuccess,
		Message:       "Authentication successful, dosage sent",
	}); err != nil {
		return decimal.Zero, err
	}

	s.publishDispense(ctx, user, schedule, date)

	return schedule.Dosage, nil
}

// resolveUser looks up the enrolled user for an RFID code, serving from
// the identity cache when possible.
func (s *dispenseService) resolveUser(ctx context.Context, rfidCode string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(rfidCode)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByRFID(ctx, rfidCode)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(rfidCode), payload, userCacheTTL)
	}
	return user, nil
}

// publishDispense emits a broker event for downstream consumers. Publish
// failures are logged inside the publisher and never fail the dispense.
func (s *dispenseService) publishDispense(ctx context.Context, user *model.User, schedule *model.DosageSchedule, date time.Time) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.PublishDispenseRecorded(ctx, queue.DispenseRecordedEvent{
		UserID:      user.ID,
		RFIDCode:    user.RFIDCode,
		Date:        date.Format(model.DateLayout),
		Dosage:      schedule.Dosage.InexactFloat64(),
		DispensedAt: time.Now().UTC(),
	})
}

// parseEventDate extracts the calendar date from a device timestamp. The
// written date is taken literally; a zone suffix never shifts it to an
// adjacent day.
func parseEventDate(timestamp string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, timestamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, timestamp)
	}
	if err != nil {
		return time.Time{}, err
	}
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}
