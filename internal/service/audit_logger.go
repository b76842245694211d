package service

import (
	"context"
	"fmt"

	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/repository"
)

// AuditEntry describes one device request outcome to be recorded.
// RFIDCode and FingerprintID carry the raw submitted values, not the
// enrolled ones; User is set only when the request was resolved to an
// enrolled user.
type AuditEntry struct {
	EventType     model.EventType
	User          *model.User
	RFIDCode      string
	FingerprintID *int64
	Status        model.EventStatus
	Message       string
}

// AuditLogger records device request outcomes. A failed write is fatal to
// the request being audited: no outcome may be reported to a device unless
// its audit entry is stored.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry) error
}

type auditLogger struct {
	eventLogs repository.EventLogRepository
}

// NewAuditLogger builds an AuditLogger backed by the event log table.
func NewAuditLogger(eventLogs repository.EventLogRepository) AuditLogger {
	return &auditLogger{eventLogs: eventLogs}
}

func (l *auditLogger) Record(ctx context.Context, entry AuditEntry) error {
	eventLog := &model.EventLog{
		EventType:     entry.EventType,
		RFIDCode:      entry.RFIDCode,
		FingerprintID: entry.FingerprintID,
		Status:        entry.Status,
		Message:       entry.Message,
	}
	if entry.User != nil {
		userID := entry.User.ID
		eventLog.UserID = &userID
	}

	if err := l.eventLogs.Create(ctx, eventLog); err != nil {
		return fmt.Errorf("record event log: %w", err)
	}
	return nil
}

// fingerprintRef converts a bound fingerprint value to its audit form.
// Zero means the device omitted the field, recorded as NULL.
func fingerprintRef(fingerprintID int64) *int64 {
	if fingerprintID == 0 {
		return nil
	}
	return &fingerprintID
}
