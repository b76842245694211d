package service

import (
	"context"

	"github.com/blue-farid/DrugBox/internal/cache"
	apperrors "github.com/blue-farid/DrugBox/internal/errors"
	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/repository"
)

// EnrollmentService registers users reported by the dispensing devices.
type EnrollmentService interface {
	EnrollUser(ctx context.Context, rfidCode string, fingerprintID int64, name string) (*model.User, error)
}

type enrollmentService struct {
	users repository.UserRepository
	audit AuditLogger
	cache *cache.Client
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(users repository.UserRepository, audit AuditLogger, cache *cache.Client) EnrollmentService {
	return &enrollmentService{users: users, audit: audit, cache: cache}
}

// EnrollUser validates and stores a device enrollment. Every call leaves
// exactly one event log entry; when that entry cannot be written the
// enrollment fails even if the user row was already stored.
func (s *enrollmentService) EnrollUser(ctx context.Context, rfidCode string, fingerprintID int64, name string) (*model.User, error) {
	fp := fingerprintRef(fingerprintID)

	if rfidCode == "" || fingerprintID == 0 {
		if err := s.audit.Record(ctx, AuditEntry{
			EventType:     model.EventTypeAddUser,
			RFIDCode:      rfidCode,
			FingerprintID: fp,
			Status:        model.EventStatusFailed,
			Message:       "Missing required fields for user creation",
		}); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrMissingFields
	}

	user := &model.User{Name: name, RFIDCode: rfidCode, FingerprintID: fingerprintID}
	if err := s.users.Create(ctx, user); err != nil {
		if auditErr := s.audit.Record(ctx, AuditEntry{
			EventType:     model.EventTypeAddUser,
			RFIDCode:      rfidCode,
			FingerprintID: fp,
			Status:        model.EventStatusFailed,
			Message:       err.Error(),
		}); auditErr != nil {
			return nil, auditErr
		}
		return nil, err
	}

	// A re-enrolled badge must not serve a stale identity from the cache.
	_ = s.cache.Delete(ctx, userCacheKey(rfidCode))

	if err := s.audit.Record(ctx, AuditEntry{
		EventType:     model.EventTypeAddUser,
		User:          user,
		RFIDCode:      rfidCode,
		FingerprintID: fp,
		Status:        model.EventStatusSuccess,
		Message:       "User created by device",
	}); err != nil {
		return nil, err
	}

	return user, nil
}
