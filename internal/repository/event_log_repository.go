package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/blue-farid/DrugBox/internal/model"
)

const (
	defaultEventLogLimit = 100
	maxEventLogLimit     = 500
)

// EventLogFilter narrows event log listings. Zero values match everything.
type EventLogFilter struct {
	EventType string
	Status    string
	Limit     int
}

// EventLogRepository defines persistence operations for audit entries.
// The table is append-only; nothing updates or deletes rows.
type EventLogRepository interface {
	Create(ctx context.Context, entry *model.EventLog) error
	List(ctx context.Context, filter EventLogFilter) ([]model.EventLog, error)
}

type eventLogRepository struct {
	db *gorm.DB
}

// NewEventLogRepository builds a GORM-backed repository.
func NewEventLogRepository(db *gorm.DB) EventLogRepository {
	return &eventLogRepository{db: db}
}

func (r *eventLogRepository) Create(ctx context.Context, entry *model.EventLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *eventLogRepository) List(ctx context.Context, filter EventLogFilter) ([]model.EventLog, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.EventType != "" {
		q = q.Where("event_type = ?", filter.EventType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultEventLogLimit
	} else if limit > maxEventLogLimit {
		limit = maxEventLogLimit
	}

	var entries []model.EventLog
	if err := q.Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
