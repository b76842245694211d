package service

import (
	"context"

	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/repository"
)

// EventLogService exposes read access to the audit trail.
type EventLogService interface {
	ListEventLogs(ctx context.Context, filter repository.EventLogFilter) ([]model.EventLog, error)
}

type eventLogService struct {
	repo repository.EventLogRepository
}

// NewEventLogService creates a new event log service.
func NewEventLogService(repo repository.EventLogRepository) EventLogService {
	return &eventLogService{repo: repo}
}

func (s *eventLogService) ListEventLogs(ctx context.Context, filter repository.EventLogFilter) ([]model.EventLog, error) {
	return s.repo.List(ctx, filter)
}
