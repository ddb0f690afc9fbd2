package repository

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"rentx-admin/internal/domain"
)

// LogAuditRepository is used when no audit database is configured. Events go to
// the structured log and the most recent ones are kept in memory for the dashboard.
type LogAuditRepository struct {
	mu       sync.Mutex
	events   []*domain.AuditEvent
	capacity int
	logger   *zap.Logger
}

func NewLogAuditRepository(capacity int, logger *zap.Logger) *LogAuditRepository {
	if capacity <= 0 {
		capacity = 50
	}
	return &LogAuditRepository{capacity: capacity, logger: logger}
}

func (r *LogAuditRepository) Insert(_ context.Context, e *domain.AuditEvent) error {
	r.logger.Info("audit",
		zap.String("id", e.ID),
		zap.String("actor", e.Actor),
		zap.String("action", e.Action),
		zap.String("resource", e.Resource),
		zap.String("resource_id", e.ResourceID),
		zap.String("status", e.Status),
		zap.String("message", e.Message))

	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.events = append(r.events, &cp)
	if len(r.events) > r.capacity {
		r.events = r.events[len(r.events)-r.capacity:]
	}
	return nil
}

// ListRecent returns up to limit events, newest first.
func (r *LogAuditRepository) ListRecent(_ context.Context, limit int) ([]*domain.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}
	out := make([]*domain.AuditEvent, 0, limit)
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.events[i]
		out = append(out, &cp)
	}
	return out, nil
}
