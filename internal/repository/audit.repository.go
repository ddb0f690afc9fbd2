package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentx-admin/internal/domain"
)

// AuditRepository stores the admin activity trail.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error)
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS admin_audit_log (
	id          TEXT PRIMARY KEY,
	actor       TEXT NOT NULL,
	action      TEXT NOT NULL,
	resource    TEXT NOT NULL,
	resource_id TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	message     TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_admin_audit_log_created_at ON admin_audit_log (created_at DESC);
`

type PgAuditRepository struct {
	db *pgxpool.Pool
}

func NewPgAuditRepository(db *pgxpool.Pool) *PgAuditRepository {
	return &PgAuditRepository{db: db}
}

// EnsureSchema creates the audit table when it is missing.
func (r *PgAuditRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("failed to create admin_audit_log: %w", err)
	}
	return nil
}

func (r *PgAuditRepository) Insert(ctx context.Context, e *domain.AuditEvent) error {
	query := `
		INSERT INTO admin_audit_log (id, actor, action, resource, resource_id, status, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		e.ID,
		e.Actor,
		e.Action,
		e.Resource,
		e.ResourceID,
		e.Status,
		e.Message,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

func (r *PgAuditRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error) {
	query := `
		SELECT id, actor, action, resource, resource_id, status, message, created_at
		FROM admin_audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}

func scanAuditEvents(rows pgx.Rows) ([]*domain.AuditEvent, error) {
	var events []*domain.AuditEvent
	for rows.Next() {
		e := &domain.AuditEvent{}
		if err := rows.Scan(
			&e.ID,
			&e.Actor,
			&e.Action,
			&e.Resource,
			&e.ResourceID,
			&e.Status,
			&e.Message,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
