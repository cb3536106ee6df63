package postgres

import (
	"context"
	"fmt"

	audit "certseal/pkg/platform/audit"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the audit_events table. Applied on startup; every statement
// is idempotent so repeated boots are safe.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id             UUID PRIMARY KEY,
	category       TEXT NOT NULL,
	timestamp      TIMESTAMPTZ NOT NULL,
	certificate_id TEXT NOT NULL,
	profile_id     TEXT NOT NULL DEFAULT '',
	subject        TEXT NOT NULL DEFAULT '',
	action         TEXT NOT NULL,
	decision       TEXT NOT NULL DEFAULT '',
	reason         TEXT NOT NULL DEFAULT '',
	risk_level     TEXT NOT NULL DEFAULT '',
	trust_score    INT NOT NULL DEFAULT 0,
	request_id     TEXT NOT NULL DEFAULT '',
	client_info    TEXT NOT NULL DEFAULT '',
	severity       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_audit_events_certificate ON audit_events (certificate_id, timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_audit_events_timestamp ON audit_events (timestamp DESC);
`

// Store implements audit.Store on PostgreSQL. Events are append-only; rows
// are never updated or deleted by this process, retention is handled by
// operators per the category's policy.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the audit schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply audit schema: %w", err)
	}
	return nil
}

// Append inserts an audit event. Idempotent via ON CONFLICT DO NOTHING so a
// retried delivery never duplicates a row.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}

	query := `
		INSERT INTO audit_events (
			id, category, timestamp, certificate_id, profile_id, subject,
			action, decision, reason, risk_level, trust_score,
			request_id, client_info, severity
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.pool.Exec(ctx, query,
		uuid.New(),
		string(category),
		event.Timestamp,
		event.CertificateID,
		event.ProfileID,
		event.Subject,
		event.Action,
		event.Decision,
		event.Reason,
		event.RiskLevel,
		event.TrustScore,
		event.RequestID,
		event.ClientInfo,
		string(event.Severity),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByCertificate returns events for a certificate, most recent first.
func (s *Store) ListByCertificate(ctx context.Context, certificateID string) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, certificate_id, profile_id, subject,
		       action, decision, reason, risk_level, trust_score,
		       request_id, client_info, severity
		FROM audit_events
		WHERE certificate_id = $1
		ORDER BY timestamp DESC
	`
	rows, err := s.pool.Query(ctx, query, certificateID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, certificate_id, profile_id, subject,
		       action, decision, reason, risk_level, trust_score,
		       request_id, client_info, severity
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvents(rows pgxRows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			category string
			severity string
			event    audit.Event
		)
		err := rows.Scan(
			&category,
			&event.Timestamp,
			&event.CertificateID,
			&event.ProfileID,
			&event.Subject,
			&event.Action,
			&event.Decision,
			&event.Reason,
			&event.RiskLevel,
			&event.TrustScore,
			&event.RequestID,
			&event.ClientInfo,
			&severity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		event.Severity = audit.Severity(severity)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
