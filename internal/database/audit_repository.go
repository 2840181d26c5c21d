package database

import (
	"context"
	"fmt"
)

// AuditEntry is one row of the audit_logs table
type AuditEntry struct {
	UserID     *int64
	Action     string
	EntityType string
	EntityID   *int64
	IPAddress  string
	UserAgent  string
	Details    []byte // JSON
}

// AuditRepository appends audit log rows
type AuditRepository struct {
	db DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert writes one audit entry
func (r *AuditRepository) Insert(ctx context.Context, e *AuditEntry) error {
	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip_address, user_agent, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var details interface{}
	if len(e.Details) > 0 {
		details = string(e.Details)
	}

	_, err := r.db.ExecContext(ctx, query,
		e.UserID, e.Action, e.EntityType, e.EntityID, e.IPAddress, e.UserAgent, details,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}
