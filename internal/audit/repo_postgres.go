package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends events to lead_routing_audit_events.
// The table is expected to reject UPDATE/DELETE.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO lead_routing_audit_events (
  id, company_id, type, actor_user_id, actor_role, ip_address,
  lead_id, rule_id, assignee_id, previous_assignee_id, message, metadata, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.TenantID,
		e.Type,
		e.ActorUserID,
		e.ActorRole,
		e.IPAddress,
		e.LeadID,
		e.RuleID,
		e.AssigneeID,
		e.PreviousAssigneeID,
		e.Message,
		e.Metadata,
		e.CreatedAt,
	)
	return err
}
