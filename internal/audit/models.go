package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - tenant_id is required for tenancy isolation.
// - actor and ip capture are best-effort; routing never blocks on audit failures.
type Event struct {
	ID       string    `json:"id" db:"id"`
	TenantID int64     `json:"tenant_id" db:"company_id"`
	Type     EventType `json:"type" db:"type"`

	// ActorUserID is the authenticated user that triggered the event, if any.
	// Post-ingestion routing has no actor.
	ActorUserID *int64 `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`
	IPAddress   string `json:"ip_address,omitempty" db:"ip_address"`

	LeadID             int64  `json:"lead_id,omitempty" db:"lead_id"`
	RuleID             int64  `json:"rule_id,omitempty" db:"rule_id"`
	AssigneeID         int64  `json:"assignee_id,omitempty" db:"assignee_id"`
	PreviousAssigneeID *int64 `json:"previous_assignee_id,omitempty" db:"previous_assignee_id"`

	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON with full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeLeadAssigned EventType = "lead_assigned"
)
