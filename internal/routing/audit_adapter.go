package routing

import (
	"context"
	"encoding/json"
	"time"

	"leadrouter/internal/audit"
	"leadrouter/internal/auth"
)

// AssignmentAuditor records persisted assignments.
type AssignmentAuditor interface {
	LogAssignment(ctx context.Context, e AssignmentEvent) error
}

type AssignmentEvent struct {
	TenantID       int64
	LeadID         int64
	RuleID         int64
	Strategy       AssignmentType
	PreviousUserID *int64
	UserID         int64
	AssignedAt     time.Time
}

// AuditAdapter bridges routing's assignment hook to the shared audit.Service.
// The actor, when the call came through the API, is taken from the request context.
type AuditAdapter struct {
	Audit *audit.Service
}

func (a AuditAdapter) LogAssignment(ctx context.Context, e AssignmentEvent) error {
	if a.Audit == nil {
		return nil
	}

	meta, err := json.Marshal(map[string]any{
		"strategy":    e.Strategy,
		"assigned_at": e.AssignedAt.UTC(),
	})
	if err != nil {
		return err
	}

	ev := audit.Event{
		TenantID:           e.TenantID,
		LeadID:             e.LeadID,
		RuleID:             e.RuleID,
		AssigneeID:         e.UserID,
		PreviousAssigneeID: e.PreviousUserID,
		Metadata:           string(meta),
	}
	if uid, err := auth.UserID(ctx); err == nil {
		ev.ActorUserID = &uid
	}
	if role, err := auth.Role(ctx); err == nil {
		ev.ActorRole = role
	}
	return a.Audit.LogLeadAssigned(ctx, ev)
}
