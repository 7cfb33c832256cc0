package routing

// Decision is the side-effect-free result of evaluating a lead against the
// tenant's rules. RouteLead persists it; Preview only returns it.
type Decision struct {
	TenantID int64 `json:"tenant_id"`
	LeadID   int64 `json:"lead_id"`

	// RuleID is the first rule whose conditions matched, if any.
	RuleID   *int64         `json:"rule_id,omitempty"`
	Strategy AssignmentType `json:"strategy,omitempty"`

	UserID  *int64  `json:"user_id,omitempty"`
	Outcome Outcome `json:"outcome"`
}

type Outcome string

const (
	OutcomeAssigned    Outcome = "assigned"
	OutcomeNoMatch     Outcome = "no_match"
	OutcomeNoCandidate Outcome = "no_candidate"
)
