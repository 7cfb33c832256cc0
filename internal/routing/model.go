package routing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lead is the routing view of an inbound sales lead.
//
// Tenancy invariant: every lead belongs to exactly one tenant (company).
// The engine only ever writes AssignedUserID.
type Lead struct {
	ID       int64 `json:"id"`
	TenantID int64 `json:"tenant_id"`

	ActivitySourceID *int64           `json:"activity_source_id,omitempty"`
	PropertyType     string           `json:"property_type,omitempty"`
	InterestType     string           `json:"interest_type,omitempty"`
	MinPrice         *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice         *decimal.Decimal `json:"max_price,omitempty"`

	// LeadStatusID is nil until someone works the lead.
	LeadStatusID   *int64 `json:"lead_status_id,omitempty"`
	AssignedUserID *int64 `json:"assigned_user_id"`

	PreferredAreas []Area `json:"preferred_areas,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Area is a preferred area of a lead, resolved to its state (city).
type Area struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	State State  `json:"state"`
}

type State struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is a sales agent that can receive leads.
type User struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
	RoleID   *int64 `json:"role_id,omitempty"`
}

// Followup is a scheduled follow-up a user owes on a lead.
type Followup struct {
	ID             int64     `json:"id"`
	TenantID       int64     `json:"tenant_id"`
	LeadID         int64     `json:"lead_id"`
	UserID         int64     `json:"user_id"`
	NextFollowupAt time.Time `json:"next_followup_at"`
	Open           bool      `json:"open"`
}

// Rule is a tenant-scoped routing rule as persisted by the rule store.
//
// Conditions holds the stored predicate text; it is parsed on read.
// Which of AssignedUserID/AssignedRoleID matters depends on AssignmentType;
// the other one is ignored.
type Rule struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	Name     string `json:"name"`

	Priority int  `json:"priority"`
	IsActive bool `json:"is_active"`

	AssignmentType AssignmentType `json:"assignment_type"`
	AssignedUserID *int64         `json:"assigned_user_id,omitempty"`
	AssignedRoleID *int64         `json:"assigned_role_id,omitempty"`

	Conditions string `json:"conditions"`

	CreatedAt time.Time `json:"created_at"`
}
