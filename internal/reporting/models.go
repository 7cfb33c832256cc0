package reporting

import "time"

// WorkloadRequest asks for the load of a tenant's active agents.
// Tenant isolation: TenantID is required. RoleID optionally narrows the roster.
type WorkloadRequest struct {
	TenantID int64  `json:"tenant_id"`
	RoleID   *int64 `json:"role_id,omitempty"`
}

// AgentWorkload is one agent's load under both routing metrics.
type AgentWorkload struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	RoleID *int64 `json:"role_id,omitempty"`

	// TotalAssigned is what round robin balances on.
	TotalAssigned int `json:"total_assigned"`
	// Pending is what load balance balances on.
	Pending int `json:"pending"`
}

type WorkloadReport struct {
	TenantID int64     `json:"tenant_id"`
	RoleID   *int64    `json:"role_id,omitempty"`
	AsOf     time.Time `json:"as_of"`

	Agents []AgentWorkload `json:"agents"`

	// NextRoundRobin and NextLoadBalance are the agents each strategy would
	// pick right now over this roster.
	NextRoundRobin  *int64 `json:"next_round_robin,omitempty"`
	NextLoadBalance *int64 `json:"next_load_balance,omitempty"`
}
