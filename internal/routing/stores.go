package routing

import (
	"context"
	"time"
)

// LeadStore loads and updates leads. All methods are tenant scoped.
type LeadStore interface {
	// GetByID returns ErrNotFound when the lead does not exist in the tenant.
	GetByID(ctx context.Context, leadID, tenantID int64) (Lead, error)

	// SetAssignee persists the lead's assignee and returns the updated lead.
	SetAssignee(ctx context.Context, leadID, tenantID, userID int64) (Lead, error)

	LeadCounter
}

// LeadCounter provides the lead aggregates used for workload.
type LeadCounter interface {
	// CountAssignedTo counts every lead ever assigned to the user, whatever its status.
	CountAssignedTo(ctx context.Context, tenantID, userID int64) (int, error)

	// CountUnassignedStateFor counts the user's leads that have no status yet.
	CountUnassignedStateFor(ctx context.Context, tenantID, userID int64) (int, error)
}

// RuleStore lists routing rules.
type RuleStore interface {
	// ListActive returns active rules by descending priority; equal priorities
	// keep their persisted order.
	ListActive(ctx context.Context, tenantID int64) ([]Rule, error)
}

// UserStore lists assignable users.
type UserStore interface {
	// ListActive returns active users in ascending id order, optionally
	// restricted to one role.
	ListActive(ctx context.Context, tenantID int64, roleID *int64) ([]User, error)
}

// FollowupStore provides follow-up aggregates.
type FollowupStore interface {
	// CountDueOrOverdueFor counts open follow-ups whose next date is at or before asOf.
	CountDueOrOverdueFor(ctx context.Context, tenantID, userID int64, asOf time.Time) (int, error)
}

// BatchWorkloadStore is an optional capability of a LeadCounter: it computes
// a metric for many users in one grouped query. Users without rows are absent
// from the result and count as zero.
type BatchWorkloadStore interface {
	WorkloadFor(ctx context.Context, tenantID int64, userIDs []int64, metric WorkloadMetric, asOf time.Time) (map[int64]int, error)
}

// TenantLocker serializes routing calls within a tenant.
type TenantLocker interface {
	Lock(ctx context.Context, tenantID int64) (unlock func(), err error)
}
