package routing

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// WorkloadMetric selects how a user's load is counted.
type WorkloadMetric string

const (
	// MetricTotalAssigned counts every lead ever assigned to the user.
	MetricTotalAssigned WorkloadMetric = "total_assigned"
	// MetricPending counts status-less leads plus due or overdue follow-ups.
	MetricPending WorkloadMetric = "pending"
)

// Calculator computes per-user load from live aggregates.
// Nothing is cached between calls.
type Calculator struct {
	Leads     LeadCounter
	Followups FollowupStore

	// Now is injectable for deterministic tests.
	Now func() time.Time
}

func NewCalculator(leads LeadCounter, followups FollowupStore) *Calculator {
	return &Calculator{Leads: leads, Followups: followups, Now: time.Now}
}

// Load returns one user's load under metric.
func (c *Calculator) Load(ctx context.Context, tenantID, userID int64, metric WorkloadMetric) (int, error) {
	return c.load(ctx, tenantID, userID, metric, c.now())
}

// Loads returns the load of every user, keyed by user id. When the lead store
// supports grouped aggregates a single query serves the whole pool.
func (c *Calculator) Loads(ctx context.Context, tenantID int64, users []User, metric WorkloadMetric) (map[int64]int, error) {
	if c.Leads == nil {
		return nil, errors.New("routing: lead counter not configured")
	}
	asOf := c.now()

	if batch, ok := c.Leads.(BatchWorkloadStore); ok {
		ids := make([]int64, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		loads, err := batch.WorkloadFor(ctx, tenantID, ids, metric, asOf)
		if err != nil {
			return nil, fmt.Errorf("routing: workload: %w", err)
		}
		if loads == nil {
			loads = map[int64]int{}
		}
		return loads, nil
	}

	out := make(map[int64]int, len(users))
	for _, u := range users {
		n, err := c.load(ctx, tenantID, u.ID, metric, asOf)
		if err != nil {
			return nil, err
		}
		out[u.ID] = n
	}
	return out, nil
}

func (c *Calculator) load(ctx context.Context, tenantID, userID int64, metric WorkloadMetric, asOf time.Time) (int, error) {
	if c.Leads == nil {
		return 0, errors.New("routing: lead counter not configured")
	}

	switch metric {
	case MetricTotalAssigned:
		n, err := c.Leads.CountAssignedTo(ctx, tenantID, userID)
		if err != nil {
			return 0, fmt.Errorf("routing: count assigned leads: %w", err)
		}
		return n, nil

	case MetricPending:
		if c.Followups == nil {
			return 0, errors.New("routing: followup store not configured")
		}
		unassigned, err := c.Leads.CountUnassignedStateFor(ctx, tenantID, userID)
		if err != nil {
			return 0, fmt.Errorf("routing: count status-less leads: %w", err)
		}
		due, err := c.Followups.CountDueOrOverdueFor(ctx, tenantID, userID, asOf)
		if err != nil {
			return 0, fmt.Errorf("routing: count due followups: %w", err)
		}
		return unassigned + due, nil

	default:
		return 0, fmt.Errorf("%w: workload metric %q", ErrInvalidArgument, metric)
	}
}

func (c *Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
