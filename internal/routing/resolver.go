package routing

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Resolver turns a matched rule into a concrete user id.
// It never writes; (0, false, nil) means no candidate.
type Resolver struct {
	Users    UserStore
	Workload *Calculator
}

func NewResolver(users UserStore, workload *Calculator) *Resolver {
	return &Resolver{Users: users, Workload: workload}
}

func (r *Resolver) Resolve(ctx context.Context, rule Rule, tenantID int64) (int64, bool, error) {
	s, err := rule.Strategy()
	if err != nil {
		return 0, false, err
	}
	return r.ResolveStrategy(ctx, s, tenantID)
}

func (r *Resolver) ResolveStrategy(ctx context.Context, s Strategy, tenantID int64) (int64, bool, error) {
	if s == nil {
		return 0, false, ErrUnknownStrategy
	}
	return s.resolve(ctx, r, tenantID)
}

// pool returns active candidates in ascending id order.
func (r *Resolver) pool(ctx context.Context, tenantID int64, roleID *int64) ([]User, error) {
	if r.Users == nil {
		return nil, errors.New("routing: user store not configured")
	}
	users, err := r.Users.ListActive(ctx, tenantID, roleID)
	if err != nil {
		return nil, fmt.Errorf("routing: list candidates: %w", err)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// leastLoaded picks the minimum-load candidate; ties go to the lower id.
func (r *Resolver) leastLoaded(ctx context.Context, tenantID int64, roleID *int64, metric WorkloadMetric) (int64, bool, error) {
	pool, err := r.pool(ctx, tenantID, roleID)
	if err != nil {
		return 0, false, err
	}
	if len(pool) == 0 {
		return 0, false, nil
	}
	if r.Workload == nil {
		return 0, false, errors.New("routing: workload calculator not configured")
	}

	loads, err := r.Workload.Loads(ctx, tenantID, pool, metric)
	if err != nil {
		return 0, false, err
	}

	best := pool[0].ID
	bestLoad := loads[best]
	for _, u := range pool[1:] {
		if n := loads[u.ID]; n < bestLoad {
			best, bestLoad = u.ID, n
		}
	}
	return best, true, nil
}
