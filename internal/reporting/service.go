package reporting

import (
	"context"
	"errors"
	"time"

	"leadrouter/internal/routing"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Service reports team workload from the same live aggregates the router uses.
type Service struct {
	users    routing.UserStore
	workload *routing.Calculator
	clock    func() time.Time
}

func NewService(users routing.UserStore, workload *routing.Calculator) *Service {
	return &Service{users: users, workload: workload, clock: time.Now}
}

func (s *Service) Workload(ctx context.Context, req WorkloadRequest) (WorkloadReport, error) {
	if req.TenantID <= 0 {
		return WorkloadReport{}, ErrInvalidRequest
	}
	if req.RoleID != nil && *req.RoleID <= 0 {
		return WorkloadReport{}, ErrInvalidRequest
	}
	if s.users == nil || s.workload == nil {
		return WorkloadReport{}, errors.New("reporting: stores not configured")
	}

	users, err := s.users.ListActive(ctx, req.TenantID, req.RoleID)
	if err != nil {
		return WorkloadReport{}, err
	}

	out := WorkloadReport{
		TenantID: req.TenantID,
		RoleID:   req.RoleID,
		AsOf:     s.clock().UTC(),
		Agents:   make([]AgentWorkload, 0, len(users)),
	}
	if len(users) == 0 {
		return out, nil
	}

	total, err := s.workload.Loads(ctx, req.TenantID, users, routing.MetricTotalAssigned)
	if err != nil {
		return WorkloadReport{}, err
	}
	pending, err := s.workload.Loads(ctx, req.TenantID, users, routing.MetricPending)
	if err != nil {
		return WorkloadReport{}, err
	}

	for _, u := range users {
		out.Agents = append(out.Agents, AgentWorkload{
			UserID:        u.ID,
			Name:          u.Name,
			RoleID:        u.RoleID,
			TotalAssigned: total[u.ID],
			Pending:       pending[u.ID],
		})
	}
	out.NextRoundRobin = leastLoaded(out.Agents, func(a AgentWorkload) int { return a.TotalAssigned })
	out.NextLoadBalance = leastLoaded(out.Agents, func(a AgentWorkload) int { return a.Pending })
	return out, nil
}

// leastLoaded expects agents in ascending id order; ties keep the first.
func leastLoaded(agents []AgentWorkload, load func(AgentWorkload) int) *int64 {
	if len(agents) == 0 {
		return nil
	}
	best := agents[0]
	for _, a := range agents[1:] {
		if load(a) < load(best) {
			best = a
		}
	}
	id := best.UserID
	return &id
}
