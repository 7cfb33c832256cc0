package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadrouter/internal/routing"
)

func TestWorkload_RequiresTenant(t *testing.T) {
	store := routing.NewMemoryStore()
	svc := NewService(store.UserStore(), routing.NewCalculator(store, store))
	if _, err := svc.Workload(context.Background(), WorkloadRequest{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestWorkload_ReportsBothMetrics(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := routing.NewMemoryStore()
	sales := int64(2)
	store.Users = []routing.User{
		{ID: 3, TenantID: 1, Name: "Cam", IsActive: true, RoleID: &sales},
		{ID: 1, TenantID: 1, Name: "Ana", IsActive: true, RoleID: &sales},
		{ID: 2, TenantID: 1, Name: "Ben", IsActive: false, RoleID: &sales},
		{ID: 9, TenantID: 7, Name: "Other", IsActive: true, RoleID: &sales},
	}
	worked := int64(5)
	one, three := int64(1), int64(3)
	store.Leads = []routing.Lead{
		{ID: 10, TenantID: 1, AssignedUserID: &one},
		{ID: 11, TenantID: 1, AssignedUserID: &one, LeadStatusID: &worked},
		{ID: 12, TenantID: 1, AssignedUserID: &three, LeadStatusID: &worked},
	}
	store.Followups = []routing.Followup{
		{ID: 1, TenantID: 1, LeadID: 12, UserID: 3, NextFollowupAt: now.Add(-time.Hour), Open: true},
		{ID: 2, TenantID: 1, LeadID: 12, UserID: 3, NextFollowupAt: now.Add(-time.Hour), Open: true},
	}

	calc := routing.NewCalculator(store, store)
	calc.Now = func() time.Time { return now }
	svc := NewService(store.UserStore(), calc)
	svc.clock = func() time.Time { return now }

	rep, err := svc.Workload(context.Background(), WorkloadRequest{TenantID: 1, RoleID: &sales})
	if err != nil {
		t.Fatalf("workload: %v", err)
	}
	if len(rep.Agents) != 2 || rep.Agents[0].UserID != 1 || rep.Agents[1].UserID != 3 {
		t.Fatalf("unexpected roster: %+v", rep.Agents)
	}
	if rep.Agents[0].TotalAssigned != 2 || rep.Agents[0].Pending != 1 {
		t.Fatalf("unexpected load for 1: %+v", rep.Agents[0])
	}
	if rep.Agents[1].TotalAssigned != 1 || rep.Agents[1].Pending != 2 {
		t.Fatalf("unexpected load for 3: %+v", rep.Agents[1])
	}
	if rep.NextRoundRobin == nil || *rep.NextRoundRobin != 3 {
		t.Fatalf("expected round robin next 3, got %v", rep.NextRoundRobin)
	}
	if rep.NextLoadBalance == nil || *rep.NextLoadBalance != 1 {
		t.Fatalf("expected load balance next 1, got %v", rep.NextLoadBalance)
	}
	if !rep.AsOf.Equal(now) {
		t.Fatalf("unexpected as_of %v", rep.AsOf)
	}
}

func TestWorkload_EmptyRoster(t *testing.T) {
	store := routing.NewMemoryStore()
	svc := NewService(store.UserStore(), routing.NewCalculator(store, store))
	rep, err := svc.Workload(context.Background(), WorkloadRequest{TenantID: 1})
	if err != nil {
		t.Fatalf("workload: %v", err)
	}
	if len(rep.Agents) != 0 || rep.NextRoundRobin != nil {
		t.Fatalf("expected empty report, got %+v", rep)
	}
}
