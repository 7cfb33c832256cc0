package audit

import (
	"context"
	"testing"
	"time"
)

func TestService_AppendRequiresTenantAndType(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if err := svc.Append(context.Background(), Event{Type: EventTypeLeadAssigned}); err == nil {
		t.Fatalf("expected error without tenant")
	}
	if err := svc.Append(context.Background(), Event{TenantID: 1}); err == nil {
		t.Fatalf("expected error without type")
	}
}

func TestService_LogLeadAssigned(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	now := time.Unix(1700000000, 0).UTC()
	svc.clock = func() time.Time { return now }

	ctx := WithClientIP(context.Background(), "10.0.0.1")
	prev := int64(3)
	if err := svc.LogLeadAssigned(ctx, Event{TenantID: 1, LeadID: 42, RuleID: 7, AssigneeID: 9, PreviousAssigneeID: &prev}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	e := evs[0]
	if e.Type != EventTypeLeadAssigned {
		t.Fatalf("expected lead_assigned, got %q", e.Type)
	}
	if e.ID == "" || !e.CreatedAt.Equal(now) {
		t.Fatalf("expected id and created_at defaults, got %+v", e)
	}
	if e.IPAddress != "10.0.0.1" {
		t.Fatalf("expected ip from context, got %q", e.IPAddress)
	}
	if e.Message == "" {
		t.Fatalf("expected default message")
	}
}

func TestService_LogLeadAssignedRequiresLeadAndAssignee(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.LogLeadAssigned(context.Background(), Event{TenantID: 1, LeadID: 1}); err == nil {
		t.Fatalf("expected error without assignee")
	}
}
