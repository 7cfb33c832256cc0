package routing

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements every routing store in memory.
// It is meant for tests and local development and enforces tenant isolation on reads.
//
// Slice order is persisted order: rules with equal priority come back in the
// order they were appended.
type MemoryStore struct {
	mu sync.Mutex

	Leads     []Lead
	Rules     []Rule
	Users     []User
	Followups []Followup

	// WriteErr, when set, is returned by SetAssignee without writing.
	WriteErr error

	clock func() time.Time
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{clock: time.Now} }

func (s *MemoryStore) GetByID(ctx context.Context, leadID, tenantID int64) (Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.leadIndex(leadID, tenantID)
	if i < 0 {
		return Lead{}, ErrNotFound
	}
	return copyLead(s.Leads[i]), nil
}

func (s *MemoryStore) SetAssignee(ctx context.Context, leadID, tenantID, userID int64) (Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return Lead{}, s.WriteErr
	}
	i := s.leadIndex(leadID, tenantID)
	if i < 0 {
		return Lead{}, ErrNotFound
	}
	uid := userID
	s.Leads[i].AssignedUserID = &uid
	s.Leads[i].UpdatedAt = s.now()
	return copyLead(s.Leads[i]), nil
}

// Assign sets a lead's assignee directly, standing in for manual assignment.
func (s *MemoryStore) Assign(leadID, tenantID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.leadIndex(leadID, tenantID); i >= 0 {
		uid := userID
		s.Leads[i].AssignedUserID = &uid
	}
}

func (s *MemoryStore) CountAssignedTo(ctx context.Context, tenantID, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.Leads {
		if l.TenantID == tenantID && l.AssignedUserID != nil && *l.AssignedUserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CountUnassignedStateFor(ctx context.Context, tenantID, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.Leads {
		if l.TenantID == tenantID && l.AssignedUserID != nil && *l.AssignedUserID == userID && l.LeadStatusID == nil {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CountDueOrOverdueFor(ctx context.Context, tenantID, userID int64, asOf time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, f := range s.Followups {
		if f.TenantID == tenantID && f.UserID == userID && f.Open && !f.NextFollowupAt.After(asOf) {
			n++
		}
	}
	return n, nil
}

// ListActive returns the tenant's active rules, highest priority first.
func (s *MemoryStore) ListActive(ctx context.Context, tenantID int64) ([]Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Rule, 0)
	for _, r := range s.Rules {
		if r.TenantID == tenantID && r.IsActive {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out, nil
}

// UserStore exposes the roster; the store's own ListActive serves rules.
func (s *MemoryStore) UserStore() UserStore { return memoryUsers{s} }

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) ListActive(ctx context.Context, tenantID int64, roleID *int64) ([]User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]User, 0)
	for _, u := range m.s.Users {
		if u.TenantID != tenantID || !u.IsActive {
			continue
		}
		if roleID != nil && (u.RoleID == nil || *u.RoleID != *roleID) {
			continue
		}
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) leadIndex(leadID, tenantID int64) int {
	for i, l := range s.Leads {
		if l.ID == leadID && l.TenantID == tenantID {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

func copyLead(l Lead) Lead {
	if l.PreferredAreas != nil {
		areas := make([]Area, len(l.PreferredAreas))
		copy(areas, l.PreferredAreas)
		l.PreferredAreas = areas
	}
	if l.AssignedUserID != nil {
		uid := *l.AssignedUserID
		l.AssignedUserID = &uid
	}
	return l
}
