package routing

import "time"

const tenant int64 = 1

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newFixtureStore() *MemoryStore {
	s := NewMemoryStore()
	s.clock = func() time.Time { return fixedNow }
	return s
}

func addUsers(s *MemoryStore, roleID *int64, ids ...int64) {
	for _, id := range ids {
		s.Users = append(s.Users, User{ID: id, TenantID: tenant, Name: "agent", IsActive: true, RoleID: roleID})
	}
}

// addAssignedLeads appends n leads assigned to userID. statusID nil keeps them pending.
func addAssignedLeads(s *MemoryStore, userID int64, n int, statusID *int64) {
	for i := 0; i < n; i++ {
		uid := userID
		s.Leads = append(s.Leads, Lead{
			ID:             int64(1000 + len(s.Leads)),
			TenantID:       tenant,
			AssignedUserID: &uid,
			LeadStatusID:   statusID,
		})
	}
}

func addFollowups(s *MemoryStore, userID int64, n int, at time.Time, open bool) {
	for i := 0; i < n; i++ {
		s.Followups = append(s.Followups, Followup{
			ID:             int64(len(s.Followups) + 1),
			TenantID:       tenant,
			LeadID:         1,
			UserID:         userID,
			NextFollowupAt: at,
			Open:           open,
		})
	}
}

func newFixtureResolver(s *MemoryStore) *Resolver {
	calc := NewCalculator(s, s)
	calc.Now = func() time.Time { return fixedNow }
	return NewResolver(s.UserStore(), calc)
}
