package routing

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var (
	leadColumns = []string{"id", "company_id", "activity_source_id", "property_type", "interest_type",
		"min_price", "max_price", "lead_status_id", "assigned_user_id", "created_at", "updated_at"}
	areaColumns = []string{"id", "name", "state_id", "state_name"}

	selectLead  = regexp.QuoteMeta("SELECT id, company_id, activity_source_id")
	selectAreas = regexp.QuoteMeta("FROM lead_preferred_areas")
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	s := NewPostgresStore(db)
	return s, mock
}

func TestPostgresStore_GetByID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(selectLead).
		WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows(leadColumns).
			AddRow(int64(5), int64(1), int64(3), "villa", nil, "150000.50", nil, nil, int64(9), fixedNow, fixedNow))
	mock.ExpectQuery(selectAreas).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(areaColumns).
			AddRow(int64(10), "Downtown", int64(7), "Springfield").
			AddRow(int64(11), "Harbor", int64(0), ""))

	l, err := s.GetByID(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if l.ActivitySourceID == nil || *l.ActivitySourceID != 3 || l.PropertyType != "villa" || l.InterestType != "" {
		t.Fatalf("unexpected scalar fields: %+v", l)
	}
	if l.MinPrice == nil || !l.MinPrice.Equal(*dec("150000.50")) || l.MaxPrice != nil {
		t.Fatalf("unexpected prices: %v %v", l.MinPrice, l.MaxPrice)
	}
	if l.LeadStatusID != nil || l.AssignedUserID == nil || *l.AssignedUserID != 9 {
		t.Fatalf("unexpected status/assignee: %+v", l)
	}
	if len(l.PreferredAreas) != 2 || l.PreferredAreas[0].State.Name != "Springfield" || l.PreferredAreas[1].State.ID != 0 {
		t.Fatalf("unexpected areas: %+v", l.PreferredAreas)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_GetByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(selectLead).WithArgs(int64(1), int64(5)).WillReturnRows(sqlmock.NewRows(leadColumns))

	if _, err := s.GetByID(context.Background(), 5, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresStore_SetAssignee(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leads")).
		WithArgs(int64(9), sqlmock.AnyArg(), int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectLead).
		WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows(leadColumns).
			AddRow(int64(5), int64(1), nil, nil, nil, nil, nil, nil, int64(9), fixedNow, fixedNow))
	mock.ExpectQuery(selectAreas).WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows(areaColumns))
	mock.ExpectCommit()

	l, err := s.SetAssignee(context.Background(), 5, 1, 9)
	if err != nil {
		t.Fatalf("set assignee: %v", err)
	}
	if l.AssignedUserID == nil || *l.AssignedUserID != 9 {
		t.Fatalf("expected assignee 9, got %v", l.AssignedUserID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_SetAssigneeMissingLeadRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leads")).
		WithArgs(int64(9), sqlmock.AnyArg(), int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if _, err := s.SetAssignee(context.Background(), 5, 1, 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_WorkloadFor(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SUM(n)::bigint")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "sum"}).
			AddRow(int64(4), int64(3)))

	loads, err := s.WorkloadFor(context.Background(), 1, []int64{4, 5}, MetricPending, fixedNow)
	if err != nil {
		t.Fatalf("workload: %v", err)
	}
	if loads[4] != 3 || loads[5] != 0 || len(loads) != 1 {
		t.Fatalf("unexpected loads: %v", loads)
	}

	empty, err := s.WorkloadFor(context.Background(), 1, nil, MetricPending, fixedNow)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no query for empty pool, got %v %v", empty, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_ListActiveRules(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lead_routing_rules")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name", "priority", "is_active",
			"assignment_type", "assigned_user_id", "assigned_role_id", "conditions", "created_at"}).
			AddRow(int64(2), int64(1), "villas", int64(10), true, "role_based", nil, int64(4), `{"property_type":"villa"}`, fixedNow))

	rules, err := s.RuleStore().ListActive(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rules) != 1 || rules[0].AssignmentType != AssignmentRoleBased || rules[0].AssignedRoleID == nil || *rules[0].AssignedRoleID != 4 || rules[0].AssignedUserID != nil {
		t.Fatalf("unexpected rules: %+v", rules)
	}
}
