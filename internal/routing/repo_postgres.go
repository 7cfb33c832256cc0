package routing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadrouter/pkg/utils"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

// PostgresStore implements the routing stores on the CRM schema.
//
// NOTE: This store assumes the following tables exist (tenant column company_id):
// - leads (assigned_user_id nullable, lead_status_id nullable)
// - lead_preferred_areas (lead_id, area_id)
// - areas (state_id) and states (name is the city projection)
// - lead_routing_rules (conditions stored as json/text)
// - users (is_active, role_id)
// - lead_followups (next_followup_date, completed_at nullable = open)
//
// Rules and users both list "active" rows, so they are exposed through
// RuleStore() and UserStore().
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) GetByID(ctx context.Context, leadID, tenantID int64) (Lead, error) {
	return getLead(ctx, s.db, leadID, tenantID)
}

// SetAssignee updates the assignee and re-reads the lead in one transaction.
func (s *PostgresStore) SetAssignee(ctx context.Context, leadID, tenantID, userID int64) (Lead, error) {
	const q = `
UPDATE leads
SET assigned_user_id = $1, updated_at = $2
WHERE company_id = $3 AND id = $4
`
	var out Lead
	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, userID, s.clock().UTC(), tenantID, leadID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		out, err = getLead(ctx, tx, leadID, tenantID)
		return err
	})
	if err != nil {
		return Lead{}, err
	}
	return out, nil
}

func (s *PostgresStore) CountAssignedTo(ctx context.Context, tenantID, userID int64) (int, error) {
	const q = `
SELECT COUNT(*)
FROM leads
WHERE company_id = $1 AND assigned_user_id = $2
`
	return countRow(ctx, s.db, q, tenantID, userID)
}

func (s *PostgresStore) CountUnassignedStateFor(ctx context.Context, tenantID, userID int64) (int, error) {
	const q = `
SELECT COUNT(*)
FROM leads
WHERE company_id = $1 AND assigned_user_id = $2 AND lead_status_id IS NULL
`
	return countRow(ctx, s.db, q, tenantID, userID)
}

func (s *PostgresStore) CountDueOrOverdueFor(ctx context.Context, tenantID, userID int64, asOf time.Time) (int, error) {
	const q = `
SELECT COUNT(*)
FROM lead_followups
WHERE company_id = $1 AND user_id = $2 AND completed_at IS NULL AND next_followup_date <= $3
`
	return countRow(ctx, s.db, q, tenantID, userID, asOf)
}

// WorkloadFor computes metric for all userIDs in one grouped query.
func (s *PostgresStore) WorkloadFor(ctx context.Context, tenantID int64, userIDs []int64, metric WorkloadMetric, asOf time.Time) (map[int64]int, error) {
	out := make(map[int64]int, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	q, args, err := buildWorkloadQuery(tenantID, userIDs, metric, asOf)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID, n int64
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, err
		}
		out[userID] = int(n)
	}
	return out, rows.Err()
}

func (s *PostgresStore) RuleStore() RuleStore { return postgresRules{db: s.db} }
func (s *PostgresStore) UserStore() UserStore { return postgresUsers{db: s.db} }

type postgresRules struct{ db *sql.DB }

func (r postgresRules) ListActive(ctx context.Context, tenantID int64) ([]Rule, error) {
	const q = `
SELECT id, company_id, name, priority, is_active, assignment_type,
       assigned_user_id, assigned_role_id, COALESCE(conditions::text, ''), created_at
FROM lead_routing_rules
WHERE company_id = $1 AND is_active
ORDER BY priority DESC, id ASC
`
	rows, err := r.db.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Rule, 0)
	for rows.Next() {
		var (
			rl       Rule
			userID   sql.NullInt64
			roleID   sql.NullInt64
			strategy string
		)
		if err := rows.Scan(
			&rl.ID,
			&rl.TenantID,
			&rl.Name,
			&rl.Priority,
			&rl.IsActive,
			&strategy,
			&userID,
			&roleID,
			&rl.Conditions,
			&rl.CreatedAt,
		); err != nil {
			return nil, err
		}
		rl.AssignmentType = AssignmentType(strategy)
		rl.AssignedUserID = nullInt(userID)
		rl.AssignedRoleID = nullInt(roleID)
		out = append(out, rl)
	}
	return out, rows.Err()
}

type postgresUsers struct{ db *sql.DB }

func (u postgresUsers) ListActive(ctx context.Context, tenantID int64, roleID *int64) ([]User, error) {
	q, args, err := buildRosterQuery(tenantID, roleID)
	if err != nil {
		return nil, err
	}
	rows, err := u.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		var (
			usr  User
			role sql.NullInt64
		)
		if err := rows.Scan(&usr.ID, &usr.TenantID, &usr.Name, &usr.IsActive, &role); err != nil {
			return nil, err
		}
		usr.RoleID = nullInt(role)
		out = append(out, usr)
	}
	return out, rows.Err()
}

func buildRosterQuery(tenantID int64, roleID *int64) (string, []any, error) {
	b := psql.
		Select("id", "company_id", "name", "is_active", "role_id").
		From("users").
		Where(sq.Eq{"company_id": tenantID, "is_active": true}).
		OrderBy("id ASC")
	if roleID != nil {
		b = b.Where(sq.Eq{"role_id": *roleID})
	}
	return b.ToSql()
}

// buildWorkloadQuery returns (user_id, load) rows for the metric.
// Pending load unions status-less leads with due follow-ups before summing.
func buildWorkloadQuery(tenantID int64, userIDs []int64, metric WorkloadMetric, asOf time.Time) (string, []any, error) {
	switch metric {
	case MetricTotalAssigned:
		return psql.
			Select("assigned_user_id", "COUNT(*)").
			From("leads").
			Where(sq.Eq{"company_id": tenantID, "assigned_user_id": userIDs}).
			GroupBy("assigned_user_id").
			ToSql()

	case MetricPending:
		leadsSQL, leadsArgs, err := sq.
			Select("assigned_user_id AS user_id", "COUNT(*) AS n").
			From("leads").
			Where(sq.Eq{"company_id": tenantID, "assigned_user_id": userIDs, "lead_status_id": nil}).
			GroupBy("assigned_user_id").
			ToSql()
		if err != nil {
			return "", nil, err
		}
		followSQL, followArgs, err := sq.
			Select("user_id", "COUNT(*) AS n").
			From("lead_followups").
			Where(sq.Eq{"company_id": tenantID, "user_id": userIDs, "completed_at": nil}).
			Where(sq.LtOrEq{"next_followup_date": asOf}).
			GroupBy("user_id").
			ToSql()
		if err != nil {
			return "", nil, err
		}

		q := "SELECT user_id, SUM(n)::bigint FROM (" + leadsSQL + " UNION ALL " + followSQL + ") AS workload GROUP BY user_id"
		q, err = sq.Dollar.ReplacePlaceholders(q)
		if err != nil {
			return "", nil, err
		}
		return q, append(leadsArgs, followArgs...), nil

	default:
		return "", nil, fmt.Errorf("%w: workload metric %q", ErrInvalidArgument, metric)
	}
}

func getLead(ctx context.Context, db querier, leadID, tenantID int64) (Lead, error) {
	const q = `
SELECT id, company_id, activity_source_id, property_type, interest_type,
       min_price, max_price, lead_status_id, assigned_user_id, created_at, updated_at
FROM leads
WHERE company_id = $1 AND id = $2
`
	var (
		l            Lead
		sourceID     sql.NullInt64
		propertyType sql.NullString
		interestType sql.NullString
		minPrice     decimal.NullDecimal
		maxPrice     decimal.NullDecimal
		statusID     sql.NullInt64
		assignee     sql.NullInt64
	)
	if err := db.QueryRowContext(ctx, q, tenantID, leadID).Scan(
		&l.ID,
		&l.TenantID,
		&sourceID,
		&propertyType,
		&interestType,
		&minPrice,
		&maxPrice,
		&statusID,
		&assignee,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	l.ActivitySourceID = nullInt(sourceID)
	l.PropertyType = propertyType.String
	l.InterestType = interestType.String
	l.MinPrice = nullDecimal(minPrice)
	l.MaxPrice = nullDecimal(maxPrice)
	l.LeadStatusID = nullInt(statusID)
	l.AssignedUserID = nullInt(assignee)

	areas, err := listPreferredAreas(ctx, db, l.ID)
	if err != nil {
		return Lead{}, err
	}
	l.PreferredAreas = areas
	return l, nil
}

func listPreferredAreas(ctx context.Context, db querier, leadID int64) ([]Area, error) {
	const q = `
SELECT a.id, a.name, COALESCE(s.id, 0), COALESCE(s.name, '')
FROM lead_preferred_areas lpa
JOIN areas a ON a.id = lpa.area_id
LEFT JOIN states s ON s.id = a.state_id
WHERE lpa.lead_id = $1
ORDER BY a.id
`
	rows, err := db.QueryContext(ctx, q, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Area
	for rows.Next() {
		var a Area
		if err := rows.Scan(&a.ID, &a.Name, &a.State.ID, &a.State.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func countRow(ctx context.Context, db *sql.DB, q string, args ...any) (int, error) {
	var n int64
	if err := db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return int(n), nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullDecimal(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}
