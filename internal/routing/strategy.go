package routing

import (
	"context"
	"fmt"
)

type AssignmentType string

const (
	AssignmentSpecificUser AssignmentType = "specific_user"
	AssignmentRoundRobin   AssignmentType = "round_robin"
	AssignmentLoadBalance  AssignmentType = "load_balance"
	AssignmentRoleBased    AssignmentType = "role_based"
)

// Strategy is the closed set of assignment algorithms.
// Only the types in this file implement it.
type Strategy interface {
	Type() AssignmentType
	resolve(ctx context.Context, r *Resolver, tenantID int64) (int64, bool, error)
}

// SpecificUser always targets one user.
type SpecificUser struct {
	UserID *int64
}

// RoleBased targets the lowest-id active user holding the role.
type RoleBased struct {
	RoleID *int64
}

// RoundRobin targets the active user with the fewest leads ever assigned.
// RoleID optionally narrows the pool.
type RoundRobin struct {
	RoleID *int64
}

// LoadBalance targets the active user with the fewest pending leads plus
// due follow-ups. RoleID optionally narrows the pool.
type LoadBalance struct {
	RoleID *int64
}

func (SpecificUser) Type() AssignmentType { return AssignmentSpecificUser }
func (RoleBased) Type() AssignmentType    { return AssignmentRoleBased }
func (RoundRobin) Type() AssignmentType   { return AssignmentRoundRobin }
func (LoadBalance) Type() AssignmentType  { return AssignmentLoadBalance }

// Strategy maps the rule's stored tag and parameters to its variant.
func (r Rule) Strategy() (Strategy, error) {
	switch r.AssignmentType {
	case AssignmentSpecificUser:
		return SpecificUser{UserID: r.AssignedUserID}, nil
	case AssignmentRoleBased:
		return RoleBased{RoleID: r.AssignedRoleID}, nil
	case AssignmentRoundRobin:
		return RoundRobin{RoleID: r.AssignedRoleID}, nil
	case AssignmentLoadBalance:
		return LoadBalance{RoleID: r.AssignedRoleID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, r.AssignmentType)
	}
}

func (s SpecificUser) resolve(_ context.Context, _ *Resolver, _ int64) (int64, bool, error) {
	if s.UserID == nil {
		return 0, false, nil
	}
	return *s.UserID, true, nil
}

func (s RoleBased) resolve(ctx context.Context, r *Resolver, tenantID int64) (int64, bool, error) {
	if s.RoleID == nil {
		return 0, false, nil
	}
	pool, err := r.pool(ctx, tenantID, s.RoleID)
	if err != nil {
		return 0, false, err
	}
	if len(pool) == 0 {
		return 0, false, nil
	}
	return pool[0].ID, true, nil
}

func (s RoundRobin) resolve(ctx context.Context, r *Resolver, tenantID int64) (int64, bool, error) {
	return r.leastLoaded(ctx, tenantID, s.RoleID, MetricTotalAssigned)
}

func (s LoadBalance) resolve(ctx context.Context, r *Resolver, tenantID int64) (int64, bool, error) {
	return r.leastLoaded(ctx, tenantID, s.RoleID, MetricPending)
}
