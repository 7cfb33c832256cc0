package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadrouter/pkg/logger"
)

// Router assigns inbound leads to sales agents.
//
// Evaluation order:
//  1. Load the lead (tenant scoped)
//  2. Load active rules, highest priority first
//  3. First rule whose conditions match wins; later rules are never tried,
//     even when the winner resolves to no candidate
//  4. Resolve the winner's strategy to a user id
//  5. Persist the assignee (the only write)
//
// Rules with malformed conditions are skipped with a warning.
type Router struct {
	Leads    LeadStore
	Rules    RuleStore
	Resolver *Resolver

	// Conditions caches parsed predicates; nil parses on every evaluation.
	Conditions *ConditionCache

	// Locker, when set, serializes read-evaluate-write per tenant.
	Locker TenantLocker

	// Audit records persisted assignments. Best effort.
	Audit AssignmentAuditor

	Metrics Observer

	Now func() time.Time
}

// Observer receives routing outcomes for metrics.
type Observer interface {
	ObserveRouting(outcome string, took time.Duration)
}

const outcomeError = "error"

func NewRouter(leads LeadStore, rules RuleStore, users UserStore, followups FollowupStore) *Router {
	return &Router{
		Leads:      leads,
		Rules:      rules,
		Resolver:   NewResolver(users, NewCalculator(leads, followups)),
		Conditions: NewConditionCache(defaultConditionCacheSize),
		Now:        time.Now,
	}
}

// RouteLead assigns the lead per the first matching rule and returns it.
// Without a match or a candidate the lead is returned unchanged.
// A failed assignee write is returned as is.
func (rt *Router) RouteLead(ctx context.Context, leadID, tenantID int64) (Lead, error) {
	if leadID <= 0 || tenantID <= 0 {
		return Lead{}, ErrInvalidArgument
	}
	start := rt.now()

	if rt.Locker != nil {
		unlock, err := rt.Locker.Lock(ctx, tenantID)
		if err != nil {
			rt.observe(outcomeError, start)
			return Lead{}, err
		}
		defer unlock()
	}

	lead, d, err := rt.decide(ctx, leadID, tenantID)
	if err != nil {
		rt.observe(outcomeError, start)
		return Lead{}, err
	}
	if d.Outcome != OutcomeAssigned {
		rt.observe(string(d.Outcome), start)
		return lead, nil
	}

	updated, err := rt.Leads.SetAssignee(ctx, lead.ID, tenantID, *d.UserID)
	if err != nil {
		rt.observe(outcomeError, start)
		return Lead{}, err
	}

	logger.From(ctx).Info("lead assigned",
		"tenant_id", tenantID,
		"lead_id", lead.ID,
		"rule_id", *d.RuleID,
		"strategy", d.Strategy,
		"user_id", *d.UserID,
	)
	rt.audit(ctx, lead, d)
	rt.observe(string(d.Outcome), start)
	return updated, nil
}

// Preview evaluates the lead without persisting anything.
func (rt *Router) Preview(ctx context.Context, leadID, tenantID int64) (Decision, error) {
	if leadID <= 0 || tenantID <= 0 {
		return Decision{}, ErrInvalidArgument
	}
	_, d, err := rt.decide(ctx, leadID, tenantID)
	return d, err
}

func (rt *Router) decide(ctx context.Context, leadID, tenantID int64) (Lead, Decision, error) {
	if rt.Leads == nil || rt.Rules == nil || rt.Resolver == nil {
		return Lead{}, Decision{}, errors.New("routing: router not configured")
	}

	lead, err := rt.Leads.GetByID(ctx, leadID, tenantID)
	if err != nil {
		return Lead{}, Decision{}, err
	}

	rules, err := rt.Rules.ListActive(ctx, tenantID)
	if err != nil {
		return Lead{}, Decision{}, fmt.Errorf("routing: list rules: %w", err)
	}

	log := logger.From(ctx)
	d := Decision{TenantID: tenantID, LeadID: lead.ID, Outcome: OutcomeNoMatch}

	// rules arrive active and in evaluation order
	for _, rule := range rules {
		conds, err := rt.Conditions.Parse(rule.Conditions)
		if err != nil {
			log.Warn("routing rule skipped: malformed conditions",
				"tenant_id", tenantID, "rule_id", rule.ID, "err", err)
			continue
		}
		if !Matches(lead, conds) {
			continue
		}

		ruleID := rule.ID
		d.RuleID = &ruleID
		d.Strategy = rule.AssignmentType
		d.Outcome = OutcomeNoCandidate

		userID, ok, err := rt.Resolver.Resolve(ctx, rule, tenantID)
		if err != nil {
			if errors.Is(err, ErrUnknownStrategy) {
				log.Warn("routing rule matched with unknown strategy",
					"tenant_id", tenantID, "rule_id", rule.ID, "strategy", rule.AssignmentType)
				return lead, d, nil
			}
			return Lead{}, Decision{}, err
		}
		if ok {
			d.UserID = &userID
			d.Outcome = OutcomeAssigned
		}
		return lead, d, nil
	}

	return lead, d, nil
}

func (rt *Router) audit(ctx context.Context, lead Lead, d Decision) {
	if rt.Audit == nil {
		return
	}
	err := rt.Audit.LogAssignment(ctx, AssignmentEvent{
		TenantID:       d.TenantID,
		LeadID:         lead.ID,
		RuleID:         *d.RuleID,
		Strategy:       d.Strategy,
		PreviousUserID: lead.AssignedUserID,
		UserID:         *d.UserID,
		AssignedAt:     rt.now(),
	})
	if err != nil {
		logger.From(ctx).Warn("assignment audit failed", "lead_id", lead.ID, "err", err)
	}
}

func (rt *Router) observe(outcome string, start time.Time) {
	if rt.Metrics == nil {
		return
	}
	rt.Metrics.ObserveRouting(outcome, rt.now().Sub(start))
}

func (rt *Router) now() time.Time {
	if rt.Now == nil {
		return time.Now()
	}
	return rt.Now()
}
