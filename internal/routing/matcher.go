package routing

import "github.com/shopspring/decimal"

// Matches reports whether lead satisfies every condition that is set.
//
// Price bounds: the lead's floor must be at or above the rule's floor and the
// lead's ceiling at or below the rule's ceiling. A lead without a price is
// compared as zero. Area conditions pass when any preferred area qualifies;
// a lead without preferred areas fails all of them.
func Matches(lead Lead, c Conditions) bool {
	if c.ActivitySourceID != nil {
		if lead.ActivitySourceID == nil || *lead.ActivitySourceID != *c.ActivitySourceID {
			return false
		}
	}
	if c.PropertyType != nil && lead.PropertyType != *c.PropertyType {
		return false
	}
	if c.InterestType != nil && lead.InterestType != *c.InterestType {
		return false
	}

	if c.MinPrice != nil && priceOrZero(lead.MinPrice).LessThan(*c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && priceOrZero(lead.MaxPrice).GreaterThan(*c.MaxPrice) {
		return false
	}

	if len(c.AreaIDs) > 0 {
		wanted := make(map[int64]struct{}, len(c.AreaIDs))
		for _, id := range c.AreaIDs {
			wanted[id] = struct{}{}
		}
		if !anyArea(lead, func(a Area) bool {
			_, ok := wanted[a.ID]
			return ok
		}) {
			return false
		}
	}
	if c.City != nil && !anyArea(lead, func(a Area) bool { return a.State.Name == *c.City }) {
		return false
	}
	if c.StateID != nil && !anyArea(lead, func(a Area) bool { return a.State.ID == *c.StateID }) {
		return false
	}

	return true
}

func anyArea(lead Lead, pred func(Area) bool) bool {
	for _, a := range lead.PreferredAreas {
		if pred(a) {
			return true
		}
	}
	return false
}

func priceOrZero(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}
