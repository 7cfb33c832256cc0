package routing

import "sync"

const defaultConditionCacheSize = 1024

// ConditionCache memoizes ParseConditions by stored text.
//
// Parse failures are cached too: the same text always fails the same way.
// When the cache is full it is cleared rather than evicting piecemeal.
type ConditionCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]parsedConditions
}

type parsedConditions struct {
	conditions Conditions
	err        error
}

func NewConditionCache(max int) *ConditionCache {
	if max <= 0 {
		max = defaultConditionCacheSize
	}
	return &ConditionCache{max: max, entries: make(map[string]parsedConditions, max)}
}

// Parse returns the parsed conditions for raw. A nil cache parses every time.
func (c *ConditionCache) Parse(raw string) (Conditions, error) {
	if c == nil {
		return ParseConditions(raw)
	}

	c.mu.Lock()
	if p, ok := c.entries[raw]; ok {
		c.mu.Unlock()
		return p.conditions, p.err
	}
	c.mu.Unlock()

	conds, err := ParseConditions(raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		c.entries = make(map[string]parsedConditions, c.max)
	}
	c.entries[raw] = parsedConditions{conditions: conds, err: err}
	return conds, err
}

// Len returns the number of cached entries.
func (c *ConditionCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
