package circuitbreaker

import (
	"sort"
	"sync"
)

// Group lazily creates one breaker per key (typically an upstream host),
// all sharing the same template configuration.
type Group struct {
	template Config
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewGroup returns a Group whose breakers are built from template.
// Each breaker is named "<template.Name>:<key>".
func NewGroup(template Config) *Group {
	return &Group{
		template: template,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Get returns the breaker for key, creating it on first use.
func (g *Group) Get(key string) *CircuitBreaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cb, ok := g.breakers[key]; ok {
		return cb
	}
	cfg := g.template
	cfg.Name = g.template.Name + ":" + key
	cb := New(cfg)
	g.breakers[key] = cb
	return cb
}

// Stats returns statistics for every breaker created so far, ordered by name.
func (g *Group) Stats() []Stats {
	g.mu.Lock()
	list := make([]*CircuitBreaker, 0, len(g.breakers))
	for _, cb := range g.breakers {
		list = append(list, cb)
	}
	g.mu.Unlock()

	stats := make([]Stats, 0, len(list))
	for _, cb := range list {
		stats = append(stats, cb.GetStats())
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}

// List reports the statistics of a fixed set of breakers.
type List []*CircuitBreaker

// Stats returns statistics for every non-nil breaker in the list.
func (l List) Stats() []Stats {
	stats := make([]Stats, 0, len(l))
	for _, cb := range l {
		if cb != nil {
			stats = append(stats, cb.GetStats())
		}
	}
	return stats
}
