package venue

import "fmt"

// Duel is an unordered pairing of two distinct venues being compared for
// arbitrage.
type Duel struct {
	A Venue
	B Venue
}

// Registry holds the active venues. The set is fixed at startup.
type Registry struct {
	byName map[string]Venue
	order  []Venue
}

// NewRegistry builds a registry from the given venues, rejecting duplicates.
func NewRegistry(venues ...Venue) (*Registry, error) {
	r := &Registry{byName: make(map[string]Venue, len(venues))}
	for _, v := range venues {
		_, dup := r.byName[v.Name()]
		if dup {
			return nil, fmt.Errorf("duplicate venue name %q", v.Name())
		}
		r.byName[v.Name()] = v
		r.order = append(r.order, v)
	}
	return r, nil
}

// Get resolves a venue by name.
func (r *Registry) Get(name string) (Venue, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// Venues returns all venues in registration order.
func (r *Registry) Venues() []Venue {
	return r.order
}

// Duels returns every unordered combination of two distinct venues, in a
// stable order derived from registration order.
func (r *Registry) Duels() []Duel {
	var duels []Duel
	for i := 0; i < len(r.order); i++ {
		for j := i + 1; j < len(r.order); j++ {
			duels = append(duels, Duel{A: r.order[i], B: r.order[j]})
		}
	}
	return duels
}
