package store

import "github.com/cayleygraph/quad"

// Criteria describes one routed operation: the resource IRI and/or its
// types.
type Criteria struct {
	IRI   quad.IRI
	Types []quad.IRI
}

// Rule routes matching criteria to a specific store.
type Rule struct {
	Match func(Criteria) bool
	Store Store
}

// Selector picks the backing store for an operation. The common deployment
// registers a single default store; rules are the multi-store extension
// point.
type Selector struct {
	def   Store
	rules []Rule
}

// NewSelector returns a selector with a default store.
func NewSelector(def Store) *Selector {
	return &Selector{def: def}
}

// AddRule appends a routing rule. Rules are evaluated in insertion order
// before falling back to the default store.
func (s *Selector) AddRule(r Rule) { s.rules = append(s.rules, r) }

// Select resolves the store for the criteria.
func (s *Selector) Select(c Criteria) (Store, error) {
	for _, r := range s.rules {
		if r.Match(c) {
			return r.Store, nil
		}
	}
	if s.def == nil {
		return nil, ErrNoStore
	}
	return s.def, nil
}

// Default returns the default store.
func (s *Selector) Default() Store { return s.def }
