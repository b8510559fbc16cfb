package om

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/clog"
)

// Resolution is the result of resolving a type set: the ordered leaf
// models governing a resource and the fully-expanded type list.
type Resolution struct {
	// Models are the leaf models, most specific first.
	Models []*Model
	// Types is leaf IRIs, then uncovered input IRIs, then leaf ancestry
	// IRIs, deduplicated in order.
	Types []quad.IRI
}

// Registry indexes models by class IRI and by name, and resolves the leaf
// models for arbitrary type sets with caching.
type Registry struct {
	mu           sync.RWMutex
	byIRI        map[quad.IRI]*Model
	byName       map[string]*Model
	defaultModel *Model
	cache        map[string]*Resolution
}

// NewRegistry returns an empty model registry.
func NewRegistry() *Registry {
	return &Registry{
		byIRI:  make(map[quad.IRI]*Model),
		byName: make(map[string]*Model),
		cache:  make(map[string]*Resolution),
	}
}

// Register adds a model. A model with an empty class IRI becomes the
// default model for untyped resources. Registration invalidates the whole
// resolution cache; it only happens at schema-load time.
func (r *Registry) Register(m *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[m.Name()]; dup {
		return fmt.Errorf("om: model named %q is already registered", m.Name())
	}
	if m.ClassIRI() == "" {
		if r.defaultModel != nil {
			return fmt.Errorf("om: a default model is already registered")
		}
		r.defaultModel = m
	} else {
		if _, dup := r.byIRI[m.ClassIRI()]; dup {
			return fmt.Errorf("om: a model for class %s is already registered", m.ClassIRI())
		}
		r.byIRI[m.ClassIRI()] = m
	}
	r.byName[m.Name()] = m
	r.cache = make(map[string]*Resolution)
	return nil
}

// Unregister removes a model and invalidates the resolution cache.
func (r *Registry) Unregister(m *Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byName, m.Name())
	if m.ClassIRI() == "" {
		if r.defaultModel == m {
			r.defaultModel = nil
		}
	} else if r.byIRI[m.ClassIRI()] == m {
		delete(r.byIRI, m.ClassIRI())
	}
	r.cache = make(map[string]*Resolution)
}

// ModelByIRI looks a model up by class IRI.
func (r *Registry) ModelByIRI(iri quad.IRI) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byIRI[iri]
	return m, ok
}

// ModelByName looks a model up by name.
func (r *Registry) ModelByName(name string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

// DefaultModel returns the model governing untyped resources.
func (r *Registry) DefaultModel() (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultModel, r.defaultModel != nil
}

// Models lists all registered models, default model included.
func (r *Registry) Models() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Model, 0, len(r.byName))
	for _, m := range r.byName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// freezeTypes produces the canonical cache key of a type set.
func freezeTypes(types []quad.IRI) string {
	set := make([]string, 0, len(types))
	seen := make(map[quad.IRI]bool, len(types))
	for _, t := range types {
		if !seen[t] {
			seen[t] = true
			set = append(set, string(t))
		}
	}
	sort.Strings(set)
	return strings.Join(set, "\x00")
}

// Resolve determines the ordered leaf models and the expanded type list
// for an arbitrary type set.
//
// An empty set resolves to the default model. When several unrelated leaf
// models apply, they are ordered by class IRI (a deterministic stand-in
// for an undefined semantic tie-break) and a warning is logged. Results
// are cached under both the input set and the expanded output set.
func (r *Registry) Resolve(types []quad.IRI) (*Resolution, error) {
	key := freezeTypes(types)
	r.mu.RLock()
	cached := r.cache[key]
	r.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached := r.cache[key]; cached != nil {
		return cached, nil
	}
	res, err := r.resolveLocked(types)
	if err != nil {
		return nil, err
	}
	r.cache[key] = res
	r.cache[freezeTypes(res.Types)] = res
	return res, nil
}

func (r *Registry) resolveLocked(types []quad.IRI) (*Resolution, error) {
	if len(types) == 0 {
		if r.defaultModel == nil {
			return nil, ErrNoDefaultModel
		}
		return &Resolution{Models: []*Model{r.defaultModel}}, nil
	}
	inSet := make(map[quad.IRI]bool, len(types))
	var ordered []quad.IRI
	for _, t := range types {
		if !inSet[t] {
			inSet[t] = true
			ordered = append(ordered, t)
		}
	}
	// A model is a leaf when none of its known descendant models' class
	// IRIs are also in the set.
	var leaves []*Model
	for _, t := range ordered {
		m, ok := r.byIRI[t]
		if !ok {
			continue
		}
		isLeaf := true
		for _, other := range r.byIRI {
			if other == m || !inSet[other.ClassIRI()] {
				continue
			}
			if other.IsSubclassOf(m) {
				isLeaf = false
				break
			}
		}
		if isLeaf {
			leaves = append(leaves, m)
		}
	}
	if len(leaves) == 0 {
		if r.defaultModel == nil {
			return nil, ErrNoLeafModel
		}
		leaves = []*Model{r.defaultModel}
	}
	if len(leaves) > 1 {
		sort.Slice(leaves, func(i, j int) bool { return leaves[i].ClassIRI() < leaves[j].ClassIRI() })
		names := make([]string, len(leaves))
		for i, m := range leaves {
			names[i] = m.Name()
		}
		clog.Warningf("multiple leaf models %v apply; ordering by class IRI", names)
	}

	covered := make(map[quad.IRI]bool)
	var out []quad.IRI
	add := func(iri quad.IRI) {
		if iri != "" && !covered[iri] {
			covered[iri] = true
			out = append(out, iri)
		}
	}
	for _, m := range leaves {
		add(m.ClassIRI())
	}
	leafAncestry := make(map[quad.IRI]bool)
	for _, m := range leaves {
		for _, iri := range m.Ancestry() {
			leafAncestry[iri] = true
		}
	}
	for _, t := range ordered {
		if !leafAncestry[t] {
			add(t)
		}
	}
	for _, m := range leaves {
		for _, iri := range m.Ancestry() {
			add(iri)
		}
	}
	return &Resolution{Models: leaves, Types: out}, nil
}
