package sparqlstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/store"
)

// SPARQLStore persists resources against a SPARQL endpoint through a
// Client.
type SPARQLStore struct {
	name     string
	client   Client
	registry *om.Registry
}

var _ store.Store = (*SPARQLStore)(nil)

// New creates a store over a client and a model registry.
func New(name string, client Client, reg *om.Registry) *SPARQLStore {
	return &SPARQLStore{name: name, client: client, registry: reg}
}

// Name implements store.Store.
func (s *SPARQLStore) Name() string { return s.name }

// Registry implements store.Store.
func (s *SPARQLStore) Registry() *om.Registry { return s.registry }

// Client returns the underlying SPARQL client.
func (s *SPARQLStore) Client() Client { return s.client }

// Exists implements store.Store. A resource exists when it has at least
// one triple as a subject.
func (s *SPARQLStore) Exists(ctx context.Context, iri quad.IRI) (bool, error) {
	sols, err := s.client.Select(ctx, existsQuery(iri))
	if err != nil {
		return false, fmt.Errorf("sparqlstore: existence check for %s: %w", iri, err)
	}
	return len(sols) > 0, nil
}

// Get implements store.Store. The resource subgraph is fetched by walking
// skolemized blank-node objects, plus the reverse triples of the root.
func (s *SPARQLStore) Get(ctx context.Context, iri quad.IRI) (*om.Resource, error) {
	quads, err := s.fetchSubgraph(ctx, iri)
	if err != nil {
		return nil, err
	}
	if len(quads) == 0 {
		if _, ok := s.registry.DefaultModel(); !ok {
			return nil, om.ErrNotFound{IRI: iri}
		}
	}
	return om.LoadResource(s.registry, iri, quads)
}

func (s *SPARQLStore) fetchSubgraph(ctx context.Context, iri quad.IRI) ([]quad.Quad, error) {
	var quads []quad.Quad
	visited := map[quad.IRI]bool{}
	queue := []quad.IRI{iri}
	for len(queue) > 0 {
		subj := queue[0]
		queue = queue[1:]
		if visited[subj] {
			continue
		}
		visited[subj] = true
		sols, err := s.client.Select(ctx, subgraphQuery(subj))
		if err != nil {
			return nil, fmt.Errorf("sparqlstore: subgraph query for %s: %w", subj, err)
		}
		for _, sol := range sols {
			p, ok := sol["p"].(quad.IRI)
			if !ok {
				continue
			}
			o := sol["o"]
			quads = append(quads, quad.Quad{Subject: subj, Predicate: p, Object: o})
			if oi, ok := o.(quad.IRI); ok && om.IsSkolemIRI(oi) && !visited[oi] {
				queue = append(queue, oi)
			}
		}
	}
	sols, err := s.client.Select(ctx, reverseQuery(iri))
	if err != nil {
		return nil, fmt.Errorf("sparqlstore: reverse query for %s: %w", iri, err)
	}
	for _, sol := range sols {
		subj, ok := sol["s"].(quad.IRI)
		if !ok {
			continue
		}
		p, ok := sol["p"].(quad.IRI)
		if !ok {
			continue
		}
		quads = append(quads, quad.Quad{Subject: subj, Predicate: p, Object: iri})
	}
	return quads, nil
}

// Filter implements store.Store.
func (s *SPARQLStore) Filter(ctx context.Context, f store.Filter) ([]*om.Resource, error) {
	var valueTriples []string
	if len(f.Values) > 0 {
		res, err := s.registry.Resolve(f.Types)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(f.Values))
		for name := range f.Values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			a, err := attributeByName(res.Models, name)
			if err != nil {
				return nil, err
			}
			terms, err := a.Terms(f.Values[name])
			if err != nil {
				return nil, err
			}
			for _, t := range terms {
				valueTriples = append(valueTriples, valueTriple(a, t))
			}
		}
	}
	sols, err := s.client.Select(ctx, filterQuery(f.Types, valueTriples, f.HashlessIRI, f.Limit))
	if err != nil {
		return nil, fmt.Errorf("sparqlstore: filter query: %w", err)
	}
	var out []*om.Resource
	for _, sol := range sols {
		iri, ok := sol["s"].(quad.IRI)
		if !ok {
			continue
		}
		r, err := s.Get(ctx, iri)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func attributeByName(models []*om.Model, name string) (*om.Attribute, error) {
	for _, m := range models {
		if a, ok := m.Attribute(name); ok {
			return a, nil
		}
	}
	return nil, om.ErrNoSuchAttribute{Name: name}
}

// Save implements store.Store. A temporary identity is promoted through
// the primary model's generator; uniqueness is checked immediately before
// the first persistence.
func (s *SPARQLStore) Save(ctx context.Context, r *om.Resource) error {
	if r.ID().IsTemporary() {
		m := r.PrimaryModel()
		if m == nil {
			return errors.New("sparqlstore: resource has no governing model")
		}
		hint := r.ID().Hint()
		hint.ClassIRI = m.ClassIRI()
		iri, err := m.IDGenerator().Generate(ctx, hint)
		if err != nil {
			return fmt.Errorf("sparqlstore: minting IRI: %w", err)
		}
		exists, err := s.Exists(ctx, iri)
		if err != nil {
			return err
		}
		if exists {
			return om.ErrUnique{IRI: iri}
		}
		if err := r.PromoteID(iri); err != nil {
			return err
		}
	} else if !r.IsPersisted() {
		exists, err := s.Exists(ctx, r.ID().IRI())
		if err != nil {
			return err
		}
		if exists {
			return om.ErrUnique{IRI: r.ID().IRI()}
		}
	}
	return s.flush(ctx, r)
}

// Delete implements store.Store.
func (s *SPARQLStore) Delete(ctx context.Context, r *om.Resource) error {
	if !r.IsDeleted() {
		if err := r.Delete(); err != nil {
			return err
		}
	}
	if r.ID().IsTemporary() {
		// never persisted; nothing to remove
		r.ReceiveStorageAck()
		return nil
	}
	return s.flush(ctx, r)
}

func (s *SPARQLStore) flush(ctx context.Context, r *om.Resource) error {
	diff, err := r.UpdateDiff()
	if err != nil {
		return err
	}
	if diff.Empty() {
		r.ReceiveStorageAck()
		return nil
	}
	if err := s.client.Update(ctx, updateText(diff)); err != nil {
		return fmt.Errorf("sparqlstore: update for %s: %w", r.ID().IRI(), err)
	}
	r.ReceiveStorageAck()
	return nil
}
