// Copyright 2025 The OldMan Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package session implements the unit-of-work layer: a process-local
// identity map of resources, deferred deletions, reference tracking and
// dependency-ordered flushing through the store boundary.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/store"
)

// Session is one unit of work. It is not safe for concurrent use; each
// session serves a single caller, and concurrency hazards exist only
// across sessions sharing one store.
type Session struct {
	selector *store.Selector
	conv     *store.ConversionManager
	cache    *ResourceCache

	mu        sync.Mutex
	resources map[quad.IRI]*om.Resource
	order     []*om.Resource
	toDelete  map[quad.IRI]*om.Resource
	bySubject map[*om.Resource][]*Reference
	byObject  map[quad.IRI][]*Reference
}

// Option configures a session.
type Option func(*Session)

// WithCache plugs a resource cache into the session.
func WithCache(c *ResourceCache) Option {
	return func(s *Session) { s.cache = c }
}

// WithConversion installs a conversion manager for stores whose models
// differ from the client models.
func WithConversion(m *store.ConversionManager) Option {
	return func(s *Session) { s.conv = m }
}

// New opens a session over a store selector.
func New(selector *store.Selector, opts ...Option) *Session {
	s := &Session{
		selector:  selector,
		conv:      store.NewConversionManager(),
		resources: make(map[quad.IRI]*om.Resource),
		toDelete:  make(map[quad.IRI]*om.Resource),
		bySubject: make(map[*om.Resource][]*Reference),
		byObject:  make(map[quad.IRI][]*Reference),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) registry() *om.Registry {
	return s.selector.Default().Registry()
}

// NewResource creates and tracks a fresh resource with a temporary
// identity.
func (s *Session) NewResource(types []quad.IRI, hint om.IDHint) (*om.Resource, error) {
	r, err := om.NewResourceWithHint(s.registry(), types, hint)
	if err != nil {
		return nil, err
	}
	return r, s.Add(r)
}

// NewResourceWithIRI creates and tracks a fresh resource with an explicit
// IRI. Uniqueness against the store is checked at flush.
func (s *Session) NewResourceWithIRI(types []quad.IRI, iri quad.IRI) (*om.Resource, error) {
	r, err := om.NewResourceWithIRI(s.registry(), types, iri)
	if err != nil {
		return nil, err
	}
	return r, s.Add(r)
}

// Add registers a resource in the identity map.
func (s *Session) Add(r *om.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	iri := r.ID().IRI()
	if existing, ok := s.resources[iri]; ok && existing != r {
		return fmt.Errorf("session: a different resource with IRI %s is already tracked", iri)
	}
	if _, ok := s.resources[iri]; !ok {
		s.resources[iri] = r
		s.order = append(s.order, r)
	}
	return nil
}

// Find returns the tracked resource for an IRI without touching the store.
func (s *Session) Find(iri quad.IRI) (*om.Resource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[iri]
	return r, ok
}

// Get returns the resource for an IRI: the tracked instance, then the
// cache, then the routed store.
func (s *Session) Get(ctx context.Context, iri quad.IRI) (*om.Resource, error) {
	if r, ok := s.Find(iri); ok {
		return r, nil
	}
	if s.cache != nil {
		if r, ok := s.cache.Get(iri); ok {
			return r, s.Add(r)
		}
	}
	st, err := s.selector.Select(store.Criteria{IRI: iri})
	if err != nil {
		return nil, err
	}
	r, err := st.Get(ctx, iri)
	if err != nil {
		return nil, err
	}
	if err := s.Add(r); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Put(r)
	}
	return r, nil
}

// GetAs loads a resource and checks it against the named model: the
// resource must be governed by that model or one of its subclasses.
func (s *Session) GetAs(ctx context.Context, iri quad.IRI, modelName string) (*om.Resource, error) {
	m, ok := s.registry().ModelByName(modelName)
	if !ok {
		return nil, fmt.Errorf("session: no model named %q", modelName)
	}
	r, err := s.Get(ctx, iri)
	if err != nil {
		return nil, err
	}
	for _, gm := range r.Models() {
		if gm.IsSubclassOf(m) {
			return r, nil
		}
	}
	return nil, om.ErrWrongType{IRI: iri, Expected: []quad.IRI{m.ClassIRI()}}
}

// Filter searches the routed store and tracks the results. A result
// already tracked under the same IRI yields the tracked instance.
func (s *Session) Filter(ctx context.Context, f store.Filter) ([]*om.Resource, error) {
	st, err := s.selector.Select(store.Criteria{Types: f.Types})
	if err != nil {
		return nil, err
	}
	found, err := st.Filter(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*om.Resource, 0, len(found))
	for _, r := range found {
		if tracked, ok := s.Find(r.ID().IRI()); ok {
			out = append(out, tracked)
			continue
		}
		if err := s.Add(r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Delete marks a resource for deletion. The removal is deferred until
// Flush; the to-delete set is cleared only after the store confirms.
func (s *Session) Delete(r *om.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toDelete[r.ID().IRI()] = r
}

// SetObject assigns an object-valued attribute and tracks the reference
// edge.
func (s *Session) SetObject(subject *om.Resource, attribute string, object *om.Resource) error {
	if err := subject.Set(attribute, string(object.ID().IRI())); err != nil {
		return err
	}
	s.RegisterReference(subject, attribute, object.ID().IRI())
	return nil
}

// RegisterReference tracks one subject-attribute-object edge.
func (s *Session) RegisterReference(subject *om.Resource, attribute string, object quad.IRI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := &Reference{Subject: subject, AttributeName: attribute, ObjectIRI: object}
	s.bySubject[subject] = append(s.bySubject[subject], ref)
	s.byObject[object] = append(s.byObject[object], ref)
}

// Referrers answers a reverse-attribute lookup from the tracked edges,
// without a store round-trip.
func (s *Session) Referrers(object quad.IRI) []*Reference {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Reference, len(s.byObject[object]))
	copy(out, s.byObject[object])
	return out
}

// References returns the tracked outgoing edges of a subject.
func (s *Session) References(subject *om.Resource) []*Reference {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Reference, len(s.bySubject[subject]))
	copy(out, s.bySubject[subject])
	return out
}

// Flush validates and persists every changed resource in dependency order,
// then executes the deferred deletions.
func (s *Session) Flush(ctx context.Context) error {
	return s.flush(ctx, false)
}

// FlushAsEndUser is Flush with end-user validation, rejecting read-only
// edits.
func (s *Session) FlushAsEndUser(ctx context.Context) error {
	return s.flush(ctx, true)
}

func (s *Session) flush(ctx context.Context, isEndUser bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*om.Resource
	for _, r := range s.order {
		if _, doomed := s.toDelete[r.ID().IRI()]; doomed {
			continue
		}
		if r.HasChanged() {
			pending = append(pending, r)
		}
	}
	for _, r := range pending {
		if err := r.IsValid(isEndUser); err != nil {
			return err
		}
	}

	ordered := s.orderForFlush(pending)
	promoted := make(map[quad.IRI]quad.IRI)
	for _, r := range ordered {
		r.RewriteObjectIRIs(promoted)
		oldIRI := r.ID().IRI()
		wasTemporary := r.ID().IsTemporary()
		st, err := s.selector.Select(store.Criteria{IRI: oldIRI, Types: r.Types()})
		if err != nil {
			return err
		}
		stored, err := s.conv.ToStore(r, st.Registry())
		if err != nil {
			return err
		}
		if err := st.Save(ctx, stored); err != nil {
			return err
		}
		if err := s.conv.AckFromStore(r, stored); err != nil {
			return err
		}
		if newIRI := r.ID().IRI(); wasTemporary && newIRI != oldIRI {
			promoted[oldIRI] = newIRI
			delete(s.resources, oldIRI)
			s.resources[newIRI] = r
		}
		if s.cache != nil {
			s.cache.Put(r)
		}
	}

	iris := make([]quad.IRI, 0, len(s.toDelete))
	for iri := range s.toDelete {
		iris = append(iris, iri)
	}
	sort.Slice(iris, func(i, j int) bool { return iris[i] < iris[j] })
	for _, iri := range iris {
		r := s.toDelete[iri]
		st, err := s.selector.Select(store.Criteria{IRI: iri})
		if err != nil {
			return err
		}
		if err := st.Delete(ctx, r); err != nil {
			return err
		}
		delete(s.toDelete, iri)
		delete(s.resources, iri)
		if s.cache != nil {
			s.cache.Invalidate(iri)
		}
	}
	return nil
}
