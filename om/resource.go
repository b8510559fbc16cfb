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

package om

import (
	"sort"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/voc/rdf"
)

// Resource is a mutable entity instance: an identity, a type set, the leaf
// models governing it, and one value entry per touched attribute.
type Resource struct {
	id          ID
	types       []quad.IRI
	formerTypes []quad.IRI
	models      []*Model
	entries     map[*Attribute]*Entry
	persisted   bool
	deleted     bool
}

// NewResource creates a fresh, unpersisted resource with a temporary
// identity.
func NewResource(reg *Registry, types []quad.IRI) (*Resource, error) {
	return NewResourceWithHint(reg, types, IDHint{})
}

// NewResourceWithHint creates a fresh resource whose temporary identity
// carries IRI-minting hints for later promotion.
func NewResourceWithHint(reg *Registry, types []quad.IRI, hint IDHint) (*Resource, error) {
	r, err := newResource(reg, types)
	if err != nil {
		return nil, err
	}
	r.id = NewTemporaryID(hint.SuggestedHashlessIRI, hint.Fragment, hint.Collection)
	return r, nil
}

// NewResourceWithIRI creates a fresh resource with an explicit permanent
// IRI. Uniqueness against the store is checked at first persistence.
func NewResourceWithIRI(reg *Registry, types []quad.IRI, iri quad.IRI) (*Resource, error) {
	r, err := newResource(reg, types)
	if err != nil {
		return nil, err
	}
	r.id, err = NewPermanentID(iri)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newResource(reg *Registry, types []quad.IRI) (*Resource, error) {
	res, err := reg.Resolve(types)
	if err != nil {
		return nil, err
	}
	return &Resource{
		types:   res.Types,
		models:  res.Models,
		entries: make(map[*Attribute]*Entry),
	}, nil
}

// NewResourceWithID creates a resource carrying an existing identity, used
// when cloning a resource across the client/store boundary.
func NewResourceWithID(reg *Registry, types []quad.IRI, id ID) (*Resource, error) {
	r, err := newResource(reg, types)
	if err != nil {
		return nil, err
	}
	r.id = id
	return r, nil
}

// LoadResource builds a resource from an RDF subgraph. All loaded entries
// are marked as already saved.
func LoadResource(reg *Registry, iri quad.IRI, quads []quad.Quad) (*Resource, error) {
	var types []quad.IRI
	for _, q := range quads {
		if q.Predicate == quad.Value(quad.IRI(rdf.Type)) && q.Subject == quad.Value(iri) {
			if t, ok := q.Object.(quad.IRI); ok {
				types = append(types, t)
			}
		}
	}
	r, err := newResource(reg, types)
	if err != nil {
		return nil, err
	}
	r.id, err = NewPermanentID(iri)
	if err != nil {
		return nil, err
	}
	for _, a := range r.allAttributes() {
		if err := a.ExtractFromQuads(r, quads); err != nil {
			return nil, err
		}
	}
	r.ReceiveStorageAck()
	return r, nil
}

// ID returns the resource identity.
func (r *Resource) ID() ID { return r.id }

// Types returns the current (expanded) type list.
func (r *Resource) Types() []quad.IRI {
	out := make([]quad.IRI, len(r.types))
	copy(out, r.types)
	return out
}

// FormerTypes returns the type list last acknowledged by the store.
func (r *Resource) FormerTypes() []quad.IRI {
	out := make([]quad.IRI, len(r.formerTypes))
	copy(out, r.formerTypes)
	return out
}

// Models returns the ordered leaf models governing the resource.
func (r *Resource) Models() []*Model {
	out := make([]*Model, len(r.models))
	copy(out, r.models)
	return out
}

// PrimaryModel returns the first (most specific) governing model.
func (r *Resource) PrimaryModel() *Model {
	if len(r.models) == 0 {
		return nil
	}
	return r.models[0]
}

// IsPersisted reports whether the resource has been stored at least once.
func (r *Resource) IsPersisted() bool { return r.persisted }

// IsDeleted reports whether Delete has been called.
func (r *Resource) IsDeleted() bool { return r.deleted }

// Attribute resolves an attribute by name across the governing models, in
// model order.
func (r *Resource) Attribute(name string) (*Attribute, error) {
	for _, m := range r.models {
		if a, ok := m.Attribute(name); ok {
			return a, nil
		}
	}
	return nil, ErrNoSuchAttribute{Name: name}
}

// allAttributes returns every attribute of every governing model,
// deduplicated, in model order.
func (r *Resource) allAttributes() []*Attribute {
	var out []*Attribute
	seen := make(map[*Attribute]bool)
	for _, m := range r.models {
		names := make([]string, 0, len(m.Attributes()))
		for n := range m.Attributes() {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			a := m.Attributes()[n]
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// Set assigns an attribute value by name.
func (r *Resource) Set(name string, v interface{}) error {
	a, err := r.Attribute(name)
	if err != nil {
		return err
	}
	return a.Set(r, v)
}

// Get reads an attribute value by name.
func (r *Resource) Get(name string) (interface{}, error) {
	a, err := r.Attribute(name)
	if err != nil {
		return nil, err
	}
	return a.Get(r)
}

// entryFor returns the entry owned by the resource for an attribute,
// creating it lazily.
func (r *Resource) entryFor(a *Attribute) *Entry {
	e, ok := r.entries[a]
	if !ok {
		e = NewEntry()
		r.entries[a] = e
	}
	return e
}

// EntrySnapshot returns an independent clone of the attribute's entry.
func (r *Resource) EntrySnapshot(a *Attribute) *Entry {
	return r.entryFor(a).Clone()
}

// RestoreEntry installs an entry for the attribute, replacing any existing
// one. The entry is adopted as-is; callers pass a clone when independence
// is needed.
func (r *Resource) RestoreEntry(a *Attribute, e *Entry) {
	r.entries[a] = e
}

// RestoreBaseline overwrites the committed baseline metadata, used when
// cloning a resource across the client/store boundary.
func (r *Resource) RestoreBaseline(formerTypes []quad.IRI, persisted bool) {
	r.formerTypes = append([]quad.IRI(nil), formerTypes...)
	r.persisted = persisted
}

// IsValid checks every attribute's read-only and required policies.
func (r *Resource) IsValid(isEndUser bool) error {
	for _, a := range r.allAttributes() {
		if err := a.CheckValidity(r, isEndUser); err != nil {
			return err
		}
	}
	return nil
}

// HasChanged reports whether a flush would produce any triples.
func (r *Resource) HasChanged() bool {
	if r.typesChanged() {
		return true
	}
	for _, e := range r.entries {
		if e.HasChanged() {
			return true
		}
	}
	return false
}

func (r *Resource) typesChanged() bool {
	if len(r.types) != len(r.formerTypes) {
		return true
	}
	former := make(map[quad.IRI]bool, len(r.formerTypes))
	for _, t := range r.formerTypes {
		former[t] = true
	}
	for _, t := range r.types {
		if !former[t] {
			return true
		}
	}
	return false
}

// Delete nulls every attribute value and drops the type set. The deletion
// triples are emitted by the next flush. Deleted is terminal.
func (r *Resource) Delete() error {
	if r.deleted {
		return ErrDeleted
	}
	for _, a := range r.allAttributes() {
		r.entryFor(a).SetCurrent(nil)
	}
	r.types = nil
	r.deleted = true
	return nil
}

// PromoteID replaces a temporary identity with the permanent IRI minted by
// the model's id generator. It happens exactly once.
func (r *Resource) PromoteID(iri quad.IRI) error {
	if !r.id.IsTemporary() {
		return ErrInvalidIRI{IRI: string(r.id.IRI())}
	}
	id, err := NewPermanentID(iri)
	if err != nil {
		return err
	}
	r.id = id
	return nil
}

// RewriteObjectIRIs replaces object-attribute values that reference
// promoted temporary IRIs. Used by the session when a dependency's id was
// minted before this resource flushes.
func (r *Resource) RewriteObjectIRIs(mapping map[quad.IRI]quad.IRI) {
	if len(mapping) == 0 {
		return
	}
	rewrite := func(v interface{}) (interface{}, bool) {
		s, ok := asIRIString(v)
		if !ok {
			return v, false
		}
		if repl, ok := mapping[quad.IRI(s)]; ok {
			return string(repl), true
		}
		return v, false
	}
	for _, a := range r.allAttributes() {
		if !a.IsObjectValued() {
			continue
		}
		e := r.entryFor(a)
		switch cur := e.current.(type) {
		case nil:
		case Set:
			changed := false
			out := make(Set, len(cur))
			for item := range cur {
				nv, ch := rewrite(item)
				changed = changed || ch
				out[nv] = true
			}
			if changed {
				e.current = out
			}
		case List:
			for i, item := range cur {
				if nv, ch := rewrite(item); ch {
					cur[i] = nv
				}
			}
		default:
			if nv, ch := rewrite(cur); ch {
				e.current = nv
			}
		}
	}
}

// ReplaceFromQuads overwrites every attribute value with the values found
// in an RDF subgraph, nulling attributes the subgraph does not mention.
// Used for full-document replacement.
func (r *Resource) ReplaceFromQuads(quads []quad.Quad) error {
	for _, a := range r.allAttributes() {
		if err := a.Set(r, nil); err != nil {
			return err
		}
		if err := a.ExtractFromQuads(r, quads); err != nil {
			return err
		}
	}
	return nil
}

// Diff is the set of pending changes of one resource, expressed as ground
// triple lines plus blank nodes to garbage-collect.
type Diff struct {
	Removals []string
	Inserts  []string
	// Cascade lists formerly-referenced skolemized blank nodes that are
	// no longer referenced and must be deleted recursively.
	Cascade []quad.IRI
}

// Empty reports whether the diff carries no work.
func (d *Diff) Empty() bool {
	return len(d.Removals) == 0 && len(d.Inserts) == 0 && len(d.Cascade) == 0
}

// UpdateDiff serializes all pending changes: per-attribute value diffs and
// the type-triple diff.
func (r *Resource) UpdateDiff() (*Diff, error) {
	d := &Diff{}
	for _, a := range r.allAttributes() {
		e := r.entryFor(a)
		if !e.HasChanged() {
			continue
		}
		rem, err := a.RemovalLines(r)
		if err != nil {
			return nil, err
		}
		ins, err := a.InsertionLines(r)
		if err != nil {
			return nil, err
		}
		d.Removals = append(d.Removals, rem...)
		d.Inserts = append(d.Inserts, ins...)
		d.Cascade = append(d.Cascade, a.DroppedBlankNodes(r)...)
	}
	id := r.id.IRI()
	current := make(map[quad.IRI]bool, len(r.types))
	for _, t := range r.types {
		current[t] = true
	}
	former := make(map[quad.IRI]bool, len(r.formerTypes))
	for _, t := range r.formerTypes {
		former[t] = true
		if !current[t] {
			d.Removals = append(d.Removals, tripleLine(id, quad.IRI(rdf.Type), t))
		}
	}
	for _, t := range r.types {
		if !former[t] {
			d.Inserts = append(d.Inserts, tripleLine(id, quad.IRI(rdf.Type), t))
		}
	}
	return d, nil
}

// ReceiveStorageAck promotes every entry's current value to the committed
// baseline once the store confirmed the batch.
func (r *Resource) ReceiveStorageAck() {
	for _, e := range r.entries {
		e.ReceiveStorageAck()
	}
	r.formerTypes = append([]quad.IRI(nil), r.types...)
	r.persisted = true
}
