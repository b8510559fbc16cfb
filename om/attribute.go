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
	"fmt"
	"sort"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/ldcontext"
	"github.com/oldman-go/oldman/schema"
	"github.com/oldman-go/oldman/values"
	"github.com/oldman-go/oldman/voc/rdf"
)

// ErrWriteOnly reports a read of a write-only attribute.
type ErrWriteOnly struct {
	Attribute string
}

func (e ErrWriteOnly) Error() string {
	return fmt.Sprintf("om: attribute %q is write-only", e.Attribute)
}

// PropertyGroup links the attributes sharing one underlying property, so a
// required property is satisfied when any sibling attribute has a value.
type PropertyGroup struct {
	Property quad.IRI
	Required bool
	attrs    []*Attribute
}

// HasValue reports whether any attribute of the group has a value on the
// resource.
func (g *PropertyGroup) HasValue(r *Resource) bool {
	for _, a := range g.attrs {
		if a.HasValue(r) {
			return true
		}
	}
	return false
}

// Attribute is the per-(model, name) runtime enforcing policy, container
// shape and value format, and serializing values to and from RDF.
type Attribute struct {
	name      string
	property  quad.IRI
	readOnly  bool
	writeOnly bool
	language  string
	valueType string
	container string
	reversed  bool
	object    bool
	format    values.Format
	group     *PropertyGroup
}

// NewAttribute builds an attribute from extracted metadata and a resolved
// value format. All attributes generated from one property must share the
// same group.
func NewAttribute(md schema.AttributeMetadata, format values.Format, group *PropertyGroup) *Attribute {
	p := md.Property
	a := &Attribute{
		name:      md.Name,
		property:  p.IRI(),
		readOnly:  p.ReadOnly(),
		writeOnly: p.WriteOnly(),
		language:  md.Language,
		valueType: md.ValueType,
		container: md.Container,
		reversed:  md.Reversed,
		object:    p.Type() == schema.ObjectProperty || md.ValueType == "@id",
		format:    format,
		group:     group,
	}
	group.attrs = append(group.attrs, a)
	return a
}

func (a *Attribute) Name() string           { return a.name }
func (a *Attribute) PropertyIRI() quad.IRI  { return a.property }
func (a *Attribute) Required() bool         { return a.group.Required }
func (a *Attribute) ReadOnly() bool         { return a.readOnly }
func (a *Attribute) WriteOnly() bool        { return a.writeOnly }
func (a *Attribute) Language() string       { return a.language }
func (a *Attribute) Container() string      { return a.container }
func (a *Attribute) Reversed() bool         { return a.reversed }
func (a *Attribute) IsObjectValued() bool   { return a.object }
func (a *Attribute) Group() *PropertyGroup  { return a.group }
func (a *Attribute) Format() values.Format  { return a.format }

// NormalizeValue checks the container shape and per-item format of a value
// and normalizes empty containers to nil.
func (a *Attribute) NormalizeValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch a.container {
	case ldcontext.ContainerList:
		l, ok := v.(List)
		if !ok {
			return nil, ErrContainer{Attribute: a.name, Container: a.container, Value: v}
		}
		if len(l) == 0 {
			return nil, nil
		}
		for _, item := range l {
			if err := a.checkItem(item); err != nil {
				return nil, err
			}
		}
	case ldcontext.ContainerSet:
		s, ok := v.(Set)
		if !ok {
			return nil, ErrContainer{Attribute: a.name, Container: a.container, Value: v}
		}
		if len(s) == 0 {
			return nil, nil
		}
		for item := range s {
			if err := a.checkItem(item); err != nil {
				return nil, err
			}
		}
	case ldcontext.ContainerLanguage:
		m, ok := v.(LangMap)
		if !ok {
			return nil, ErrContainer{Attribute: a.name, Container: a.container, Value: v}
		}
		if len(m) == 0 {
			return nil, nil
		}
		for lang, item := range m {
			if lang == "" {
				return nil, ErrContainer{Attribute: a.name, Container: a.container, Value: v}
			}
			if _, ok := item.(string); !ok {
				return nil, values.ErrFormat{Value: item, Want: "string"}
			}
		}
	default:
		// No declared container: a single value or a set, never a list.
		switch v := v.(type) {
		case List, LangMap:
			return nil, ErrContainer{Attribute: a.name, Value: v}
		case Set:
			if len(v) == 0 {
				return nil, nil
			}
			for item := range v {
				if err := a.checkItem(item); err != nil {
					return nil, err
				}
			}
		default:
			if err := a.checkItem(v); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

func (a *Attribute) checkItem(v interface{}) error {
	if a.language != "" || a.container == ldcontext.ContainerLanguage {
		if _, ok := v.(string); !ok {
			return values.ErrFormat{Value: v, Want: "string"}
		}
		return nil
	}
	return a.format.CheckValue(v)
}

// Set assigns a new value on the resource after validation.
func (a *Attribute) Set(r *Resource, v interface{}) error {
	if r.deleted {
		return ErrDeleted
	}
	nv, err := a.NormalizeValue(v)
	if err != nil {
		return err
	}
	r.entryFor(a).SetCurrent(nv)
	return nil
}

// Get returns the current value on the resource.
func (a *Attribute) Get(r *Resource) (interface{}, error) {
	if r.deleted {
		return nil, ErrDeleted
	}
	if a.writeOnly {
		return nil, ErrWriteOnly{Attribute: a.name}
	}
	return r.entryFor(a).Current(), nil
}

// HasValue reports whether the resource has a non-nil current value.
func (a *Attribute) HasValue(r *Resource) bool {
	return r.entryFor(a).current != nil
}

// HasChanged reports whether the resource has an uncommitted change on
// this attribute.
func (a *Attribute) HasChanged(r *Resource) bool {
	return r.entryFor(a).HasChanged()
}

// CheckValidity verifies the read-only and required policies for the
// resource. Read-only violations are only flagged for end-user edits, and
// only when the new value actually differs from the committed one.
func (a *Attribute) CheckValidity(r *Resource, isEndUser bool) error {
	e := r.entryFor(a)
	if a.readOnly && isEndUser && e.HasChanged() {
		return ErrReadOnly{Attribute: a.name}
	}
	if a.group.Required && !a.group.HasValue(r) {
		return ErrRequired{Attribute: a.name, Property: a.property}
	}
	return nil
}

func tripleLine(s quad.Value, p quad.IRI, o quad.Value) string {
	return s.String() + " " + p.String() + " " + o.String() + " ."
}

// term converts one native item to its RDF term.
func (a *Attribute) term(v interface{}) (quad.Value, error) {
	if a.language != "" {
		s, ok := v.(string)
		if !ok {
			return nil, values.ErrFormat{Value: v, Want: "string"}
		}
		return quad.LangString{Value: quad.String(s), Lang: a.language}, nil
	}
	return a.format.ToLiteral(v)
}

// valueTerms flattens a (non-list) value into a deterministic term slice.
func (a *Attribute) valueTerms(v interface{}) ([]quad.Value, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case Set:
		out := make([]quad.Value, 0, len(v))
		for item := range v {
			t, err := a.term(item)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
		return out, nil
	case LangMap:
		langs := make([]string, 0, len(v))
		for lang := range v {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		out := make([]quad.Value, 0, len(v))
		for _, lang := range langs {
			out = append(out, quad.LangString{Value: quad.String(v[lang].(string)), Lang: lang})
		}
		return out, nil
	default:
		t, err := a.term(v)
		if err != nil {
			return nil, err
		}
		return []quad.Value{t}, nil
	}
}

// Terms converts a native (non-list) value to its RDF terms, in a
// deterministic order. Used by stores building value-restriction patterns.
func (a *Attribute) Terms(v interface{}) ([]quad.Value, error) {
	return a.valueTerms(v)
}

// edgeLine emits the subject-property-object line, honoring @reverse.
func (a *Attribute) edgeLine(subject quad.IRI, o quad.Value) string {
	if a.reversed {
		return tripleLine(o, a.property, subject)
	}
	return tripleLine(quad.Value(subject), a.property, o)
}

// RemovalLines serializes the committed value into the triple lines that a
// flush must delete. For "@list" values the persisted cons cells are
// removed wholesale.
func (a *Attribute) RemovalLines(r *Resource) ([]string, error) {
	e := r.entryFor(a)
	if e.former == nil {
		return nil, nil
	}
	subject := r.id.IRI()
	if l, ok := e.former.(List); ok {
		return a.listLines(subject, l, e.formerCells)
	}
	terms, err := a.valueTerms(e.former)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(terms))
	for _, t := range terms {
		lines = append(lines, a.edgeLine(subject, t))
	}
	return lines, nil
}

// InsertionLines serializes the current value into the triple lines that a
// flush must insert. "@list" values materialize a fresh RDF list with
// newly minted skolemized cons cells; the cells are remembered on the
// entry so a later rewrite can remove them.
func (a *Attribute) InsertionLines(r *Resource) ([]string, error) {
	e := r.entryFor(a)
	if e.current == nil {
		return nil, nil
	}
	subject := r.id.IRI()
	if l, ok := e.current.(List); ok {
		cells := make([]quad.IRI, len(l))
		for i := range l {
			cells[i] = NewSkolemIRI()
		}
		e.pendingCells = cells
		return a.listLines(subject, l, cells)
	}
	terms, err := a.valueTerms(e.current)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(terms))
	for _, t := range terms {
		lines = append(lines, a.edgeLine(subject, t))
	}
	return lines, nil
}

// listLines emits the full RDF list structure for the given cons cells.
func (a *Attribute) listLines(subject quad.IRI, l List, cells []quad.IRI) ([]string, error) {
	if len(cells) != len(l) {
		return nil, fmt.Errorf("om: attribute %q: list has %d items but %d cells", a.name, len(l), len(cells))
	}
	if len(l) == 0 {
		return nil, nil
	}
	lines := make([]string, 0, 2*len(l)+1)
	lines = append(lines, a.edgeLine(subject, cells[0]))
	for i, item := range l {
		t, err := a.term(item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, tripleLine(cells[i], quad.IRI(rdf.First), t))
		rest := quad.Value(quad.IRI(rdf.Nil))
		if i < len(l)-1 {
			rest = cells[i+1]
		}
		lines = append(lines, tripleLine(cells[i], quad.IRI(rdf.Rest), rest))
	}
	return lines, nil
}

// DroppedBlankNodes returns formerly-referenced skolemized blank nodes no
// longer referenced by the current value. They are garbage-collected at
// flush time.
func (a *Attribute) DroppedBlankNodes(r *Resource) []quad.IRI {
	if !a.object {
		return nil
	}
	e := r.entryFor(a)
	current := make(map[string]bool)
	for _, v := range flatten(e.current) {
		if s, ok := asIRIString(v); ok {
			current[s] = true
		}
	}
	var out []quad.IRI
	for _, v := range flatten(e.former) {
		s, ok := asIRIString(v)
		if !ok || current[s] {
			continue
		}
		if iri := quad.IRI(s); IsSkolemIRI(iri) {
			out = append(out, iri)
		}
	}
	return out
}

func flatten(v interface{}) []interface{} {
	switch v := v.(type) {
	case nil:
		return nil
	case Set:
		out := make([]interface{}, 0, len(v))
		for item := range v {
			out = append(out, item)
		}
		return out
	case List:
		return []interface{}(v)
	case LangMap:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			out = append(out, item)
		}
		return out
	default:
		return []interface{}{v}
	}
}

func asIRIString(v interface{}) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case quad.IRI:
		return string(v), true
	}
	return "", false
}

// ExtractFromQuads reads the attribute's value out of an RDF subgraph and
// stores it as the current value. The caller acknowledges entries once the
// whole resource is loaded.
func (a *Attribute) ExtractFromQuads(r *Resource, quads []quad.Quad) error {
	id := r.id.IRI()
	var objects []quad.Value
	for _, q := range quads {
		p, ok := q.Predicate.(quad.IRI)
		if !ok || p != a.property {
			continue
		}
		if a.reversed {
			if o, ok := q.Object.(quad.IRI); ok && o == id {
				objects = append(objects, q.Subject)
			}
		} else if s, ok := q.Subject.(quad.IRI); ok && s == id {
			objects = append(objects, q.Object)
		}
	}
	if len(objects) == 0 {
		return nil
	}
	e := r.entryFor(a)
	switch a.container {
	case ldcontext.ContainerList:
		items, cells, err := a.readList(objects[0], quads)
		if err != nil {
			return err
		}
		e.SetCurrent(items)
		e.pendingCells = cells
		return nil
	case ldcontext.ContainerLanguage:
		m := make(LangMap)
		for _, o := range objects {
			if ls, ok := o.(quad.LangString); ok {
				m[ls.Lang] = string(ls.Value)
			}
		}
		if len(m) > 0 {
			e.SetCurrent(m)
		}
		return nil
	}
	var items []interface{}
	for _, o := range objects {
		v, err := a.fromTerm(o)
		if err != nil {
			continue // not for this attribute (e.g. other language tag)
		}
		items = append(items, v)
	}
	switch {
	case len(items) == 0:
		return nil
	case a.container == ldcontext.ContainerSet || len(items) > 1:
		e.SetCurrent(NewSet(items...))
	default:
		e.SetCurrent(items[0])
	}
	return nil
}

func (a *Attribute) fromTerm(o quad.Value) (interface{}, error) {
	if a.language != "" {
		ls, ok := o.(quad.LangString)
		if !ok || ls.Lang != a.language {
			return nil, values.ErrFormat{Value: o, Want: "@" + a.language + " literal"}
		}
		return string(ls.Value), nil
	}
	return a.format.FromLiteral(o)
}

// readList walks rdf:first/rdf:rest from the head cell.
func (a *Attribute) readList(head quad.Value, quads []quad.Quad) (List, []quad.IRI, error) {
	first := make(map[quad.Value]quad.Value)
	rest := make(map[quad.Value]quad.Value)
	for _, q := range quads {
		switch q.Predicate {
		case quad.Value(quad.IRI(rdf.First)):
			first[q.Subject] = q.Object
		case quad.Value(quad.IRI(rdf.Rest)):
			rest[q.Subject] = q.Object
		}
	}
	var (
		items List
		cells []quad.IRI
	)
	for cell := head; cell != quad.Value(quad.IRI(rdf.Nil)); {
		iri, ok := cell.(quad.IRI)
		if !ok {
			return nil, nil, fmt.Errorf("om: attribute %q: malformed RDF list", a.name)
		}
		item, ok := first[cell]
		if !ok {
			return nil, nil, fmt.Errorf("om: attribute %q: RDF list cell %s has no rdf:first", a.name, iri)
		}
		v, err := a.fromTerm(item)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, v)
		cells = append(cells, iri)
		next, ok := rest[cell]
		if !ok {
			return nil, nil, fmt.Errorf("om: attribute %q: RDF list cell %s has no rdf:rest", a.name, iri)
		}
		cell = next
	}
	return items, cells, nil
}
