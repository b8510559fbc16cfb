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

// Package om implements the object-linked-data mapping core: models,
// attributes, resources and their persistence diffing.
package om

import (
	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/ldcontext"
)

// Attribute names reserved for resource-level accessors.
var reservedNames = map[string]bool{
	"id":           true,
	"hashless_iri": true,
	"types":        true,
	"_types":       true,
}

// Model is the resolved, immutable descriptor of one RDF class: its IRI,
// ancestry, attributes, JSON-LD context, id-generation policy and attached
// operations. A Model with an empty class IRI is the untyped default model.
type Model struct {
	name        string
	classIRI    quad.IRI
	ancestry    []quad.IRI // bottom-up, including self
	context     ldcontext.Resolver
	attributes  map[string]*Attribute
	idGenerator IDGenerator
	operations  map[string]*Operation
	hasReversed bool
}

// NewModel constructs a model. Construction fails atomically on a reserved
// attribute name; no partial model is ever produced.
func NewModel(name string, classIRI quad.IRI, ancestry []quad.IRI, context ldcontext.Resolver,
	attributes map[string]*Attribute, idGen IDGenerator, operations map[string]*Operation) (*Model, error) {
	for attrName := range attributes {
		if reservedNames[attrName] {
			return nil, ErrReservedName{Name: attrName}
		}
	}
	m := &Model{
		name:        name,
		classIRI:    classIRI,
		ancestry:    append([]quad.IRI(nil), ancestry...),
		context:     context,
		attributes:  make(map[string]*Attribute, len(attributes)),
		idGenerator: idGen,
		operations:  make(map[string]*Operation, len(operations)),
	}
	if len(m.ancestry) == 0 && classIRI != "" {
		m.ancestry = []quad.IRI{classIRI}
	}
	for n, a := range attributes {
		m.attributes[n] = a
		if a.Reversed() {
			m.hasReversed = true
		}
	}
	for method, op := range operations {
		m.operations[method] = op
	}
	return m, nil
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// ClassIRI returns the class IRI, empty for the default model.
func (m *Model) ClassIRI() quad.IRI { return m.classIRI }

// Ancestry returns the bottom-up class linearization, including the class
// itself.
func (m *Model) Ancestry() []quad.IRI {
	out := make([]quad.IRI, len(m.ancestry))
	copy(out, m.ancestry)
	return out
}

// Context returns the model's JSON-LD context resolver.
func (m *Model) Context() ldcontext.Resolver { return m.context }

// Attribute looks up an attribute by name.
func (m *Model) Attribute(name string) (*Attribute, bool) {
	a, ok := m.attributes[name]
	return a, ok
}

// Attributes returns the name-to-attribute mapping. The returned map must
// not be mutated.
func (m *Model) Attributes() map[string]*Attribute { return m.attributes }

// IDGenerator returns the model's IRI minting policy.
func (m *Model) IDGenerator() IDGenerator { return m.idGenerator }

// Operation returns the operation registered for an HTTP method.
func (m *Model) Operation(method string) (*Operation, bool) {
	op, ok := m.operations[method]
	return op, ok
}

// HasReversedAttributes reports whether any attribute is declared with
// @reverse.
func (m *Model) HasReversedAttributes() bool { return m.hasReversed }

// IsSubclassOf is reflexive and otherwise checks ancestry membership.
func (m *Model) IsSubclassOf(other *Model) bool {
	if m == other {
		return true
	}
	if other == nil || other.classIRI == "" {
		return false
	}
	for _, iri := range m.ancestry {
		if iri == other.classIRI {
			return true
		}
	}
	return false
}
