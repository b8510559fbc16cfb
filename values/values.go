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

// Package values implements the value format registry: per-datatype
// validators and converters between native Go values and RDF literals.
package values

import (
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/voc/foaf"
	"github.com/oldman-go/oldman/voc/schemaorg"
	"github.com/oldman-go/oldman/voc/xsd"
)

// ErrFormat reports a native value that fails a format's well-formedness
// check.
type ErrFormat struct {
	Value interface{}
	Want  string
}

func (e ErrFormat) Error() string {
	return fmt.Sprintf("invalid value %v (%T): expected %s", e.Value, e.Value, e.Want)
}

// Format validates native values and converts them to and from RDF literal
// form.
type Format interface {
	// Datatype returns the primary datatype IRI of the format, or an
	// empty string for the permissive any-format.
	Datatype() string
	// CheckValue verifies the well-formedness of a native value. It
	// returns an ErrFormat on a bad shape.
	CheckValue(v interface{}) error
	// ToLiteral converts a checked native value to an RDF term.
	ToLiteral(v interface{}) (quad.Value, error)
	// FromLiteral converts an RDF term to a native value.
	FromLiteral(v quad.Value) (interface{}, error)
}

// Registry resolves a Format for an attribute. Special-property overrides
// take precedence over datatype lookup, which takes precedence over the
// object-property IRI format, which takes precedence over the permissive
// any-format.
type Registry struct {
	byProperty map[string]Format
	byDatatype map[string]Format
	iri        Format
	any        Format
}

// NewRegistry returns a registry pre-populated with the built-in formats
// and the foaf:mbox / schema:email overrides.
func NewRegistry() *Registry {
	r := &Registry{
		byProperty: make(map[string]Format),
		byDatatype: make(map[string]Format),
		iri:        IRIFormat{},
		any:        AnyFormat{},
	}
	for _, f := range []Format{
		StringFormat{},
		BooleanFormat{},
		dateFormat{datatype: xsd.Date, layout: "2006-01-02"},
		dateFormat{datatype: xsd.DateTime, layout: "2006-01-02T15:04:05Z07:00"},
		dateFormat{datatype: xsd.Time, layout: "15:04:05"},
		HexBinaryFormat{},
		floatFormat{datatype: xsd.Double},
		floatFormat{datatype: xsd.Float},
		floatFormat{datatype: xsd.Decimal},
		intFormat{datatype: xsd.Integer},
		intFormat{datatype: xsd.Int},
		intFormat{datatype: xsd.Long},
		intFormat{datatype: xsd.Short},
		intFormat{datatype: xsd.Byte},
		intFormat{datatype: xsd.PositiveInteger, min: i64(1)},
		intFormat{datatype: xsd.NegativeInteger, max: i64(-1)},
		intFormat{datatype: xsd.NonNegativeInteger, min: i64(0)},
		intFormat{datatype: xsd.NonPositiveInteger, max: i64(0)},
		intFormat{datatype: xsd.UnsignedLong, min: i64(0)},
		intFormat{datatype: xsd.UnsignedInt, min: i64(0)},
		intFormat{datatype: xsd.UnsignedShort, min: i64(0)},
		intFormat{datatype: xsd.UnsignedByte, min: i64(0)},
	} {
		r.RegisterDatatype(f.Datatype(), f)
	}
	r.RegisterProperty(foaf.Mbox, EmailFormat{Mailto: true})
	r.RegisterProperty(schemaorg.Email, EmailFormat{})
	return r
}

// RegisterDatatype binds a format to a datatype IRI.
func (r *Registry) RegisterDatatype(iri string, f Format) {
	r.byDatatype[iri] = f
}

// RegisterProperty binds a format override to a property IRI.
func (r *Registry) RegisterProperty(iri string, f Format) {
	r.byProperty[iri] = f
}

// Find resolves the format for an attribute.
//
// The property IRI is consulted first for overrides, then the declared
// datatype, then the object-property IRI format, and finally the
// permissive any-format.
func (r *Registry) Find(propertyIRI, datatype string, objectProperty bool) Format {
	if f, ok := r.byProperty[propertyIRI]; ok {
		return f
	}
	if datatype != "" && datatype != "@id" {
		if f, ok := r.byDatatype[datatype]; ok {
			return f
		}
	}
	if objectProperty || datatype == "@id" {
		return r.iri
	}
	return r.any
}

// Any returns the permissive format.
func (r *Registry) Any() Format { return r.any }

// IRI returns the raw IRI format.
func (r *Registry) IRI() Format { return r.iri }

func i64(v int64) *int64 { return &v }
