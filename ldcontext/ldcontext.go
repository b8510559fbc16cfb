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

// Package ldcontext resolves JSON-LD context documents into per-term
// metadata used for attribute extraction.
//
// The heavy lifting (IRI expansion, keyword handling, remote context
// loading) is delegated to github.com/piprate/json-gold; this package only
// normalizes the resulting term definitions into a flat Term list.
package ldcontext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piprate/json-gold/ld"
)

// Container shapes a term may declare.
const (
	ContainerNone     = ""
	ContainerSet      = "@set"
	ContainerList     = "@list"
	ContainerLanguage = "@language"
	ContainerIndex    = "@index"
)

// Term is the normalized metadata of one JSON-LD term.
type Term struct {
	// Name is the short term name.
	Name string
	// IRI is the expanded property IRI the term maps to.
	IRI string
	// Type is the coerced datatype IRI, or "@id" for IRI-valued terms.
	// Empty when the term declares no type.
	Type string
	// Language is the default language tag, if any.
	Language string
	// Container is one of the Container* constants.
	Container string
	// Reversed reports whether the term was declared with @reverse.
	Reversed bool
}

// Resolver answers term lookups against a parsed JSON-LD context.
type Resolver interface {
	// TermsFor returns all terms whose expanded IRI equals the given
	// property IRI. Multiple terms per property are supported (e.g.
	// language-specific terms sharing one property).
	TermsFor(propIRI string) []Term
	// Payload returns the raw @context value, suitable for embedding in
	// a JSON-LD document.
	Payload() interface{}
}

// Context is a parsed JSON-LD context.
type Context struct {
	payload interface{}
	terms   []Term
	byIRI   map[string][]Term
}

var _ Resolver = (*Context)(nil)

// Parse resolves a JSON-LD context payload into a Context.
//
// The payload may be a context IRI (string), a document containing an
// "@context" key, the context value itself, or an array of any of these.
func Parse(payload interface{}) (*Context, error) {
	value, names, err := contextValue(payload, nil)
	if err != nil {
		return nil, err
	}
	opts := ld.NewJsonLdOptions("")
	active, err := ld.NewContext(nil, opts).Parse(value)
	if err != nil {
		return nil, fmt.Errorf("ldcontext: cannot parse context: %w", err)
	}
	c := &Context{
		payload: payload,
		byIRI:   make(map[string][]Term),
	}
	sort.Strings(names)
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		def := active.GetTermDefinition(name)
		if def == nil {
			continue
		}
		t := normalizeTerm(name, def)
		if t.IRI == "" {
			continue
		}
		c.terms = append(c.terms, t)
		c.byIRI[t.IRI] = append(c.byIRI[t.IRI], t)
	}
	return c, nil
}

// TermsFor implements Resolver.
func (c *Context) TermsFor(propIRI string) []Term {
	ts := c.byIRI[propIRI]
	out := make([]Term, len(ts))
	copy(out, ts)
	return out
}

// Payload implements Resolver.
func (c *Context) Payload() interface{} { return c.payload }

// Terms returns all terms declared by the context, sorted by name.
func (c *Context) Terms() []Term {
	out := make([]Term, len(c.terms))
	copy(out, c.terms)
	return out
}

// contextValue unwraps a context payload to the value json-gold expects and
// collects the term names it declares.
func contextValue(payload interface{}, names []string) (interface{}, []string, error) {
	switch v := payload.(type) {
	case nil:
		return nil, names, nil
	case string:
		doc, err := ld.NewDefaultDocumentLoader(nil).LoadDocument(v)
		if err != nil {
			return nil, nil, fmt.Errorf("ldcontext: cannot load %q: %w", v, err)
		}
		m, ok := doc.Document.(map[string]interface{})
		if !ok {
			return nil, nil, fmt.Errorf("ldcontext: remote context %q is not a JSON object", v)
		}
		return contextValue(m["@context"], names)
	case []interface{}:
		for _, e := range v {
			var err error
			if _, names, err = contextValue(e, names); err != nil {
				return nil, nil, err
			}
		}
		return v, names, nil
	case map[string]interface{}:
		if inner, ok := v["@context"]; ok {
			return contextValue(inner, names)
		}
		for k := range v {
			if strings.HasPrefix(k, "@") {
				continue
			}
			names = append(names, k)
		}
		return v, names, nil
	default:
		return nil, nil, fmt.Errorf("ldcontext: unsupported context payload type %T", payload)
	}
}

func normalizeTerm(name string, def map[string]interface{}) Term {
	t := Term{Name: name}
	t.IRI, _ = def["@id"].(string)
	t.Type = undefToEmpty(def["@type"])
	t.Language = undefToEmpty(def["@language"])
	switch cnt := def["@container"].(type) {
	case string:
		t.Container = cnt
	case []interface{}:
		for _, e := range cnt {
			if s, ok := e.(string); ok {
				t.Container = s
				break
			}
		}
	}
	if rev, ok := def["reverse"].(bool); ok {
		t.Reversed = rev
	} else if rev, ok := def["@reverse"].(bool); ok {
		t.Reversed = rev
	}
	return t
}

// undefToEmpty normalizes json-gold's null/UNDEF sentinel values to "".
func undefToEmpty(v interface{}) string {
	s, ok := v.(string)
	if !ok || s == "@null" {
		return ""
	}
	return s
}
