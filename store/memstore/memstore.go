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

// Package memstore is an in-memory triple store speaking the restricted
// SPARQL subset the mapper emits: basic graph patterns with variables,
// REGEX filters, DISTINCT, LIMIT, DELETE/INSERT DATA and templated
// DELETE/INSERT/WHERE operations separated by ";". It backs tests, the
// demo CLI and schema graphs.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cayleygraph/quad"
)

type triple [3]quad.Value

func (t triple) key() string {
	return t[0].String() + " " + t[1].String() + " " + t[2].String()
}

// Graph is a mutable in-memory triple set. It is safe for concurrent use.
type Graph struct {
	mu      sync.RWMutex
	triples map[string]triple
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{triples: make(map[string]triple)}
}

// AddTriple inserts one triple.
func (g *Graph) AddTriple(s, p, o quad.Value) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t := triple{s, p, o}
	g.triples[t.key()] = t
}

// AddQuad inserts the triple part of a quad.
func (g *Graph) AddQuad(q quad.Quad) {
	g.AddTriple(q.Subject, q.Predicate, q.Object)
}

// HasTriple reports whether the exact triple is present.
func (g *Graph) HasTriple(s, p, o quad.Value) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.triples[triple{s, p, o}.key()]
	return ok
}

// Size returns the number of stored triples.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.triples)
}

// LoadText inserts ground triple lines (one "s p o ." statement per line).
func (g *Graph) LoadText(text string) error {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p, err := newParser(line)
		if err != nil {
			return err
		}
		pat, err := p.triplePattern()
		if err != nil {
			return err
		}
		g.AddTriple(pat[0].value, pat[1].value, pat[2].value)
	}
	return nil
}

// binding maps variable names to bound terms.
type binding map[string]quad.Value

func (b binding) clone() binding {
	out := make(binding, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Select implements the SPARQL client interface of the store adapters and
// the schema Queryer.
func (g *Graph) Select(ctx context.Context, query string) ([]map[string]quad.Value, error) {
	q, err := parseSelect(query)
	if err != nil {
		return nil, err
	}
	g.mu.RLock()
	bindings := g.evalBGP(q.patterns)
	g.mu.RUnlock()

	var out []map[string]quad.Value
	seen := make(map[string]bool)
	for _, b := range bindings {
		if !passFilters(b, q.filters) {
			continue
		}
		row := project(b, q.vars)
		if q.distinct {
			k := rowKey(row)
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		out = append(out, row)
		if q.limit > 0 && len(out) == q.limit {
			break
		}
	}
	return out, nil
}

// Update implements the SPARQL client interface of the store adapters.
// Operations execute sequentially; each templated operation computes all
// its removals and insertions against the pre-operation state before
// applying them.
func (g *Graph) Update(ctx context.Context, update string) error {
	ops, err := parseUpdate(update)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, op := range ops {
		for _, pat := range op.deleteData {
			delete(g.triples, triple{pat[0].value, pat[1].value, pat[2].value}.key())
		}
		for _, pat := range op.insertData {
			t := triple{pat[0].value, pat[1].value, pat[2].value}
			g.triples[t.key()] = t
		}
		if op.where == nil {
			continue
		}
		bindings := g.evalBGP(op.where)
		var removals, inserts []triple
		for _, b := range bindings {
			removals = append(removals, instantiate(op.deleteTmpl, b)...)
			inserts = append(inserts, instantiate(op.insertTmpl, b)...)
		}
		for _, t := range removals {
			delete(g.triples, t.key())
		}
		for _, t := range inserts {
			g.triples[t.key()] = t
		}
	}
	return nil
}

// evalBGP joins the patterns left to right. Callers hold at least a read
// lock.
func (g *Graph) evalBGP(patterns []pattern) []binding {
	bindings := []binding{{}}
	keys := make([]string, 0, len(g.triples))
	for k := range g.triples {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, pat := range patterns {
		var next []binding
		for _, b := range bindings {
			for _, k := range keys {
				t, ok := g.triples[k]
				if !ok {
					continue
				}
				if nb, ok := matchPattern(pat, t, b); ok {
					next = append(next, nb)
				}
			}
		}
		bindings = next
		if len(bindings) == 0 {
			break
		}
	}
	return bindings
}

func matchPattern(pat pattern, t triple, b binding) (binding, bool) {
	nb := b
	cloned := false
	for i := 0; i < 3; i++ {
		pt := pat[i]
		if !pt.isVar {
			if pt.value.String() != t[i].String() {
				return nil, false
			}
			continue
		}
		if bound, ok := nb[pt.name]; ok {
			if bound.String() != t[i].String() {
				return nil, false
			}
			continue
		}
		if !cloned {
			nb = b.clone()
			cloned = true
		}
		nb[pt.name] = t[i]
	}
	if !cloned {
		nb = b.clone()
	}
	return nb, true
}

func passFilters(b binding, filters []regexFilter) bool {
	for _, f := range filters {
		v, ok := b[f.varName]
		if !ok {
			return false
		}
		if !f.re.MatchString(plainString(v)) {
			return false
		}
	}
	return true
}

// plainString implements STR(): the IRI text or the literal lexical form.
func plainString(v quad.Value) string {
	switch v := v.(type) {
	case quad.IRI:
		return string(v)
	case quad.String:
		return string(v)
	case quad.TypedString:
		return string(v.Value)
	case quad.LangString:
		return string(v.Value)
	}
	return v.String()
}

func project(b binding, vars []string) map[string]quad.Value {
	if len(vars) == 0 {
		out := make(map[string]quad.Value, len(b))
		for k, v := range b {
			out[k] = v
		}
		return out
	}
	out := make(map[string]quad.Value, len(vars))
	for _, name := range vars {
		if v, ok := b[name]; ok {
			out[name] = v
		}
	}
	return out
}

func rowKey(row map[string]quad.Value) string {
	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(row[name].String())
		b.WriteString("\x00")
	}
	return b.String()
}

func instantiate(tmpl []pattern, b binding) []triple {
	var out []triple
	for _, pat := range tmpl {
		var t triple
		ok := true
		for i := 0; i < 3; i++ {
			if pat[i].isVar {
				v, bound := b[pat[i].name]
				if !bound {
					ok = false
					break
				}
				t[i] = v
			} else {
				t[i] = pat[i].value
			}
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}
