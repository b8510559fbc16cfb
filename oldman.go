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

// Package oldman provides convenience constructors over the mapper's
// moving parts: a model registry, a model builder bound to a schema
// graph, a store and the sessions that track resources against it.
package oldman

import (
	"context"
	"time"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/schema"
	"github.com/oldman-go/oldman/session"
	"github.com/oldman-go/oldman/store"
	"github.com/oldman-go/oldman/store/memstore"
	"github.com/oldman-go/oldman/store/sparqlstore"
	"github.com/oldman-go/oldman/values"
)

// Manager bundles one schema graph, one model registry and one default
// store behind a session factory.
type Manager struct {
	registry *om.Registry
	values   *values.Registry
	builder  *om.ModelBuilder
	schema   schema.Queryer
	selector *store.Selector
	cache    *session.ResourceCache
}

// NewManager assembles a manager over an explicit schema graph and
// default store. Pass a cache size of zero to disable resource caching.
func NewManager(schemaGraph schema.Queryer, def store.Store, cacheSize int) *Manager {
	vals := values.NewRegistry()
	m := &Manager{
		registry: def.Registry(),
		values:   vals,
		schema:   schemaGraph,
		selector: store.NewSelector(def),
	}
	m.builder = om.NewModelBuilder(m.registry, vals)
	if cacheSize > 0 {
		m.cache = session.NewResourceCache(cacheSize)
	}
	return m
}

// NewMemory returns a manager backed by a fresh in-memory triple store
// which doubles as the schema graph. Intended for tests and demos.
func NewMemory() (*Manager, *memstore.Graph) {
	reg := om.NewRegistry()
	g := memstore.New()
	st := sparqlstore.New("memory", g, reg)
	return NewManager(g, st, 0), g
}

// Dial connects to a SPARQL endpoint and returns a manager whose store
// and schema graph both live behind that endpoint.
func Dial(endpoint string, timeout time.Duration, cacheSize int) (*Manager, error) {
	client, err := sparqlstore.DialRepo(endpoint, timeout)
	if err != nil {
		return nil, err
	}
	reg := om.NewRegistry()
	st := sparqlstore.New("sparql", client, reg)
	return NewManager(client, st, cacheSize), nil
}

// Registry returns the model registry.
func (m *Manager) Registry() *om.Registry { return m.registry }

// Values returns the value format registry used by the model builder.
func (m *Manager) Values() *values.Registry { return m.values }

// Selector returns the store selector; additional stores can be routed
// in through AddRule.
func (m *Manager) Selector() *store.Selector { return m.selector }

// Cache returns the shared resource cache, or nil when caching is off.
func (m *Manager) Cache() *session.ResourceCache { return m.cache }

// RegisterModel builds a model against the schema graph and registers it.
func (m *Manager) RegisterModel(ctx context.Context, def om.ModelDefinition) (*om.Model, error) {
	return m.builder.BuildModel(ctx, m.schema, def)
}

// NewSession opens a fresh unit of work sharing the manager's cache.
func (m *Manager) NewSession() *session.Session {
	opts := []session.Option{}
	if m.cache != nil {
		opts = append(opts, session.WithCache(m.cache))
	}
	return session.New(m.selector, opts...)
}

// Get is a one-shot load through a throwaway session.
func (m *Manager) Get(ctx context.Context, iri quad.IRI) (*om.Resource, error) {
	return m.NewSession().Get(ctx, iri)
}
