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

// Package store defines the persistence boundary for resources: the Store
// interface, routing between stores, and resource conversion across the
// client/store boundary.
package store

import (
	"context"
	"errors"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/om"
)

// ErrNoStore reports that no store matched a routing criteria.
var ErrNoStore = errors.New("store: no store selected")

// Filter describes a search for resources: type restrictions, attribute
// value restrictions (native values, resolved against the governing
// models) and an optional hashless-IRI restriction grouping the resources
// of one logical document.
type Filter struct {
	Types       []quad.IRI
	Values      map[string]interface{}
	HashlessIRI string
	Limit       int
}

// Store is a backing triple store exposed through resource-level
// operations. Save promotes temporary identities, checks IRI uniqueness on
// first persistence and acknowledges the resource on success; validation
// is the caller's concern.
type Store interface {
	Name() string
	Registry() *om.Registry
	Exists(ctx context.Context, iri quad.IRI) (bool, error)
	Get(ctx context.Context, iri quad.IRI) (*om.Resource, error)
	Filter(ctx context.Context, f Filter) ([]*om.Resource, error)
	Save(ctx context.Context, r *om.Resource) error
	Delete(ctx context.Context, r *om.Resource) error
}
