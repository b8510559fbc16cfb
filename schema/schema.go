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

// Package schema extracts class ancestry and supported-property
// descriptions from an RDF schema graph.
//
// The schema graph is only consumed through the Queryer interface, so any
// SPARQL-capable collaborator (a remote endpoint, the in-memory store) can
// back it.
package schema

import (
	"context"

	"github.com/cayleygraph/quad"
)

// Solution is one row of a SPARQL SELECT result: variable name to bound
// term. It is an alias so that any client returning the underlying map
// shape satisfies Queryer.
type Solution = map[string]quad.Value

// Queryer executes SPARQL SELECT queries against a read-only graph.
type Queryer interface {
	Select(ctx context.Context, query string) ([]Solution, error)
}
