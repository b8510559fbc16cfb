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

// Package sparqlstore persists resources against a SPARQL endpoint: it
// builds SELECT/UPDATE text from resource diffs and reads subgraphs back
// into resources.
package sparqlstore

import (
	"context"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/knakk/rdf"
	"github.com/knakk/sparql"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oldman-go/oldman/voc/xsd"
)

// Solution is one SELECT result row.
type Solution = map[string]quad.Value

// Client executes SPARQL text against an endpoint. Existence checks are
// expressed as SELECT with LIMIT 1, so two operations suffice.
type Client interface {
	Select(ctx context.Context, query string) ([]Solution, error)
	Update(ctx context.Context, update string) error
}

// RepoClient adapts a knakk/sparql repository to the Client interface.
type RepoClient struct {
	repo *sparql.Repo
}

// NewRepoClient wraps an existing repository.
func NewRepoClient(repo *sparql.Repo) *RepoClient {
	return &RepoClient{repo: repo}
}

// DialRepo opens a repository against an endpoint URL.
func DialRepo(endpoint string, timeout time.Duration) (*RepoClient, error) {
	opts := []func(*sparql.Repo) error{}
	if timeout > 0 {
		opts = append(opts, sparql.Timeout(timeout))
	}
	repo, err := sparql.NewRepo(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &RepoClient{repo: repo}, nil
}

// Select implements Client.
func (c *RepoClient) Select(ctx context.Context, query string) ([]Solution, error) {
	timer := prometheus.NewTimer(queryLatency)
	res, err := c.repo.Query(query)
	timer.ObserveDuration()
	if err != nil {
		queryErrors.Inc()
		return nil, err
	}
	queries.Inc()
	rows := res.Solutions()
	out := make([]Solution, 0, len(rows))
	for _, row := range rows {
		sol := make(Solution, len(row))
		for name, term := range row {
			sol[name] = termToValue(term)
		}
		out = append(out, sol)
	}
	return out, nil
}

// Update implements Client.
func (c *RepoClient) Update(ctx context.Context, update string) error {
	timer := prometheus.NewTimer(updateLatency)
	err := c.repo.Update(update)
	timer.ObserveDuration()
	if err != nil {
		updateErrors.Inc()
		return err
	}
	updates.Inc()
	return nil
}

func termToValue(t rdf.Term) quad.Value {
	switch t := t.(type) {
	case rdf.IRI:
		return quad.IRI(t.String())
	case rdf.Blank:
		return quad.BNode(t.String())
	case rdf.Literal:
		if lang := t.Lang(); lang != "" {
			return quad.LangString{Value: quad.String(t.String()), Lang: lang}
		}
		dt := t.DataType.String()
		if dt == "" || dt == xsd.String {
			return quad.String(t.String())
		}
		return quad.TypedString{Value: quad.String(t.String()), Type: quad.IRI(dt)}
	}
	return nil
}
