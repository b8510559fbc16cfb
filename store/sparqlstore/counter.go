package sparqlstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/voc/oldm"
)

// IncrementalGenerator mints sequential IRIs per class using a counter
// kept in the store. The increment is a store-side atomic
// DELETE/INSERT/WHERE guarded by a client mutex; correctness across
// processes depends on the store's transaction isolation.
type IncrementalGenerator struct {
	Prefix   string
	Fragment string

	client Client
	mu     sync.Mutex
}

var _ om.IDGenerator = (*IncrementalGenerator)(nil)

// NewIncrementalGenerator builds a generator minting IRIs under the given
// prefix.
func NewIncrementalGenerator(client Client, prefix, fragment string) *IncrementalGenerator {
	return &IncrementalGenerator{Prefix: prefix, Fragment: fragment, client: client}
}

// Generate implements om.IDGenerator.
func (g *IncrementalGenerator) Generate(ctx context.Context, hint om.IDHint) (quad.IRI, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	subject := counterSubject(hint.ClassIRI)
	n, err := g.next(ctx, subject)
	if err != nil {
		return "", err
	}
	iri := g.Prefix + strconv.FormatInt(n, 10)
	frag := g.Fragment
	if hint.Fragment != "" {
		frag = hint.Fragment
	}
	if frag != "" {
		iri += "#" + frag
	}
	if err := om.CheckIRI(iri); err != nil {
		return "", err
	}
	return quad.IRI(iri), nil
}

func counterSubject(class quad.IRI) quad.IRI {
	if class == "" {
		return quad.IRI(oldm.NS + "defaultCounter")
	}
	return class
}

func (g *IncrementalGenerator) next(ctx context.Context, subject quad.IRI) (int64, error) {
	cur, found, err := g.read(ctx, subject)
	if err != nil {
		return 0, err
	}
	if !found {
		if err := g.client.Update(ctx, fmt.Sprintf(
			"INSERT DATA { %s <%s> %s . }", subject, oldm.NextNumber, quad.Int(2).String())); err != nil {
			return 0, fmt.Errorf("sparqlstore: counter init for %s: %w", subject, err)
		}
		return 1, nil
	}
	if err := g.client.Update(ctx, fmt.Sprintf(
		"DELETE { %s <%s> %s . } INSERT { %s <%s> %s . } WHERE { %s <%s> %s . }",
		subject, oldm.NextNumber, quad.Int(cur).String(),
		subject, oldm.NextNumber, quad.Int(cur+1).String(),
		subject, oldm.NextNumber, quad.Int(cur).String())); err != nil {
		return 0, fmt.Errorf("sparqlstore: counter increment for %s: %w", subject, err)
	}
	return cur, nil
}

func (g *IncrementalGenerator) read(ctx context.Context, subject quad.IRI) (int64, bool, error) {
	sols, err := g.client.Select(ctx, fmt.Sprintf(
		"SELECT ?n WHERE { %s <%s> ?n . }", subject, oldm.NextNumber))
	if err != nil {
		return 0, false, fmt.Errorf("sparqlstore: counter read for %s: %w", subject, err)
	}
	for _, sol := range sols {
		switch v := sol["n"].(type) {
		case quad.Int:
			return int64(v), true, nil
		case quad.TypedString:
			n, err := strconv.ParseInt(string(v.Value), 10, 64)
			if err == nil {
				return n, true, nil
			}
		}
	}
	return 0, false, nil
}
