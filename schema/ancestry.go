package schema

import (
	"context"
	"fmt"
	"sort"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/clog"
	"github.com/oldman-go/oldman/voc/oldm"
	"github.com/oldman-go/oldman/voc/rdfs"
)

// ClassAncestry is the resolved superclass linearization of one class.
// It is immutable once built.
type ClassAncestry struct {
	child    quad.IRI
	bottomUp []quad.IRI
	parents  map[quad.IRI][]quad.IRI
}

// Child returns the class the ancestry was resolved for.
func (a *ClassAncestry) Child() quad.IRI { return a.child }

// BottomUp returns the linearization starting at the class itself, each
// ancestor appearing exactly once.
func (a *ClassAncestry) BottomUp() []quad.IRI {
	out := make([]quad.IRI, len(a.bottomUp))
	copy(out, a.bottomUp)
	return out
}

// TopDown returns the reverse of BottomUp.
func (a *ClassAncestry) TopDown() []quad.IRI {
	out := make([]quad.IRI, len(a.bottomUp))
	for i, c := range a.bottomUp {
		out[len(out)-1-i] = c
	}
	return out
}

// Parents returns the ordered direct parents of a class in the ancestry.
func (a *ClassAncestry) Parents(class quad.IRI) []quad.IRI {
	ps := a.parents[class]
	out := make([]quad.IRI, len(ps))
	copy(out, ps)
	return out
}

type parentEdge struct {
	parent      quad.IRI
	priority    int64
	hasPriority bool
}

// ResolveAncestry computes the ancestry of a class against a schema graph.
//
// Only direct rdfs:subClassOf edges are kept: an edge to a parent reachable
// through another parent is discarded. Multiple direct parents are ordered
// by descending declared priority; parents without a declared priority sort
// last. Ambiguous orders between same-priority siblings fall back to a
// lexicographic order and log a warning.
//
// An empty child IRI yields an empty ancestry (the untyped default model).
func ResolveAncestry(ctx context.Context, g Queryer, child quad.IRI) (*ClassAncestry, error) {
	a := &ClassAncestry{child: child, parents: make(map[quad.IRI][]quad.IRI)}
	if child == "" {
		return a, nil
	}
	edges := make(map[quad.IRI][]parentEdge)
	if err := collectEdges(ctx, g, child, edges); err != nil {
		return nil, err
	}
	// Transitive ancestor sets, used by the no-intermediate filter.
	above := make(map[quad.IRI]map[quad.IRI]bool)
	var ancestorsOf func(c quad.IRI, seen map[quad.IRI]bool) map[quad.IRI]bool
	ancestorsOf = func(c quad.IRI, seen map[quad.IRI]bool) map[quad.IRI]bool {
		if got, ok := above[c]; ok {
			return got
		}
		if seen[c] {
			return nil // cycle in the schema graph; treat as no ancestors
		}
		seen[c] = true
		set := make(map[quad.IRI]bool)
		for _, e := range edges[c] {
			set[e.parent] = true
			for p := range ancestorsOf(e.parent, seen) {
				set[p] = true
			}
		}
		above[c] = set
		return set
	}
	for c := range edges {
		ancestorsOf(c, make(map[quad.IRI]bool))
	}
	for c, es := range edges {
		a.parents[c] = orderParents(c, minimalEdges(es, above))
	}
	// Width-first traversal from the child yields a deterministic
	// linearization with no duplicates, even for diamonds.
	seen := map[quad.IRI]bool{child: true}
	a.bottomUp = append(a.bottomUp, child)
	queue := []quad.IRI{child}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, p := range a.parents[c] {
			if seen[p] {
				continue
			}
			seen[p] = true
			a.bottomUp = append(a.bottomUp, p)
			queue = append(queue, p)
		}
	}
	return a, nil
}

// collectEdges walks rdfs:subClassOf edges width-first from the child,
// gathering direct parents and their declared priorities.
func collectEdges(ctx context.Context, g Queryer, child quad.IRI, edges map[quad.IRI][]parentEdge) error {
	queue := []quad.IRI{child}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if _, ok := edges[c]; ok {
			continue
		}
		sols, err := g.Select(ctx, fmt.Sprintf(
			"SELECT ?parent WHERE { %s <%s> ?parent . }", c, rdfs.SubClassOf))
		if err != nil {
			return fmt.Errorf("schema: ancestry query for %s: %w", c, err)
		}
		prios, err := classPriorities(ctx, g, c)
		if err != nil {
			return err
		}
		es := edges[c]
		if es == nil {
			es = []parentEdge{}
		}
		for _, sol := range sols {
			p, ok := sol["parent"].(quad.IRI)
			if !ok {
				continue
			}
			e := parentEdge{parent: p}
			if prio, ok := prios[p]; ok {
				e.priority, e.hasPriority = prio, true
			}
			es = append(es, e)
			queue = append(queue, p)
		}
		edges[c] = es
	}
	return nil
}

func classPriorities(ctx context.Context, g Queryer, c quad.IRI) (map[quad.IRI]int64, error) {
	sols, err := g.Select(ctx, fmt.Sprintf(
		"SELECT ?parent ?priority WHERE { ?a <%s> %s . ?a <%s> ?parent . ?a <%s> ?priority . }",
		oldm.ChildClass, c, oldm.ParentClass, oldm.Priority))
	if err != nil {
		return nil, fmt.Errorf("schema: priority query for %s: %w", c, err)
	}
	out := make(map[quad.IRI]int64, len(sols))
	for _, sol := range sols {
		p, ok := sol["parent"].(quad.IRI)
		if !ok {
			continue
		}
		switch v := sol["priority"].(type) {
		case quad.Int:
			out[p] = int64(v)
		case quad.TypedString:
			var n int64
			if _, err := fmt.Sscanf(string(v.Value), "%d", &n); err == nil {
				out[p] = n
			}
		}
	}
	return out, nil
}

// minimalEdges drops any parent reachable through a sibling parent, keeping
// only direct superclass edges.
func minimalEdges(es []parentEdge, above map[quad.IRI]map[quad.IRI]bool) []parentEdge {
	out := make([]parentEdge, 0, len(es))
	for _, e := range es {
		redundant := false
		for _, other := range es {
			if other.parent != e.parent && above[other.parent][e.parent] {
				redundant = true
				break
			}
		}
		if !redundant {
			out = append(out, e)
		}
	}
	return out
}

func orderParents(c quad.IRI, es []parentEdge) []quad.IRI {
	sort.SliceStable(es, func(i, j int) bool {
		pi, pj := es[i], es[j]
		if pi.hasPriority != pj.hasPriority {
			return pi.hasPriority
		}
		if pi.hasPriority && pi.priority != pj.priority {
			return pi.priority > pj.priority
		}
		return pi.parent < pj.parent
	})
	ambiguous := false
	for i := 1; i < len(es); i++ {
		if es[i].hasPriority == es[i-1].hasPriority &&
			(!es[i].hasPriority || es[i].priority == es[i-1].priority) {
			ambiguous = true
			break
		}
	}
	if ambiguous {
		clog.Warningf("ambiguous parent order for %s; falling back to lexicographic order", c)
	}
	out := make([]quad.IRI, len(es))
	for i, e := range es {
		out[i] = e.parent
	}
	return out
}
