package session

import (
	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/clog"
	"github.com/oldman-go/oldman/om"
)

// orderForFlush sorts pending resources so that a resource referencing a
// not-yet-persisted resource flushes after its dependency. On a dependency
// cycle the sort is impossible; the session falls back to insertion order
// and warns, because temporary-ID resolution may then be inconsistent.
// Callers hold s.mu.
func (s *Session) orderForFlush(pending []*om.Resource) []*om.Resource {
	if len(pending) < 2 {
		return pending
	}
	inPending := make(map[*om.Resource]bool, len(pending))
	for _, r := range pending {
		inPending[r] = true
	}

	deps := make(map[*om.Resource]map[*om.Resource]bool, len(pending))
	addDep := func(subject *om.Resource, objectIRI quad.IRI) {
		target, ok := s.resources[objectIRI]
		if !ok || target == subject || !inPending[target] || !target.ID().IsTemporary() {
			return
		}
		set := deps[subject]
		if set == nil {
			set = make(map[*om.Resource]bool)
			deps[subject] = set
		}
		set[target] = true
	}
	for _, r := range pending {
		for _, ref := range s.bySubject[r] {
			addDep(r, ref.ObjectIRI)
		}
		for _, iri := range referencedIRIs(r) {
			addDep(r, iri)
		}
	}

	// Kahn's algorithm, dependencies first. Iteration over the pending
	// slice keeps the output deterministic.
	indegree := make(map[*om.Resource]int, len(pending))
	dependents := make(map[*om.Resource][]*om.Resource)
	for _, r := range pending {
		indegree[r] = len(deps[r])
	}
	for r, set := range deps {
		for target := range set {
			dependents[target] = append(dependents[target], r)
		}
	}
	var ordered []*om.Resource
	queue := make([]*om.Resource, 0, len(pending))
	for _, r := range pending {
		if indegree[r] == 0 {
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		ordered = append(ordered, r)
		for _, d := range dependents[r] {
			indegree[d]--
			if indegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	if len(ordered) < len(pending) {
		clog.Warningf("cyclic resource dependencies at flush; flushing unordered, temporary-ID resolution may be inconsistent")
		return pending
	}
	return ordered
}

// referencedIRIs collects the object IRIs held by a resource's
// object-valued attributes.
func referencedIRIs(r *om.Resource) []quad.IRI {
	var out []quad.IRI
	for _, m := range r.Models() {
		for _, a := range m.Attributes() {
			if !a.IsObjectValued() {
				continue
			}
			cur := r.EntrySnapshot(a).Current()
			switch v := cur.(type) {
			case nil:
			case om.Set:
				for item := range v {
					if iri, ok := asIRI(item); ok {
						out = append(out, iri)
					}
				}
			case om.List:
				for _, item := range v {
					if iri, ok := asIRI(item); ok {
						out = append(out, iri)
					}
				}
			default:
				if iri, ok := asIRI(v); ok {
					out = append(out, iri)
				}
			}
		}
	}
	return out
}

func asIRI(v interface{}) (quad.IRI, bool) {
	switch v := v.(type) {
	case string:
		return quad.IRI(v), true
	case quad.IRI:
		return v, true
	}
	return "", false
}
