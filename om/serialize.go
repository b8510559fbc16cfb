package om

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/voc/rdf"
)

// snapshotLines renders the current state of the resource as ground triple
// lines, without touching the pending-cell bookkeeping of list entries.
func (r *Resource) snapshotLines() ([]string, error) {
	var lines []string
	id := r.id.IRI()
	for _, t := range r.types {
		lines = append(lines, tripleLine(id, quad.IRI(rdf.Type), t))
	}
	for _, a := range r.allAttributes() {
		e := r.entryFor(a)
		if e.current == nil {
			continue
		}
		if l, ok := e.current.(List); ok {
			cells := e.pendingCells
			if len(cells) != len(l) {
				cells = e.formerCells
			}
			if len(cells) != len(l) {
				cells = make([]quad.IRI, len(l))
				for i := range l {
					cells[i] = NewSkolemIRI()
				}
			}
			ll, err := a.listLines(id, l, cells)
			if err != nil {
				return nil, err
			}
			lines = append(lines, ll...)
			continue
		}
		terms, err := a.valueTerms(e.current)
		if err != nil {
			return nil, err
		}
		for _, t := range terms {
			lines = append(lines, a.edgeLine(id, t))
		}
	}
	return lines, nil
}

// ToRDF renders the resource as N-Triples.
func (r *Resource) ToRDF() (string, error) {
	lines, err := r.snapshotLines()
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// ToJSON renders the resource as a plain JSON document: id, types and the
// readable attribute values, with native Go values marshaled directly.
func (r *Resource) ToJSON() ([]byte, error) {
	doc := make(map[string]interface{})
	doc["id"] = string(r.id.IRI())
	types := make([]string, 0, len(r.types))
	for _, t := range r.types {
		types = append(types, string(t))
	}
	doc["types"] = types
	for _, a := range r.allAttributes() {
		if a.WriteOnly() {
			continue
		}
		e := r.entryFor(a)
		if e.current == nil {
			continue
		}
		doc[a.Name()] = jsonValue(e.current)
	}
	return json.Marshal(doc)
}

func jsonValue(v interface{}) interface{} {
	switch v := v.(type) {
	case Set:
		out := make([]interface{}, 0, len(v))
		for item := range v {
			out = append(out, item)
		}
		sort.Slice(out, func(i, j int) bool {
			a, _ := json.Marshal(out[i])
			b, _ := json.Marshal(out[j])
			return string(a) < string(b)
		})
		return out
	case List:
		return []interface{}(v)
	case LangMap:
		return map[string]interface{}(v)
	default:
		return v
	}
}

// ToJSONLD renders the resource as JSON-LD, compacted against the primary
// model's context when one is available.
func (r *Resource) ToJSONLD() ([]byte, error) {
	nquads, err := r.ToRDF()
	if err != nil {
		return nil, err
	}
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.InputFormat = "application/n-quads"
	doc, err := proc.FromRDF(nquads, opts)
	if err != nil {
		return nil, err
	}
	var payload interface{}
	if m := r.PrimaryModel(); m != nil && m.Context() != nil {
		payload = m.Context().Payload()
	}
	if payload == nil {
		return json.Marshal(doc)
	}
	compacted, err := proc.Compact(doc, payload, ld.NewJsonLdOptions(""))
	if err != nil {
		return nil, err
	}
	return json.Marshal(compacted)
}
