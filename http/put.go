package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/piprate/json-gold/ld"

	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/store"
	"github.com/oldman-go/oldman/voc/rdf"
)

// ServePut replaces the whole document sharing the target's hashless IRI:
// blank nodes in the incoming document are promoted to fragment resources,
// skolemized foreign blank nodes and subjects with a different hashless
// IRI are rejected, and existing resources omitted from the document are
// deleted.
func (api *API) ServePut(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
	if api.forbiddenReadOnly(w) {
		return
	}
	ctx := req.Context()
	target := api.iriFor(req, params)
	targetHashless := om.HashlessIRI(target)

	body, err := io.ReadAll(req.Body)
	if err != nil {
		errorResponse(w, err)
		return
	}
	quads, err := parseDocument(req.Header.Get("Content-Type"), body)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, err)
		return
	}
	quads, subjects, err := promoteBlankNodes(quads, targetHashless)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, err)
		return
	}

	// Drop document members that disappeared, in a first unit of work so
	// a member recreated with different types does not collide with its
	// tracked predecessor.
	cleanup := api.newSession()
	existing, err := cleanup.Filter(ctx, store.Filter{HashlessIRI: targetHashless})
	if err != nil {
		errorResponse(w, err)
		return
	}
	inDocument := make(map[quad.IRI]bool, len(subjects))
	for _, s := range subjects {
		inDocument[s] = true
	}
	survivors := make(map[quad.IRI]bool)
	removed := false
	for _, r := range existing {
		iri := r.ID().IRI()
		switch {
		case !inDocument[iri]:
			cleanup.Delete(r)
			removed = true
		case !typesMatch(r, subjectTypes(iri, quads)):
			cleanup.Delete(r)
			removed = true
		default:
			survivors[iri] = true
		}
	}
	if removed {
		if err := cleanup.Flush(ctx); err != nil {
			errorResponse(w, err)
			return
		}
	}

	sess := api.newSession()
	for _, iri := range subjects {
		types := subjectTypes(iri, quads)
		var r *om.Resource
		if survivors[iri] {
			r, err = sess.Get(ctx, iri)
		} else {
			r, err = sess.NewResourceWithIRI(types, iri)
		}
		if err != nil {
			errorResponse(w, err)
			return
		}
		if err := r.ReplaceFromQuads(quads); err != nil {
			jsonResponse(w, http.StatusBadRequest, err)
			return
		}
	}
	if err := sess.FlushAsEndUser(ctx); err != nil {
		errorResponse(w, err)
		return
	}

	r, err := sess.Get(ctx, target)
	if err != nil {
		errorResponse(w, err)
		return
	}
	api.writeResource(w, req, r, false)
}

// parseDocument reads the request body as N-Triples/N-Quads or JSON-LD.
func parseDocument(contentType string, body []byte) ([]quad.Quad, error) {
	mime := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	switch mime {
	case contentJSON, contentJSONLD:
		var doc interface{}
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON-LD body: %w", err)
		}
		proc := ld.NewJsonLdProcessor()
		opts := ld.NewJsonLdOptions("")
		opts.Format = "application/n-quads"
		out, err := proc.ToRDF(doc, opts)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON-LD body: %w", err)
		}
		text, ok := out.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected JSON-LD serialization result")
		}
		return readNQuads([]byte(text))
	default:
		return readNQuads(body)
	}
}

func readNQuads(body []byte) ([]quad.Quad, error) {
	var quads []quad.Quad
	r := nquads.NewReader(bytes.NewReader(body), false)
	for {
		q, err := r.ReadQuad()
		if err == io.EOF {
			return quads, nil
		}
		if err != nil {
			return nil, fmt.Errorf("invalid triple document: %w", err)
		}
		quads = append(quads, q)
	}
}

// promoteBlankNodes mints fragment IRIs for the document's blank nodes
// and validates every subject against the target hashless IRI. Returns
// the rewritten quads and the ordered subject IRIs.
func promoteBlankNodes(quads []quad.Quad, targetHashless string) ([]quad.Quad, []quad.IRI, error) {
	minted := make(map[quad.BNode]quad.IRI)
	rewrite := func(v quad.Value) quad.Value {
		bn, ok := v.(quad.BNode)
		if !ok {
			return v
		}
		iri, ok := minted[bn]
		if !ok {
			iri = quad.IRI(targetHashless + "#" + uuid.NewString())
			minted[bn] = iri
		}
		return iri
	}
	out := make([]quad.Quad, len(quads))
	for i, q := range quads {
		out[i] = quad.Quad{
			Subject:   rewrite(q.Subject),
			Predicate: q.Predicate,
			Object:    rewrite(q.Object),
		}
	}
	var subjects []quad.IRI
	seen := make(map[quad.IRI]bool)
	for _, q := range out {
		s, ok := q.Subject.(quad.IRI)
		if !ok {
			return nil, nil, fmt.Errorf("unsupported subject term %s", q.Subject)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		if om.IsSkolemIRI(s) {
			return nil, nil, fmt.Errorf("foreign skolemized blank node %s rejected", s)
		}
		if om.HashlessIRI(s) != targetHashless {
			return nil, nil, fmt.Errorf("subject %s does not belong to document %s", s, targetHashless)
		}
		subjects = append(subjects, s)
	}
	return out, subjects, nil
}

func subjectTypes(iri quad.IRI, quads []quad.Quad) []quad.IRI {
	var types []quad.IRI
	for _, q := range quads {
		if q.Subject != quad.Value(iri) {
			continue
		}
		if p, ok := q.Predicate.(quad.IRI); !ok || p != quad.IRI(rdf.Type) {
			continue
		}
		if t, ok := q.Object.(quad.IRI); ok {
			types = append(types, t)
		}
	}
	return types
}

func typesMatch(r *om.Resource, types []quad.IRI) bool {
	current := make(map[quad.IRI]bool)
	for _, t := range r.Types() {
		current[t] = true
	}
	for _, t := range types {
		if !current[t] {
			return false
		}
	}
	return true
}
