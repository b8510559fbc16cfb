package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/schema"
	"github.com/oldman-go/oldman/store"
	"github.com/oldman-go/oldman/store/memstore"
	"github.com/oldman-go/oldman/store/sparqlstore"
	"github.com/oldman-go/oldman/values"
)

const (
	apiPerson = quad.IRI("http://example.org/vocab#Person")
	apiName   = quad.IRI("http://example.org/vocab#name")
)

func newTestRouter(t *testing.T, readOnly bool) (*httprouter.Router, *memstore.Graph) {
	t.Helper()
	reg := om.NewRegistry()
	nameProp, err := schema.NewProperty(apiName, apiPerson, false, false, false)
	require.NoError(t, err)
	name := om.NewAttribute(schema.AttributeMetadata{Name: "name", Property: nameProp},
		values.StringFormat{}, &om.PropertyGroup{Property: apiName})
	m, err := om.NewModel("person", apiPerson, []quad.IRI{apiPerson}, nil,
		map[string]*om.Attribute{"name": name},
		om.RandomPrefixGenerator{Prefix: "http://example.org/person/"}, nil)
	require.NoError(t, err)
	require.NoError(t, reg.Register(m))

	g := memstore.New()
	require.NoError(t, g.LoadText(`
<http://example.org/person/alice> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/vocab#Person> .
<http://example.org/person/alice> <http://example.org/vocab#name> "Alice" .
`))
	api := NewAPI(store.NewSelector(sparqlstore.New("memory", g, reg)),
		&Config{BaseIRI: "http://example.org", ReadOnly: readOnly}, nil)
	r := httprouter.New()
	api.RegisterOn(r)
	return r, g
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		accept string
		want   string
	}{
		{"", contentJSONLD},
		{"application/json", contentJSON},
		{"application/ld+json", contentJSONLD},
		{"application/n-triples", contentNTriples},
		{"text/plain", contentNTriples},
		{"text/html, application/json;q=0.9", contentJSON},
		{"image/png", contentJSONLD},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tc.accept != "" {
			req.Header.Set("Accept", tc.accept)
		}
		assert.Equal(t, tc.want, negotiate(req), tc.accept)
	}
}

func TestErrorResponseMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{om.ErrNotFound{IRI: "http://x"}, http.StatusNotFound},
		{om.ErrUnique{IRI: "http://x"}, http.StatusConflict},
		{om.ErrReadOnly{Attribute: "a"}, http.StatusBadRequest},
		{om.ErrRequired{Attribute: "a"}, http.StatusBadRequest},
		{om.ErrNoSuchAttribute{Name: "a"}, http.StatusBadRequest},
		{om.ErrDeleted, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		errorResponse(w, tc.err)
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"])
	}
}

func TestServeGetJSON(t *testing.T) {
	r, _ := newTestRouter(t, false)
	req := httptest.NewRequest(http.MethodGet, "/person/alice", nil)
	req.Header.Set("Accept", contentJSON)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentJSON, w.Header().Get("Content-Type"))
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "http://example.org/person/alice", doc["id"])
	assert.Equal(t, "Alice", doc["name"])
	assert.Contains(t, doc["types"], string(apiPerson))
}

func TestServeGetNTriples(t *testing.T) {
	r, _ := newTestRouter(t, false)
	req := httptest.NewRequest(http.MethodGet, "/person/alice", nil)
	req.Header.Set("Accept", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentNTriples, w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<http://example.org/person/alice>")
	assert.Contains(t, body, `"Alice"`)
}

func TestServeGetNotFound(t *testing.T) {
	r, _ := newTestRouter(t, false)
	req := httptest.NewRequest(http.MethodGet, "/person/ghost", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestServeHeadHasNoBody(t *testing.T) {
	r, _ := newTestRouter(t, false)
	req := httptest.NewRequest(http.MethodHead, "/person/alice", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestServeDelete(t *testing.T) {
	r, g := newTestRouter(t, false)
	req := httptest.NewRequest(http.MethodDelete, "/person/alice", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, g.Size())
}

func TestServePutReplacesDocument(t *testing.T) {
	r, g := newTestRouter(t, false)
	body := `<http://example.org/person/alice> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/vocab#Person> .
<http://example.org/person/alice> <http://example.org/vocab#name> "Alicia" .
`
	req := httptest.NewRequest(http.MethodPut, "/person/alice", strings.NewReader(body))
	req.Header.Set("Content-Type", contentNTriples)
	req.Header.Set("Accept", contentJSON)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Alicia", doc["name"])
	assert.False(t, g.HasTriple(quad.IRI("http://example.org/person/alice"), apiName, quad.String("Alice")))
	assert.True(t, g.HasTriple(quad.IRI("http://example.org/person/alice"), apiName, quad.String("Alicia")))
}

func TestServePutRejectsForeignSubject(t *testing.T) {
	r, _ := newTestRouter(t, false)
	body := `<http://example.org/person/bob> <http://example.org/vocab#name> "Bob" .
`
	req := httptest.NewRequest(http.MethodPut, "/person/alice", strings.NewReader(body))
	req.Header.Set("Content-Type", contentNTriples)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServePostWithoutOperation(t *testing.T) {
	r, _ := newTestRouter(t, false)
	req := httptest.NewRequest(http.MethodPost, "/person/alice", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD, PUT, DELETE", w.Header().Get("Allow"))
}

func TestReadOnlyMode(t *testing.T) {
	r, g := newTestRouter(t, true)
	before := g.Size()

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPost} {
		req := httptest.NewRequest(method, "/person/alice", strings.NewReader(""))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, method)
	}
	assert.Equal(t, before, g.Size())

	// reads still work
	req := httptest.NewRequest(http.MethodGet, "/person/alice", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
