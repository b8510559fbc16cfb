package sparqlstore

import (
	"context"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/schema"
	"github.com/oldman-go/oldman/store"
	"github.com/oldman-go/oldman/store/memstore"
	"github.com/oldman-go/oldman/values"
	"github.com/oldman-go/oldman/voc/rdf"
)

const (
	tstPerson = quad.IRI("http://example.org/vocab#Person")
	tstName   = quad.IRI("http://example.org/vocab#name")
	tstTags   = quad.IRI("http://example.org/vocab#tags")
)

func personRegistry(t *testing.T) *om.Registry {
	t.Helper()
	reg := om.NewRegistry()
	nameProp, err := schema.NewProperty(tstName, tstPerson, false, false, false)
	require.NoError(t, err)
	name := om.NewAttribute(schema.AttributeMetadata{Name: "name", Property: nameProp},
		values.StringFormat{}, &om.PropertyGroup{Property: tstName})
	m, err := om.NewModel("person", tstPerson, []quad.IRI{tstPerson}, nil,
		map[string]*om.Attribute{"name": name},
		om.RandomPrefixGenerator{Prefix: "http://example.org/person/"}, nil)
	require.NoError(t, err)
	require.NoError(t, reg.Register(m))
	return reg
}

func TestSaveGetRoundTrip(t *testing.T) {
	g := memstore.New()
	st := New("memory", g, personRegistry(t))
	ctx := context.Background()

	r, err := om.NewResource(st.Registry(), []quad.IRI{tstPerson})
	require.NoError(t, err)
	require.NoError(t, r.Set("name", "Alice"))

	require.NoError(t, st.Save(ctx, r))
	iri := r.ID().IRI()
	assert.False(t, r.ID().IsTemporary())
	assert.True(t, r.IsPersisted())

	ok, err := st.Exists(ctx, iri)
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := st.Get(ctx, iri)
	require.NoError(t, err)
	assert.Equal(t, []quad.IRI{tstPerson}, loaded.Types())
	v, err := loaded.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v)
	assert.False(t, loaded.HasChanged())
}

func TestSaveUniqueConflict(t *testing.T) {
	g := memstore.New()
	require.NoError(t, g.LoadText(`
<http://example.org/person/alice> <http://example.org/vocab#name> "Alice" .
`))
	st := New("memory", g, personRegistry(t))

	r, err := om.NewResourceWithIRI(st.Registry(), []quad.IRI{tstPerson}, "http://example.org/person/alice")
	require.NoError(t, err)
	require.NoError(t, r.Set("name", "Imposter"))

	err = st.Save(context.Background(), r)
	require.Error(t, err)
	assert.IsType(t, om.ErrUnique{}, err)
}

func TestGetNotFound(t *testing.T) {
	st := New("memory", memstore.New(), personRegistry(t))
	_, err := st.Get(context.Background(), "http://example.org/person/ghost")
	require.Error(t, err)
	assert.IsType(t, om.ErrNotFound{}, err)
}

func TestFilterByTypeAndValue(t *testing.T) {
	g := memstore.New()
	require.NoError(t, g.LoadText(`
<http://example.org/person/alice> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/vocab#Person> .
<http://example.org/person/alice> <http://example.org/vocab#name> "Alice" .
<http://example.org/person/bob> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/vocab#Person> .
<http://example.org/person/bob> <http://example.org/vocab#name> "Bob" .
`))
	st := New("memory", g, personRegistry(t))
	ctx := context.Background()

	all, err := st.Filter(ctx, store.Filter{Types: []quad.IRI{tstPerson}})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := st.Filter(ctx, store.Filter{
		Types:  []quad.IRI{tstPerson},
		Values: map[string]interface{}{"name": "Alice"},
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, quad.IRI("http://example.org/person/alice"), found[0].ID().IRI())
}

func TestDeleteRemovesTriples(t *testing.T) {
	g := memstore.New()
	st := New("memory", g, personRegistry(t))
	ctx := context.Background()

	r, err := om.NewResource(st.Registry(), []quad.IRI{tstPerson})
	require.NoError(t, err)
	require.NoError(t, r.Set("name", "Alice"))
	require.NoError(t, st.Save(ctx, r))
	require.NotZero(t, g.Size())

	require.NoError(t, st.Delete(ctx, r))
	assert.Zero(t, g.Size())
	assert.True(t, r.IsDeleted())
}

func TestGetAfterDeleteEmptyTypes(t *testing.T) {
	g := memstore.New()
	reg := personRegistry(t)
	def, err := om.NewModel("thing", "", nil, nil, nil,
		om.RandomPrefixGenerator{Prefix: "http://example.org/thing/"}, nil)
	require.NoError(t, err)
	require.NoError(t, reg.Register(def))
	st := New("memory", g, reg)
	ctx := context.Background()

	r, err := om.NewResource(reg, []quad.IRI{tstPerson})
	require.NoError(t, err)
	require.NoError(t, r.Set("name", "Alice"))
	require.NoError(t, st.Save(ctx, r))
	iri := r.ID().IRI()

	require.NoError(t, st.Delete(ctx, r))

	// with a default model a vanished subject loads as an untyped resource
	loaded, err := st.Get(ctx, iri)
	require.NoError(t, err)
	assert.Empty(t, loaded.Types())
}

func listRegistry(t *testing.T) *om.Registry {
	t.Helper()
	reg := om.NewRegistry()
	nameProp, err := schema.NewProperty(tstName, tstPerson, false, false, false)
	require.NoError(t, err)
	name := om.NewAttribute(schema.AttributeMetadata{Name: "name", Property: nameProp},
		values.StringFormat{}, &om.PropertyGroup{Property: tstName})
	tagsProp, err := schema.NewProperty(tstTags, tstPerson, false, false, false)
	require.NoError(t, err)
	tags := om.NewAttribute(schema.AttributeMetadata{Name: "tags", Property: tagsProp, Container: "@list"},
		values.StringFormat{}, &om.PropertyGroup{Property: tstTags})
	m, err := om.NewModel("person", tstPerson, []quad.IRI{tstPerson}, nil,
		map[string]*om.Attribute{"name": name, "tags": tags},
		om.RandomPrefixGenerator{Prefix: "http://example.org/person/"}, nil)
	require.NoError(t, err)
	require.NoError(t, reg.Register(m))
	return reg
}

func TestListRoundTrip(t *testing.T) {
	g := memstore.New()
	st := New("memory", g, listRegistry(t))
	ctx := context.Background()

	r, err := om.NewResource(st.Registry(), []quad.IRI{tstPerson})
	require.NoError(t, err)
	require.NoError(t, r.Set("tags", om.NewList("a", "b", "c")))
	require.NoError(t, st.Save(ctx, r))
	iri := r.ID().IRI()

	loaded, err := st.Get(ctx, iri)
	require.NoError(t, err)
	v, err := loaded.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, om.NewList("a", "b", "c"), v)

	// replacing the list rewrites it atomically and garbage-collects the
	// old cons cells
	require.NoError(t, loaded.Set("tags", om.NewList("x")))
	require.NoError(t, st.Save(ctx, loaded))

	again, err := st.Get(ctx, iri)
	require.NoError(t, err)
	v, err = again.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, om.NewList("x"), v)

	// type triple, list head edge and one cons cell (rdf:first, rdf:rest)
	assert.Equal(t, 4, g.Size())
}

func TestFilterQueryText(t *testing.T) {
	q := filterQuery([]quad.IRI{tstPerson},
		[]string{`?s <http://example.org/vocab#name> "Alice" .`},
		"http://example.org/doc", 5)
	assert.Equal(t,
		`SELECT DISTINCT ?s WHERE {`+
			` ?s <`+rdf.Type+`> <http://example.org/vocab#Person> .`+
			` ?s <http://example.org/vocab#name> "Alice" .`+
			` FILTER REGEX(STR(?s), "^http://example\.org/doc") . }`+
			` LIMIT 5`, q)

	// a hashless restriction alone still needs a pattern binding ?s
	q = filterQuery(nil, nil, "http://example.org/doc", 0)
	assert.Equal(t,
		`SELECT DISTINCT ?s WHERE { ?s ?p ?o .`+
			` FILTER REGEX(STR(?s), "^http://example\.org/doc") . }`, q)
}

func TestUpdateTextLayout(t *testing.T) {
	bn := quad.IRI("http://localhost/.well-known/genid/x")
	d := &om.Diff{
		Removals: []string{`<http://a> <http://p> "old" .`},
		Inserts:  []string{`<http://a> <http://p> "new" .`},
		Cascade:  []quad.IRI{bn},
	}
	text := updateText(d)
	assert.Equal(t,
		"DELETE DATA {\n"+`<http://a> <http://p> "old" .`+"\n} ;\n"+
			"INSERT DATA {\n"+`<http://a> <http://p> "new" .`+"\n} ;\n"+
			"DELETE { "+bn.String()+" ?p ?o . } WHERE { "+bn.String()+" ?p ?o . } ;\n"+
			"DELETE { ?s ?p "+bn.String()+" . } WHERE { ?s ?p "+bn.String()+" . }", text)
}

func TestIncrementalGenerator(t *testing.T) {
	g := memstore.New()
	gen := NewIncrementalGenerator(g, "http://example.org/person/", "")
	ctx := context.Background()
	hint := om.IDHint{ClassIRI: tstPerson}

	iri, err := gen.Generate(ctx, hint)
	require.NoError(t, err)
	assert.Equal(t, quad.IRI("http://example.org/person/1"), iri)
	// the stored counter already points at the next number
	assert.True(t, g.HasTriple(tstPerson, quad.IRI("urn:oldman:nextNumber"),
		quad.TypedString{Value: "2", Type: "http://schema.org/Integer"}))

	iri, err = gen.Generate(ctx, hint)
	require.NoError(t, err)
	assert.Equal(t, quad.IRI("http://example.org/person/2"), iri)
	iri, err = gen.Generate(ctx, hint)
	require.NoError(t, err)
	assert.Equal(t, quad.IRI("http://example.org/person/3"), iri)

	// counters are independent per class
	iri, err = gen.Generate(ctx, om.IDHint{ClassIRI: "http://example.org/vocab#Post"})
	require.NoError(t, err)
	assert.Equal(t, quad.IRI("http://example.org/person/1"), iri)

	// a fragment hint survives minting
	iri, err = gen.Generate(ctx, om.IDHint{ClassIRI: tstPerson, Fragment: "me"})
	require.NoError(t, err)
	assert.Equal(t, quad.IRI("http://example.org/person/4#me"), iri)
}
