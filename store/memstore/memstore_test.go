package memstore

import (
	"context"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadText(t *testing.T) {
	g := New()
	err := g.LoadText(`
<http://ex.org/a> <http://ex.org/p> <http://ex.org/b> .
<http://ex.org/a> <http://ex.org/name> "Alice" .
<http://ex.org/a> <http://ex.org/age> "30"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://ex.org/a> <http://ex.org/bio> "salut"@fr .
`)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Size())
	assert.True(t, g.HasTriple(quad.IRI("http://ex.org/a"), quad.IRI("http://ex.org/name"), quad.String("Alice")))
	assert.True(t, g.HasTriple(quad.IRI("http://ex.org/a"), quad.IRI("http://ex.org/bio"),
		quad.LangString{Value: "salut", Lang: "fr"}))
}

func TestSelectBGP(t *testing.T) {
	g := New()
	require.NoError(t, g.LoadText(`
<http://ex.org/a> <http://ex.org/knows> <http://ex.org/b> .
<http://ex.org/b> <http://ex.org/knows> <http://ex.org/c> .
<http://ex.org/a> <http://ex.org/name> "Alice" .
<http://ex.org/b> <http://ex.org/name> "Bob" .
`))
	ctx := context.Background()

	// single pattern
	sols, err := g.Select(ctx, `SELECT ?o WHERE { <http://ex.org/a> <http://ex.org/knows> ?o . }`)
	require.NoError(t, err)
	require.Len(t, sols, 1)
	assert.Equal(t, quad.IRI("http://ex.org/b"), sols[0]["o"])

	// join across two patterns
	sols, err = g.Select(ctx, `SELECT ?name WHERE { <http://ex.org/a> <http://ex.org/knows> ?x . ?x <http://ex.org/name> ?name . }`)
	require.NoError(t, err)
	require.Len(t, sols, 1)
	assert.Equal(t, quad.String("Bob"), sols[0]["name"])

	// bound variable must match consistently
	sols, err = g.Select(ctx, `SELECT ?x WHERE { ?x <http://ex.org/knows> ?y . ?y <http://ex.org/knows> ?x . }`)
	require.NoError(t, err)
	assert.Empty(t, sols)
}

func TestSelectDistinctAndLimit(t *testing.T) {
	g := New()
	require.NoError(t, g.LoadText(`
<http://ex.org/a> <http://ex.org/t> <http://ex.org/T> .
<http://ex.org/a> <http://ex.org/u> <http://ex.org/U> .
<http://ex.org/b> <http://ex.org/t> <http://ex.org/T> .
`))
	ctx := context.Background()

	sols, err := g.Select(ctx, `SELECT DISTINCT ?s WHERE { ?s ?p ?o . }`)
	require.NoError(t, err)
	assert.Len(t, sols, 2)

	sols, err = g.Select(ctx, `SELECT ?s WHERE { ?s ?p ?o . } LIMIT 2`)
	require.NoError(t, err)
	assert.Len(t, sols, 2)
}

func TestSelectRegexFilter(t *testing.T) {
	g := New()
	require.NoError(t, g.LoadText(`
<http://ex.org/doc#a> <http://ex.org/p> "x" .
<http://ex.org/doc#b> <http://ex.org/p> "y" .
<http://ex.org/other> <http://ex.org/p> "z" .
`))
	sols, err := g.Select(context.Background(),
		`SELECT DISTINCT ?s WHERE { ?s <http://ex.org/p> ?o . FILTER REGEX(STR(?s), "^http://ex\\.org/doc") . }`)
	require.NoError(t, err)
	assert.Len(t, sols, 2)
}

func TestUpdateData(t *testing.T) {
	g := New()
	ctx := context.Background()
	err := g.Update(ctx, `INSERT DATA {
<http://ex.org/a> <http://ex.org/name> "Alice" .
<http://ex.org/a> <http://ex.org/name> "Alicia" .
}`)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Size())

	err = g.Update(ctx, `DELETE DATA {
<http://ex.org/a> <http://ex.org/name> "Alicia" .
} ;
INSERT DATA {
<http://ex.org/a> <http://ex.org/age> "30"^^<http://www.w3.org/2001/XMLSchema#integer> .
}`)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Size())
	assert.False(t, g.HasTriple(quad.IRI("http://ex.org/a"), quad.IRI("http://ex.org/name"), quad.String("Alicia")))
	assert.True(t, g.HasTriple(quad.IRI("http://ex.org/a"), quad.IRI("http://ex.org/name"), quad.String("Alice")))
}

func TestUpdateTemplated(t *testing.T) {
	g := New()
	require.NoError(t, g.LoadText(`
<http://ex.org/counter> <http://ex.org/next> "2"^^<http://schema.org/Integer> .
`))
	ctx := context.Background()
	err := g.Update(ctx,
		`DELETE { <http://ex.org/counter> <http://ex.org/next> "2"^^<http://schema.org/Integer> . } `+
			`INSERT { <http://ex.org/counter> <http://ex.org/next> "3"^^<http://schema.org/Integer> . } `+
			`WHERE { <http://ex.org/counter> <http://ex.org/next> "2"^^<http://schema.org/Integer> . }`)
	require.NoError(t, err)
	assert.True(t, g.HasTriple(quad.IRI("http://ex.org/counter"), quad.IRI("http://ex.org/next"),
		quad.TypedString{Value: "3", Type: "http://schema.org/Integer"}))
	assert.Equal(t, 1, g.Size())

	// WHERE with no match leaves the graph untouched.
	err = g.Update(ctx,
		`DELETE { <http://ex.org/counter> <http://ex.org/next> "2"^^<http://schema.org/Integer> . } `+
			`INSERT { <http://ex.org/counter> <http://ex.org/next> "9"^^<http://schema.org/Integer> . } `+
			`WHERE { <http://ex.org/counter> <http://ex.org/next> "2"^^<http://schema.org/Integer> . }`)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Size())
	assert.True(t, g.HasTriple(quad.IRI("http://ex.org/counter"), quad.IRI("http://ex.org/next"),
		quad.TypedString{Value: "3", Type: "http://schema.org/Integer"}))
}

func TestUpdateCascadeDelete(t *testing.T) {
	g := New()
	require.NoError(t, g.LoadText(`
<http://ex.org/a> <http://ex.org/list> <http://localhost/.well-known/genid/1> .
<http://localhost/.well-known/genid/1> <http://ex.org/first> "x" .
<http://localhost/.well-known/genid/1> <http://ex.org/rest> <http://ex.org/nil> .
<http://ex.org/b> <http://ex.org/other> "kept" .
`))
	bn := "<http://localhost/.well-known/genid/1>"
	err := g.Update(context.Background(),
		`DELETE { `+bn+` ?p ?o . } WHERE { `+bn+` ?p ?o . } ;
DELETE { ?s ?p `+bn+` . } WHERE { ?s ?p `+bn+` . }`)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Size())
}

func TestLexerEscapes(t *testing.T) {
	g := New()
	require.NoError(t, g.LoadText(`<http://ex.org/a> <http://ex.org/p> "line\nbreak \"quoted\" tab\t\\" .`))
	assert.True(t, g.HasTriple(quad.IRI("http://ex.org/a"), quad.IRI("http://ex.org/p"),
		quad.String("line\nbreak \"quoted\" tab\t\\")))
}

func TestParseErrors(t *testing.T) {
	g := New()
	ctx := context.Background()
	for _, in := range []string{
		`SELECT WHERE { ?s ?p ?o . }`,
		`SELECT ?s { ?s ?p ?o . }`,
		`SELECT ?s WHERE { ?s ?p . }`,
		`SELECT ?s WHERE { ?s ?p ?o . } extra`,
	} {
		_, err := g.Select(ctx, in)
		assert.Error(t, err, in)
	}
	for _, in := range []string{
		`DELETE DATA { ?s ?p ?o . }`,
		`INSERT { <http://a> <http://b> "c" . }`,
		`UPSERT DATA { <http://a> <http://b> "c" . }`,
	} {
		err := g.Update(ctx, in)
		assert.Error(t, err, in)
	}
}
