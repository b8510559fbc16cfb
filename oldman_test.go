package oldman

import (
	"context"
	"fmt"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/store/memstore"
	"github.com/oldman-go/oldman/voc/foaf"
	"github.com/oldman-go/oldman/voc/hydra"
	"github.com/oldman-go/oldman/voc/rdf"
	"github.com/oldman-go/oldman/voc/rdfs"
	"github.com/oldman-go/oldman/voc/xsd"
)

const (
	e2ePerson      = "http://example.org/vocab#Person"
	e2eLocalPerson = "http://example.org/vocab#LocalPerson"
)

func loadSchema(t *testing.T, m *Manager, g *memstore.Graph) {
	t.Helper()
	text := fmt.Sprintf(`
<%[1]s> <%[3]s> <%[2]s> .

<%[2]s> <%[4]s> <http://example.org/sp/name> .
<http://example.org/sp/name> <%[5]s> <%[6]s> .
<http://example.org/sp/name> <%[7]s> "true"^^<%[8]s> .
<%[6]s> <%[9]s> <%[10]s> .

<%[2]s> <%[4]s> <http://example.org/sp/mbox> .
<http://example.org/sp/mbox> <%[5]s> <%[11]s> .
`,
		e2eLocalPerson, e2ePerson, rdfs.SubClassOf,
		hydra.SupportedProperty, hydra.Property,
		foaf.Name, hydra.Required, xsd.Boolean, rdfs.Range, xsd.String,
		foaf.Mbox)
	require.NoError(t, g.LoadText(text))

	ctx := context.Background()
	payload := map[string]interface{}{
		"@context": map[string]interface{}{
			"name":   map[string]interface{}{"@id": foaf.Name, "@type": xsd.String},
			"mboxes": map[string]interface{}{"@id": foaf.Mbox, "@container": "@set"},
		},
	}
	_, err := m.RegisterModel(ctx, om.ModelDefinition{
		Name:           "person",
		ClassIRI:       e2ePerson,
		ContextPayload: payload,
		IDGenerator:    om.RandomPrefixGenerator{Prefix: "http://example.org/people/"},
	})
	require.NoError(t, err)
	_, err = m.RegisterModel(ctx, om.ModelDefinition{
		Name:           "localperson",
		ClassIRI:       e2eLocalPerson,
		ContextPayload: payload,
		IDGenerator:    om.RandomPrefixGenerator{Prefix: "http://example.org/people/"},
	})
	require.NoError(t, err)
}

func TestEndToEndLifecycle(t *testing.T) {
	m, g := NewMemory()
	loadSchema(t, m, g)
	schemaSize := g.Size()
	ctx := context.Background()

	// create
	s := m.NewSession()
	alice, err := s.NewResource([]quad.IRI{e2eLocalPerson, e2ePerson}, om.IDHint{})
	require.NoError(t, err)
	require.Equal(t, "localperson", alice.PrimaryModel().Name())
	require.NoError(t, alice.Set("name", "Alice"))
	require.NoError(t, alice.Set("mboxes", om.NewSet("alice@example.org")))
	require.NoError(t, s.FlushAsEndUser(ctx))

	iri := alice.ID().IRI()
	assert.False(t, alice.ID().IsTemporary())
	assert.True(t, g.HasTriple(iri, quad.IRI(rdf.Type), quad.IRI(e2eLocalPerson)))
	assert.True(t, g.HasTriple(iri, quad.IRI(rdf.Type), quad.IRI(e2ePerson)))
	assert.True(t, g.HasTriple(iri, quad.IRI(foaf.Name), quad.String("Alice")))
	assert.True(t, g.HasTriple(iri, quad.IRI(foaf.Mbox), quad.IRI("mailto:alice@example.org")))

	// reload in a fresh unit of work
	s2 := m.NewSession()
	loaded, err := s2.Get(ctx, iri)
	require.NoError(t, err)
	assert.NotSame(t, alice, loaded)
	assert.Equal(t, []quad.IRI{e2eLocalPerson, e2ePerson}, loaded.Types())
	v, err := loaded.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v)
	v, err = loaded.Get("mboxes")
	require.NoError(t, err)
	assert.Equal(t, om.NewSet("alice@example.org"), v)

	// modify
	require.NoError(t, loaded.Set("name", "Alicia"))
	require.NoError(t, s2.FlushAsEndUser(ctx))
	assert.False(t, g.HasTriple(iri, quad.IRI(foaf.Name), quad.String("Alice")))
	assert.True(t, g.HasTriple(iri, quad.IRI(foaf.Name), quad.String("Alicia")))

	// delete
	s2.Delete(loaded)
	require.NoError(t, s2.Flush(ctx))
	assert.Equal(t, schemaSize, g.Size())
	assert.True(t, loaded.IsDeleted())
}

func TestEndToEndRequiredValidation(t *testing.T) {
	m, g := NewMemory()
	loadSchema(t, m, g)
	schemaSize := g.Size()
	ctx := context.Background()

	s := m.NewSession()
	_, err := s.NewResource([]quad.IRI{e2ePerson}, om.IDHint{})
	require.NoError(t, err)

	err = s.Flush(ctx)
	require.Error(t, err)
	assert.IsType(t, om.ErrRequired{}, err)
	assert.Equal(t, schemaSize, g.Size())
}

func TestManagerOneShotGet(t *testing.T) {
	m, g := NewMemory()
	loadSchema(t, m, g)
	ctx := context.Background()

	s := m.NewSession()
	r, err := s.NewResource([]quad.IRI{e2ePerson}, om.IDHint{})
	require.NoError(t, err)
	require.NoError(t, r.Set("name", "Bob"))
	require.NoError(t, s.Flush(ctx))

	got, err := m.Get(ctx, r.ID().IRI())
	require.NoError(t, err)
	v, err := got.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", v)
}
