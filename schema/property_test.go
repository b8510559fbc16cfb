package schema

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oldman-go/oldman/ldcontext"
	"github.com/oldman-go/oldman/voc/foaf"
)

func TestNewPropertyConflictingFlags(t *testing.T) {
	_, err := NewProperty("http://ex.org/p", "http://ex.org/C", false, true, true)
	require.Error(t, err)
	assert.IsType(t, ErrDefinition{}, err)
}

func TestMergeFlagsORSemantics(t *testing.T) {
	p, err := NewProperty("http://ex.org/p", "http://ex.org/C", false, false, false)
	require.NoError(t, err)
	require.NoError(t, p.MergeFlags(true, false, false))
	assert.True(t, p.Required())
	// once required, always required
	require.NoError(t, p.MergeFlags(false, false, false))
	assert.True(t, p.Required())

	require.NoError(t, p.MergeFlags(false, true, false))
	assert.True(t, p.ReadOnly())
	err = p.MergeFlags(false, false, true)
	require.Error(t, err)
	assert.IsType(t, ErrDefinition{}, err)
}

func TestSetTypeOnce(t *testing.T) {
	p, err := NewProperty("http://ex.org/p", "http://ex.org/C", false, false, false)
	require.NoError(t, err)
	require.NoError(t, p.SetType(DatatypeProperty))
	require.NoError(t, p.SetType(DatatypeProperty))
	err = p.SetType(ObjectProperty)
	require.Error(t, err)
	assert.IsType(t, ErrDefinition{}, err)
}

func TestAddMetadataConflictsAndIndex(t *testing.T) {
	p, err := NewProperty("http://ex.org/p", "http://ex.org/C", false, false, false)
	require.NoError(t, err)

	require.NoError(t, p.AddMetadata(ldcontext.Term{Name: "age", IRI: "http://ex.org/p", Type: "http://www.w3.org/2001/XMLSchema#integer"}))
	err = p.AddMetadata(ldcontext.Term{Name: "age", IRI: "http://ex.org/p", Type: "http://www.w3.org/2001/XMLSchema#string"})
	require.Error(t, err)
	assert.IsType(t, ErrDefinition{}, err)

	err = p.AddMetadata(ldcontext.Term{Name: "byIndex", IRI: "http://ex.org/p", Container: ldcontext.ContainerIndex})
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestGenerateAttributesOneShot(t *testing.T) {
	p, err := NewProperty("http://ex.org/p", "http://ex.org/C", false, false, false)
	require.NoError(t, err)
	require.NoError(t, p.AddMetadata(ldcontext.Term{Name: "a", IRI: "http://ex.org/p"}))
	require.NoError(t, p.AddMetadata(ldcontext.Term{Name: "b", IRI: "http://ex.org/p"}))

	var names []string
	require.NoError(t, p.GenerateAttributes(func(md AttributeMetadata) error {
		names = append(names, md.Name)
		return nil
	}))
	assert.Equal(t, []string{"a", "b"}, names)
	assert.True(t, p.Generated())

	err = p.GenerateAttributes(func(md AttributeMetadata) error { return nil })
	require.Error(t, err)
	assert.IsType(t, ErrInternal{}, err)

	// metadata is frozen after generation
	err = p.AddMetadata(ldcontext.Term{Name: "c", IRI: "http://ex.org/p"})
	assert.IsType(t, ErrInternal{}, err)
}

func TestContextAttributeExtractorSyntheticName(t *testing.T) {
	resolver, err := ldcontext.Parse(map[string]interface{}{
		"@context": map[string]interface{}{
			"name": map[string]interface{}{"@id": "http://xmlns.com/foaf/0.1/name"},
		},
	})
	require.NoError(t, err)

	named, err := NewProperty("http://xmlns.com/foaf/0.1/name", "http://ex.org/C", false, false, false)
	require.NoError(t, err)
	unnamed, err := NewProperty(quad.IRI(foaf.Mbox), "http://ex.org/C", false, false, false)
	require.NoError(t, err)

	props := map[quad.IRI]*Property{
		named.IRI():   named,
		unnamed.IRI(): unnamed,
	}
	require.NoError(t, ContextAttributeExtractor{}.ExtractAttributeMetadata(props, resolver))

	require.Len(t, named.Metadata(), 1)
	assert.Equal(t, "name", named.Metadata()[0].Name)

	require.Len(t, unnamed.Metadata(), 1)
	assert.Equal(t, "foaf_mbox", unnamed.Metadata()[0].Name)
}

func TestSyntheticNameFallback(t *testing.T) {
	assert.Equal(t, "local", syntheticName("http://unregistered.example.org/ns#local"))
	assert.Equal(t, "leaf", syntheticName("http://unregistered.example.org/ns/leaf"))
}
