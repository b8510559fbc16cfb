package om

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oldman-go/oldman/schema"
)

const (
	clsThing       = quad.IRI("http://example.org/vocab#Thing")
	clsAgent       = quad.IRI("http://example.org/vocab#Agent")
	clsPerson      = quad.IRI("http://example.org/vocab#Person")
	clsLocalPerson = quad.IRI("http://example.org/vocab#LocalPerson")
	clsResident    = quad.IRI("http://example.org/vocab#Resident")
)

func classModel(t *testing.T, name string, class quad.IRI, ancestry ...quad.IRI) *Model {
	t.Helper()
	m, err := NewModel(name, class, ancestry, nil, nil,
		RandomPrefixGenerator{Prefix: "http://example.org/r/"}, nil)
	require.NoError(t, err)
	return m
}

func TestResolveLeafChain(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(classModel(t, "thing", clsThing, clsThing)))
	require.NoError(t, reg.Register(classModel(t, "agent", clsAgent, clsAgent, clsThing)))
	require.NoError(t, reg.Register(classModel(t, "person", clsPerson, clsPerson, clsAgent, clsThing)))

	res, err := reg.Resolve([]quad.IRI{clsThing, clsPerson, clsAgent})
	require.NoError(t, err)
	require.Len(t, res.Models, 1)
	assert.Equal(t, "person", res.Models[0].Name())
	assert.Equal(t, []quad.IRI{clsPerson, clsAgent, clsThing}, res.Types)

	res, err = reg.Resolve([]quad.IRI{clsAgent})
	require.NoError(t, err)
	require.Len(t, res.Models, 1)
	assert.Equal(t, "agent", res.Models[0].Name())
	assert.Equal(t, []quad.IRI{clsAgent, clsThing}, res.Types)
}

func TestResolveMultipleLeaves(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(classModel(t, "person", clsPerson, clsPerson)))
	require.NoError(t, reg.Register(classModel(t, "resident", clsResident, clsResident, clsPerson)))
	require.NoError(t, reg.Register(classModel(t, "localperson", clsLocalPerson, clsLocalPerson, clsPerson)))

	res, err := reg.Resolve([]quad.IRI{clsResident, clsLocalPerson, clsPerson})
	require.NoError(t, err)
	require.Len(t, res.Models, 2)
	// unrelated leaves order by class IRI
	assert.Equal(t, "localperson", res.Models[0].Name())
	assert.Equal(t, "resident", res.Models[1].Name())
	assert.Equal(t, []quad.IRI{clsLocalPerson, clsResident, clsPerson}, res.Types)
}

func TestResolveUncoveredTypes(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(classModel(t, "person", clsPerson, clsPerson)))

	unknown := quad.IRI("http://example.org/vocab#Unknown")
	res, err := reg.Resolve([]quad.IRI{clsPerson, unknown})
	require.NoError(t, err)
	require.Len(t, res.Models, 1)
	// unmapped input types survive in the expanded type list
	assert.Equal(t, []quad.IRI{clsPerson, unknown}, res.Types)
}

func TestResolveDefaultModel(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve(nil)
	assert.ErrorIs(t, err, ErrNoDefaultModel)
	_, err = reg.Resolve([]quad.IRI{clsPerson})
	assert.ErrorIs(t, err, ErrNoLeafModel)

	def := classModel(t, "fallback", "")
	require.NoError(t, reg.Register(def))

	res, err := reg.Resolve(nil)
	require.NoError(t, err)
	require.Len(t, res.Models, 1)
	assert.Equal(t, "fallback", res.Models[0].Name())
	assert.Empty(t, res.Types)

	// a type with no registered model falls back too, keeping the type
	res, err = reg.Resolve([]quad.IRI{clsPerson})
	require.NoError(t, err)
	assert.Equal(t, "fallback", res.Models[0].Name())
	assert.Equal(t, []quad.IRI{clsPerson}, res.Types)
}

func TestResolveCaching(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(classModel(t, "person", clsPerson, clsPerson)))

	first, err := reg.Resolve([]quad.IRI{clsLocalPerson, clsPerson})
	require.NoError(t, err)
	assert.Equal(t, "person", first.Models[0].Name())

	// cached under the expanded type set as well
	again, err := reg.Resolve(first.Types)
	require.NoError(t, err)
	assert.Same(t, first, again)

	// registering a more specific model invalidates the cache
	require.NoError(t, reg.Register(classModel(t, "localperson", clsLocalPerson, clsLocalPerson, clsPerson)))
	res, err := reg.Resolve([]quad.IRI{clsLocalPerson, clsPerson})
	require.NoError(t, err)
	require.Len(t, res.Models, 1)
	assert.Equal(t, "localperson", res.Models[0].Name())
}

func TestRegisterDuplicates(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(classModel(t, "person", clsPerson, clsPerson)))
	assert.Error(t, reg.Register(classModel(t, "person", clsAgent, clsAgent)))
	assert.Error(t, reg.Register(classModel(t, "person2", clsPerson, clsPerson)))

	require.NoError(t, reg.Register(classModel(t, "fallback", "")))
	assert.Error(t, reg.Register(classModel(t, "fallback2", "")))
}

func TestUnregisterInvalidatesCache(t *testing.T) {
	reg := NewRegistry()
	person := classModel(t, "person", clsPerson, clsPerson)
	require.NoError(t, reg.Register(person))
	_, err := reg.Resolve([]quad.IRI{clsPerson})
	require.NoError(t, err)

	reg.Unregister(person)
	_, ok := reg.ModelByIRI(clsPerson)
	assert.False(t, ok)
	_, err = reg.Resolve([]quad.IRI{clsPerson})
	assert.ErrorIs(t, err, ErrNoLeafModel)
}

func TestNewModelReservedNames(t *testing.T) {
	p := mustProperty(t, "http://example.org/vocab#p", false, false, false, schema.UnknownProperty)
	a := buildAttr("id", p, "", "", nil, nil)
	_, err := NewModel("person", clsPerson, nil, nil, map[string]*Attribute{"id": a},
		RandomPrefixGenerator{Prefix: "http://example.org/r/"}, nil)
	require.Error(t, err)
	assert.IsType(t, ErrReservedName{}, err)
}

func TestIsSubclassOf(t *testing.T) {
	person := classModel(t, "person", clsPerson, clsPerson, clsAgent)
	agent := classModel(t, "agent", clsAgent, clsAgent)
	def := classModel(t, "fallback", "")

	assert.True(t, person.IsSubclassOf(person))
	assert.True(t, person.IsSubclassOf(agent))
	assert.False(t, agent.IsSubclassOf(person))
	assert.False(t, person.IsSubclassOf(def))
	assert.False(t, person.IsSubclassOf(nil))
}
