package ldcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personContext() map[string]interface{} {
	return map[string]interface{}{
		"@context": map[string]interface{}{
			"foaf":   "http://xmlns.com/foaf/0.1/",
			"xsd":    "http://www.w3.org/2001/XMLSchema#",
			"name":   map[string]interface{}{"@id": "foaf:name", "@type": "xsd:string"},
			"mboxes": map[string]interface{}{"@id": "foaf:mbox", "@container": "@set"},
			"emails": map[string]interface{}{"@id": "foaf:mbox", "@container": "@list"},
			"short_bio_en": map[string]interface{}{
				"@id": "http://example.org/vocab#shortBio", "@language": "en",
			},
			"short_bio_fr": map[string]interface{}{
				"@id": "http://example.org/vocab#shortBio", "@language": "fr",
			},
			"employer": map[string]interface{}{"@id": "http://example.org/vocab#employer", "@type": "@id"},
		},
	}
}

func TestParseTerms(t *testing.T) {
	c, err := Parse(personContext())
	require.NoError(t, err)

	name := c.TermsFor("http://xmlns.com/foaf/0.1/name")
	require.Len(t, name, 1)
	assert.Equal(t, "name", name[0].Name)
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#string", name[0].Type)
	assert.Equal(t, ContainerNone, name[0].Container)

	employer := c.TermsFor("http://example.org/vocab#employer")
	require.Len(t, employer, 1)
	assert.Equal(t, "@id", employer[0].Type)
}

func TestParseMultipleTermsPerProperty(t *testing.T) {
	c, err := Parse(personContext())
	require.NoError(t, err)

	mbox := c.TermsFor("http://xmlns.com/foaf/0.1/mbox")
	require.Len(t, mbox, 2)
	// terms come back sorted by name
	assert.Equal(t, "emails", mbox[0].Name)
	assert.Equal(t, ContainerList, mbox[0].Container)
	assert.Equal(t, "mboxes", mbox[1].Name)
	assert.Equal(t, ContainerSet, mbox[1].Container)

	bio := c.TermsFor("http://example.org/vocab#shortBio")
	require.Len(t, bio, 2)
	assert.Equal(t, "en", bio[0].Language)
	assert.Equal(t, "fr", bio[1].Language)
}

func TestParseBareContextValue(t *testing.T) {
	c, err := Parse(map[string]interface{}{
		"knows": map[string]interface{}{"@id": "http://xmlns.com/foaf/0.1/knows", "@type": "@id"},
	})
	require.NoError(t, err)
	terms := c.TermsFor("http://xmlns.com/foaf/0.1/knows")
	require.Len(t, terms, 1)
	assert.Equal(t, "knows", terms[0].Name)
}

func TestParseUnknownProperty(t *testing.T) {
	c, err := Parse(personContext())
	require.NoError(t, err)
	assert.Empty(t, c.TermsFor("http://example.org/vocab#unmapped"))
}

func TestPayloadPreserved(t *testing.T) {
	payload := personContext()
	c, err := Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, payload, c.Payload())
}

func TestParseBadPayload(t *testing.T) {
	_, err := Parse(42)
	assert.Error(t, err)
}
