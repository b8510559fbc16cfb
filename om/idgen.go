package om

import (
	"context"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/google/uuid"
)

// IDHint carries the optional IRI-minting hints of a temporary id.
type IDHint struct {
	SuggestedHashlessIRI string
	Fragment             string
	Collection           string
	ClassIRI             quad.IRI
}

// IDGenerator mints a permanent IRI for a resource at first persistence.
type IDGenerator interface {
	Generate(ctx context.Context, hint IDHint) (quad.IRI, error)
}

// RandomPrefixGenerator mints random-UUID IRIs under a fixed prefix,
// optionally with a fixed fragment appended.
type RandomPrefixGenerator struct {
	Prefix   string
	Fragment string
}

func (g RandomPrefixGenerator) Generate(ctx context.Context, hint IDHint) (quad.IRI, error) {
	prefix := g.Prefix
	if hint.Collection != "" {
		prefix = hint.Collection
	}
	if !strings.HasSuffix(prefix, "/") && !strings.HasSuffix(prefix, "#") {
		prefix += "/"
	}
	iri := prefix + uuid.NewString()
	frag := g.Fragment
	if hint.Fragment != "" {
		frag = hint.Fragment
	}
	if frag != "" {
		iri += "#" + frag
	}
	if err := CheckIRI(iri); err != nil {
		return "", err
	}
	return quad.IRI(iri), nil
}

// FragmentGenerator mints IRIs by appending a random UUID fragment to the
// suggested hashless IRI.
type FragmentGenerator struct {
	// Base is used when the temporary id carries no suggested hashless
	// IRI.
	Base string
}

func (g FragmentGenerator) Generate(ctx context.Context, hint IDHint) (quad.IRI, error) {
	base := hint.SuggestedHashlessIRI
	if base == "" {
		base = g.Base
	}
	frag := hint.Fragment
	if frag == "" {
		frag = uuid.NewString()
	}
	iri := base + "#" + frag
	if err := CheckIRI(iri); err != nil {
		return "", err
	}
	return quad.IRI(iri), nil
}
