package session

import (
	"context"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/om"
)

// Reference is one subject-attribute-object edge tracked by the session.
// It answers reverse-attribute lookups without a store round-trip and
// feeds the flush dependency ordering. The object resource is resolved
// lazily.
type Reference struct {
	Subject       *om.Resource
	AttributeName string
	ObjectIRI     quad.IRI

	object *om.Resource
}

// Resolve returns the object resource, loading it through the session on
// first use.
func (ref *Reference) Resolve(ctx context.Context, s *Session) (*om.Resource, error) {
	if ref.object != nil {
		return ref.object, nil
	}
	r, err := s.Get(ctx, ref.ObjectIRI)
	if err != nil {
		return nil, err
	}
	ref.object = r
	return r, nil
}
