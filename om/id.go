// Copyright 2025 The OldMan Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package om

import (
	"net/url"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/google/uuid"
)

// Skolem IRIs stand in for blank nodes so ordinary identity machinery can
// track them.
const (
	skolemHost = "localhost"
	skolemPath = "/.well-known/genid/"
)

// NewSkolemIRI mints a fresh skolemized blank-node IRI.
func NewSkolemIRI() quad.IRI {
	return quad.IRI("http://" + skolemHost + skolemPath + uuid.NewString())
}

// IsSkolemIRI reports whether the IRI is a skolemized blank node: host
// localhost and a path under /.well-known/genid/.
func IsSkolemIRI(iri quad.IRI) bool {
	u, err := url.Parse(string(iri))
	if err != nil {
		return false
	}
	return u.Hostname() == skolemHost && strings.Contains(u.Path, skolemPath)
}

// CheckIRI verifies an IRI has both a scheme and a non-empty path.
func CheckIRI(iri string) error {
	u, err := url.Parse(iri)
	if err != nil || u.Scheme == "" {
		return ErrInvalidIRI{IRI: iri}
	}
	if u.Opaque == "" && u.Path == "" && u.Host == "" {
		return ErrInvalidIRI{IRI: iri}
	}
	return nil
}

// HashlessIRI strips any #fragment from an IRI.
func HashlessIRI(iri quad.IRI) string {
	s := string(iri)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

// ID is a resource identity, either temporary (pre-persistence) or
// permanent. Promotion from temporary to permanent happens exactly once,
// at first successful persistence.
type ID struct {
	iri       quad.IRI
	temporary bool

	// hints consumed by ID generators when minting the permanent IRI
	suggestedHashless string
	fragment          string
	collection        string
}

// NewPermanentID wraps a stable IRI.
func NewPermanentID(iri quad.IRI) (ID, error) {
	if err := CheckIRI(string(iri)); err != nil {
		return ID{}, err
	}
	return ID{iri: iri}, nil
}

// NewTemporaryID assigns a skolemized placeholder identity. The hints are
// kept for the ID generator that later mints the permanent IRI.
func NewTemporaryID(suggestedHashlessIRI, fragment, collection string) ID {
	return ID{
		iri:               NewSkolemIRI(),
		temporary:         true,
		suggestedHashless: suggestedHashlessIRI,
		fragment:          fragment,
		collection:        collection,
	}
}

// IRI returns the current IRI (the skolem placeholder for temporary ids).
func (id ID) IRI() quad.IRI { return id.iri }

// IsTemporary reports whether the id awaits promotion.
func (id ID) IsTemporary() bool { return id.temporary }

// IsBlankNode reports whether the IRI is a skolemized blank node.
func (id ID) IsBlankNode() bool { return IsSkolemIRI(id.iri) }

// Hashless returns the IRI with any fragment removed.
func (id ID) Hashless() string { return HashlessIRI(id.iri) }

// Hint describes the IRI-minting hints carried by a temporary id.
func (id ID) Hint() IDHint {
	return IDHint{
		SuggestedHashlessIRI: id.suggestedHashless,
		Fragment:             id.fragment,
		Collection:           id.collection,
	}
}
