package schema

import (
	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/ldcontext"
)

// PropertyType distinguishes datatype and object properties.
type PropertyType int

const (
	UnknownProperty PropertyType = iota
	DatatypeProperty
	ObjectProperty
)

func (t PropertyType) String() string {
	switch t {
	case DatatypeProperty:
		return "datatype property"
	case ObjectProperty:
		return "object property"
	}
	return "unknown property"
}

// AttributeMetadata is the immutable JSON-LD term metadata attached to a
// property before attribute generation.
type AttributeMetadata struct {
	// Name is the JSON-LD term name.
	Name string
	// Property is the owning property.
	Property *Property
	// Language is an optional BCP-47 tag.
	Language string
	// ValueType is the coerced datatype IRI or "@id"; empty if none.
	ValueType string
	// Container is "", "@set", "@list" or "@language".
	Container string
	// Reversed reports a @reverse term.
	Reversed bool
}

// Property describes one RDF property supported by a class.
type Property struct {
	iri       quad.IRI
	supporter quad.IRI

	required  bool
	readOnly  bool
	writeOnly bool

	typ     PropertyType
	ranges  map[quad.IRI]bool
	domains map[quad.IRI]bool

	metadata  []AttributeMetadata
	generated bool
}

// NewProperty creates a property supported by the given class. Declaring it
// both read-only and write-only is a definition error.
func NewProperty(iri, supporter quad.IRI, required, readOnly, writeOnly bool) (*Property, error) {
	if readOnly && writeOnly {
		return nil, definitionErrorf("property %s cannot be both read-only and write-only", iri)
	}
	return &Property{
		iri:       iri,
		supporter: supporter,
		required:  required,
		readOnly:  readOnly,
		writeOnly: writeOnly,
		ranges:    make(map[quad.IRI]bool),
		domains:   make(map[quad.IRI]bool),
	}, nil
}

func (p *Property) IRI() quad.IRI       { return p.iri }
func (p *Property) Supporter() quad.IRI { return p.supporter }
func (p *Property) Required() bool      { return p.required }
func (p *Property) ReadOnly() bool      { return p.readOnly }
func (p *Property) WriteOnly() bool     { return p.writeOnly }
func (p *Property) Type() PropertyType  { return p.typ }

// MergeFlags ORs constraint flags discovered on another ancestor class.
// Once required anywhere in the ancestry, always required.
func (p *Property) MergeFlags(required, readOnly, writeOnly bool) error {
	if (p.readOnly || readOnly) && (p.writeOnly || writeOnly) {
		return definitionErrorf("property %s declared both read-only and write-only across the ancestry", p.iri)
	}
	p.required = p.required || required
	p.readOnly = p.readOnly || readOnly
	p.writeOnly = p.writeOnly || writeOnly
	return nil
}

// SetType declares the property kind. It may be set once; a conflicting
// re-declaration is a definition error.
func (p *Property) SetType(t PropertyType) error {
	if t == UnknownProperty || p.typ == t {
		return nil
	}
	if p.typ != UnknownProperty {
		return definitionErrorf("property %s declared as %s and %s", p.iri, p.typ, t)
	}
	p.typ = t
	return nil
}

// AddRange records a datatype or class IRI from an rdfs:range triple.
func (p *Property) AddRange(iri quad.IRI) { p.ranges[iri] = true }

// AddDomain records a class IRI from an rdfs:domain triple.
func (p *Property) AddDomain(iri quad.IRI) { p.domains[iri] = true }

// Ranges returns the declared range IRIs.
func (p *Property) Ranges() []quad.IRI { return iriSet(p.ranges) }

// Domains returns the declared domain IRIs.
func (p *Property) Domains() []quad.IRI { return iriSet(p.domains) }

func iriSet(m map[quad.IRI]bool) []quad.IRI {
	out := make([]quad.IRI, 0, len(m))
	for iri := range m {
		out = append(out, iri)
	}
	return out
}

// AddMetadata attaches one JSON-LD term to the property. Attaching after
// attributes have been generated is an internal-consistency error.
// Declaring two conflicting value types for the same term name is a
// definition error; "@index" containers are not implemented.
func (p *Property) AddMetadata(term ldcontext.Term) error {
	if p.generated {
		return ErrInternal{Reason: "metadata attached after attribute generation for " + string(p.iri)}
	}
	if term.Container == ldcontext.ContainerIndex {
		return ErrNotImplemented
	}
	for _, md := range p.metadata {
		if md.Name == term.Name && md.ValueType != term.Type {
			return definitionErrorf("conflicting datatypes %q and %q for term %q of property %s",
				md.ValueType, term.Type, term.Name, p.iri)
		}
	}
	p.metadata = append(p.metadata, AttributeMetadata{
		Name:      term.Name,
		Property:  p,
		Language:  term.Language,
		ValueType: term.Type,
		Container: term.Container,
		Reversed:  term.Reversed,
	})
	return nil
}

// Metadata returns the attached attribute metadata.
func (p *Property) Metadata() []AttributeMetadata {
	out := make([]AttributeMetadata, len(p.metadata))
	copy(out, p.metadata)
	return out
}

// GenerateAttributes performs the one-shot transition from metadata to
// attributes: the build callback is invoked once per metadata entry.
// Calling it a second time is an internal-consistency error.
func (p *Property) GenerateAttributes(build func(md AttributeMetadata) error) error {
	if p.generated {
		return ErrInternal{Reason: "attributes already generated for " + string(p.iri)}
	}
	p.generated = true
	for _, md := range p.metadata {
		if err := build(md); err != nil {
			return err
		}
	}
	return nil
}

// Generated reports whether the one-shot attribute generation has happened.
func (p *Property) Generated() bool { return p.generated }
