// Package rdfs contains constants of the RDF Schema vocabulary (RDFS).
package rdfs

import "github.com/oldman-go/oldman/voc"

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	NS     = `http://www.w3.org/2000/01/rdf-schema#`
	Prefix = `rdfs:`
)

const (
	// The class of classes.
	Class = NS + `Class`
	// The subject is a subclass of a class.
	SubClassOf = NS + `subClassOf`
	// The subject is a subproperty of a property.
	SubPropertyOf = NS + `subPropertyOf`
	// A domain of the subject property.
	Domain = NS + `domain`
	// A range of the subject property.
	Range = NS + `range`
	// A human-readable name for the subject.
	Label = NS + `label`
	// A description of the subject resource.
	Comment = NS + `comment`
	// The class of literal values.
	Literal = NS + `Literal`
	// The class of RDF resources.
	Resource = NS + `Resource`
)
