// Package hydra contains constants of the Hydra Core Vocabulary.
package hydra

import "github.com/oldman-go/oldman/voc"

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	NS     = `http://www.w3.org/ns/hydra/core#`
	Prefix = `hydra:`
)

const (
	// The class of Hydra classes.
	Class = NS + `Class`
	// A property known to be supported by a class.
	SupportedProperty = NS + `supportedProperty`
	// The property a supported-property description is about.
	Property = NS + `property`
	// True if the property is required, false otherwise.
	Required = NS + `required`
	// True if the client can retrieve but not change the property's value.
	ReadOnly = NS + `readonly`
	// True if the client can change but not retrieve the property's value.
	WriteOnly = NS + `writeonly`
	// The class of dereferenceable resources linked through a property.
	Link = NS + `Link`
	// A collection of resources.
	Collection = NS + `Collection`
	// A member of the collection.
	Member = NS + `member`
)
