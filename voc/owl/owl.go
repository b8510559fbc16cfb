// Package owl contains constants of the Web Ontology Language (OWL)
// vocabulary.
package owl

import "github.com/oldman-go/oldman/voc"

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	NS     = `http://www.w3.org/2002/07/owl#`
	Prefix = `owl:`
)

const (
	Class            = NS + `Class`
	ObjectProperty   = NS + `ObjectProperty`
	DatatypeProperty = NS + `DatatypeProperty`
	Thing            = NS + `Thing`
)
