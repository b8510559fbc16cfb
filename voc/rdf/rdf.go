// Package rdf contains constants of the RDF Concepts Vocabulary (RDF).
package rdf

import "github.com/oldman-go/oldman/voc"

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	NS     = `http://www.w3.org/1999/02/22-rdf-syntax-ns#`
	Prefix = `rdf:`
)

const (
	// The subject is an instance of a class.
	Type = NS + `type`
	// The first item in the subject RDF list.
	First = NS + `first`
	// The rest of the subject RDF list after the first item.
	Rest = NS + `rest`
	// The empty list.
	Nil = NS + `nil`
	// The class of RDF Lists.
	List = NS + `List`
	// The class of RDF properties.
	Property = NS + `Property`
	// The datatype of language-tagged string values.
	LangString = NS + `langString`
)
