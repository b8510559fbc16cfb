// Package voc implements an RDF namespace (vocabulary) registry.
package voc

import (
	"strings"
	"sync"
)

// Namespace is a semantic web namespace.
type Namespace struct {
	Full   string
	Prefix string
}

// Namespaces is a set of registered namespaces.
type Namespaces struct {
	mu sync.RWMutex
	m  map[string]string // prefix -> full
}

// Register adds a namespace to the set.
func (p *Namespaces) Register(ns Namespace) {
	p.mu.Lock()
	if p.m == nil {
		p.m = make(map[string]string)
	}
	p.m[ns.Prefix] = ns.Full
	p.mu.Unlock()
}

// ShortIRI replaces a base IRI of a known vocabulary with its prefix.
//
//	ShortIRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type") // returns "rdf:type"
func (p *Namespaces) ShortIRI(iri string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for pref, ns := range p.m {
		if strings.HasPrefix(iri, ns) {
			return pref + iri[len(ns):]
		}
	}
	return iri
}

var global Namespaces

// Register adds a namespace to the global registry.
func Register(ns Namespace) { global.Register(ns) }

// RegisterPrefix associates a given prefix with a base vocabulary IRI in the
// global registry.
func RegisterPrefix(pref string, full string) {
	Register(Namespace{Prefix: pref, Full: full})
}

// ShortIRI replaces a base IRI of a known vocabulary with its prefix
// (global registry).
func ShortIRI(iri string) string { return global.ShortIRI(iri) }
