package sparqlstore

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/voc/rdf"
)

func subgraphQuery(iri quad.IRI) string {
	return fmt.Sprintf("SELECT ?p ?o WHERE { %s ?p ?o . }", iri)
}

func reverseQuery(iri quad.IRI) string {
	return fmt.Sprintf("SELECT ?s ?p WHERE { ?s ?p %s . }", iri)
}

func existsQuery(iri quad.IRI) string {
	return fmt.Sprintf("SELECT ?p WHERE { %s ?p ?o . } LIMIT 1", iri)
}

// filterQuery builds the SELECT DISTINCT ?s pattern from type triples,
// attribute value triples and an optional hashless-IRI restriction.
func filterQuery(types []quad.IRI, valueTriples []string, hashlessIRI string, limit int) string {
	var b strings.Builder
	b.WriteString("SELECT DISTINCT ?s WHERE {")
	if len(types) == 0 && len(valueTriples) == 0 {
		// nothing else binds ?s
		b.WriteString(" ?s ?p ?o .")
	}
	for _, t := range types {
		fmt.Fprintf(&b, " ?s %s %s .", quad.IRI(rdf.Type), t)
	}
	for _, vt := range valueTriples {
		b.WriteString(" ")
		b.WriteString(vt)
	}
	if hashlessIRI != "" {
		fmt.Fprintf(&b, ` FILTER REGEX(STR(?s), "^%s") .`, regexp.QuoteMeta(hashlessIRI))
	}
	b.WriteString(" }")
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	return b.String()
}

// valueTriple renders one attribute value restriction, honoring @reverse.
func valueTriple(a *om.Attribute, term quad.Value) string {
	if a.Reversed() {
		return fmt.Sprintf("%s %s ?s .", term, a.PropertyIRI())
	}
	return fmt.Sprintf("?s %s %s .", a.PropertyIRI(), term)
}

// updateText combines a resource diff into one SPARQL update request:
// ground removals and inserts as DELETE DATA / INSERT DATA, plus one
// cascade operation pair per dropped skolemized blank node. Operations are
// separated by ";" and executed as a single request.
func updateText(d *om.Diff) string {
	var ops []string
	if len(d.Removals) > 0 {
		ops = append(ops, "DELETE DATA {\n"+strings.Join(d.Removals, "\n")+"\n}")
	}
	if len(d.Inserts) > 0 {
		ops = append(ops, "INSERT DATA {\n"+strings.Join(d.Inserts, "\n")+"\n}")
	}
	for _, bn := range d.Cascade {
		ops = append(ops, fmt.Sprintf("DELETE { %s ?p ?o . } WHERE { %s ?p ?o . }", bn, bn))
		ops = append(ops, fmt.Sprintf("DELETE { ?s ?p %s . } WHERE { ?s ?p %s . }", bn, bn))
	}
	return strings.Join(ops, " ;\n")
}
