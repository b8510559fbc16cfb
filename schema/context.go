package schema

import (
	"sort"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/clog"
	"github.com/oldman-go/oldman/ldcontext"
	"github.com/oldman-go/oldman/voc"
)

// AttributeMetadataExtractor attaches JSON-LD term metadata to extracted
// properties.
type AttributeMetadataExtractor interface {
	ExtractAttributeMetadata(props map[quad.IRI]*Property, resolver ldcontext.Resolver) error
}

// ContextAttributeExtractor resolves each property IRI against a JSON-LD
// context. One property may yield several attributes (e.g. language
// variants of the same property). Properties without a matching term get a
// synthetic name derived from the prefix registry, with a warning.
type ContextAttributeExtractor struct{}

var _ AttributeMetadataExtractor = ContextAttributeExtractor{}

// ExtractAttributeMetadata implements AttributeMetadataExtractor.
func (ContextAttributeExtractor) ExtractAttributeMetadata(props map[quad.IRI]*Property, resolver ldcontext.Resolver) error {
	iris := make([]quad.IRI, 0, len(props))
	for iri := range props {
		iris = append(iris, iri)
	}
	sort.Slice(iris, func(i, j int) bool { return iris[i] < iris[j] })
	for _, iri := range iris {
		p := props[iri]
		terms := resolver.TermsFor(string(iri))
		if len(terms) == 0 {
			name := syntheticName(string(iri))
			clog.Warningf("no JSON-LD term found for property %s; using synthetic attribute name %q", iri, name)
			terms = []ldcontext.Term{{Name: name, IRI: string(iri)}}
		}
		for _, t := range terms {
			if err := p.AddMetadata(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// syntheticName derives an attribute name from the prefix registry, falling
// back to the IRI's local part.
func syntheticName(iri string) string {
	if short := voc.ShortIRI(iri); short != iri {
		return strings.Replace(short, ":", "_", 1)
	}
	if i := strings.LastIndexAny(iri, "#/"); i >= 0 && i < len(iri)-1 {
		return iri[i+1:]
	}
	return iri
}
