package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/voc/hydra"
	"github.com/oldman-go/oldman/voc/owl"
	"github.com/oldman-go/oldman/voc/rdf"
	"github.com/oldman-go/oldman/voc/rdfs"
	"github.com/oldman-go/oldman/voc/xsd"
)

// PropertyExtractor discovers the properties supported by a class and
// merges their constraint flags into the given property map.
type PropertyExtractor interface {
	ExtractProperties(ctx context.Context, g Queryer, class quad.IRI, props map[quad.IRI]*Property) error
}

// HydraPropertyExtractor reads hydra:supportedProperty descriptions from
// the schema graph.
type HydraPropertyExtractor struct{}

var _ PropertyExtractor = HydraPropertyExtractor{}

// ExtractProperties implements PropertyExtractor. Constraint flags are
// OR-merged with flags already discovered on other ancestor classes.
func (HydraPropertyExtractor) ExtractProperties(ctx context.Context, g Queryer, class quad.IRI, props map[quad.IRI]*Property) error {
	sols, err := g.Select(ctx, fmt.Sprintf(
		"SELECT ?sp ?property WHERE { %s <%s> ?sp . ?sp <%s> ?property . }",
		class, hydra.SupportedProperty, hydra.Property))
	if err != nil {
		return fmt.Errorf("schema: supported-property query for %s: %w", class, err)
	}
	for _, sol := range sols {
		sp, ok := sol["sp"].(quad.IRI)
		if !ok {
			continue
		}
		propIRI, ok := sol["property"].(quad.IRI)
		if !ok {
			continue
		}
		required, err := boolFlag(ctx, g, sp, hydra.Required)
		if err != nil {
			return err
		}
		readOnly, err := boolFlag(ctx, g, sp, hydra.ReadOnly)
		if err != nil {
			return err
		}
		writeOnly, err := boolFlag(ctx, g, sp, hydra.WriteOnly)
		if err != nil {
			return err
		}
		p := props[propIRI]
		if p == nil {
			p, err = NewProperty(propIRI, class, required, readOnly, writeOnly)
			if err != nil {
				return err
			}
			props[propIRI] = p
		} else if err := p.MergeFlags(required, readOnly, writeOnly); err != nil {
			return err
		}
		if err := describeProperty(ctx, g, p); err != nil {
			return err
		}
	}
	return nil
}

// describeProperty fills ranges, domains and the property kind from the
// vocabulary.
func describeProperty(ctx context.Context, g Queryer, p *Property) error {
	sols, err := g.Select(ctx, fmt.Sprintf(
		"SELECT ?type WHERE { %s <%s> ?type . }", p.IRI(), rdf.Type))
	if err != nil {
		return fmt.Errorf("schema: property type query for %s: %w", p.IRI(), err)
	}
	for _, sol := range sols {
		t, ok := sol["type"].(quad.IRI)
		if !ok {
			continue
		}
		switch string(t) {
		case owl.ObjectProperty, hydra.Link:
			if err := p.SetType(ObjectProperty); err != nil {
				return err
			}
		case owl.DatatypeProperty:
			if err := p.SetType(DatatypeProperty); err != nil {
				return err
			}
		}
	}
	sols, err = g.Select(ctx, fmt.Sprintf(
		"SELECT ?range WHERE { %s <%s> ?range . }", p.IRI(), rdfs.Range))
	if err != nil {
		return fmt.Errorf("schema: range query for %s: %w", p.IRI(), err)
	}
	for _, sol := range sols {
		r, ok := sol["range"].(quad.IRI)
		if !ok {
			continue
		}
		p.AddRange(r)
		if strings.HasPrefix(string(r), xsd.NS) {
			if err := p.SetType(DatatypeProperty); err != nil {
				return err
			}
		}
	}
	sols, err = g.Select(ctx, fmt.Sprintf(
		"SELECT ?domain WHERE { %s <%s> ?domain . }", p.IRI(), rdfs.Domain))
	if err != nil {
		return fmt.Errorf("schema: domain query for %s: %w", p.IRI(), err)
	}
	for _, sol := range sols {
		if d, ok := sol["domain"].(quad.IRI); ok {
			p.AddDomain(d)
		}
	}
	return nil
}

func boolFlag(ctx context.Context, g Queryer, subject quad.IRI, pred string) (bool, error) {
	sols, err := g.Select(ctx, fmt.Sprintf(
		"SELECT ?v WHERE { %s <%s> ?v . }", subject, pred))
	if err != nil {
		return false, fmt.Errorf("schema: flag query %s on %s: %w", pred, subject, err)
	}
	for _, sol := range sols {
		switch v := sol["v"].(type) {
		case quad.Bool:
			return bool(v), nil
		case quad.TypedString:
			return string(v.Value) == "true" || string(v.Value) == "1", nil
		case quad.String:
			return string(v) == "true" || string(v) == "1", nil
		}
	}
	return false, nil
}
