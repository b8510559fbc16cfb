package om

import (
	"context"
	"sort"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/ldcontext"
	"github.com/oldman-go/oldman/schema"
	"github.com/oldman-go/oldman/values"
)

// ModelDefinition is the user-supplied recipe for one model: a name, the
// class IRI it maps, a JSON-LD context payload and optional id-generation
// and operation policies.
type ModelDefinition struct {
	Name           string
	ClassIRI       quad.IRI
	ContextPayload interface{}
	IDGenerator    IDGenerator
	// Operations maps HTTP methods to model operations.
	Operations map[string]*Operation
}

// ModelBuilder turns model definitions into registered models by resolving
// the class ancestry and extracting properties and attribute metadata from
// the schema graph.
type ModelBuilder struct {
	registry      *Registry
	values        *values.Registry
	propExtractor schema.PropertyExtractor
	attrExtractor schema.AttributeMetadataExtractor
}

// NewModelBuilder returns a builder using the hydra property extractor and
// the JSON-LD context attribute extractor.
func NewModelBuilder(reg *Registry, vals *values.Registry) *ModelBuilder {
	return &ModelBuilder{
		registry:      reg,
		values:        vals,
		propExtractor: schema.HydraPropertyExtractor{},
		attrExtractor: schema.ContextAttributeExtractor{},
	}
}

// SetPropertyExtractor overrides the property extraction strategy.
func (b *ModelBuilder) SetPropertyExtractor(e schema.PropertyExtractor) { b.propExtractor = e }

// SetAttributeExtractor overrides the attribute metadata extraction
// strategy.
func (b *ModelBuilder) SetAttributeExtractor(e schema.AttributeMetadataExtractor) {
	b.attrExtractor = e
}

// Registry returns the model registry the builder registers into.
func (b *ModelBuilder) Registry() *Registry { return b.registry }

// BuildModel resolves, builds and registers one model against the schema
// graph.
func (b *ModelBuilder) BuildModel(ctx context.Context, g schema.Queryer, def ModelDefinition) (*Model, error) {
	payload := def.ContextPayload
	if payload == nil {
		payload = map[string]interface{}{"@context": map[string]interface{}{}}
	}
	resolver, err := ldcontext.Parse(payload)
	if err != nil {
		return nil, err
	}

	ancestry, err := schema.ResolveAncestry(ctx, g, def.ClassIRI)
	if err != nil {
		return nil, err
	}

	// Properties are gathered over the whole ancestry; constraint flags
	// merge across classes (required anywhere means required).
	props := make(map[quad.IRI]*schema.Property)
	for _, class := range ancestry.BottomUp() {
		if err := b.propExtractor.ExtractProperties(ctx, g, class, props); err != nil {
			return nil, err
		}
	}
	if err := b.attrExtractor.ExtractAttributeMetadata(props, resolver); err != nil {
		return nil, err
	}

	iris := make([]quad.IRI, 0, len(props))
	for iri := range props {
		iris = append(iris, iri)
	}
	sort.Slice(iris, func(i, j int) bool { return iris[i] < iris[j] })

	attributes := make(map[string]*Attribute)
	for _, iri := range iris {
		p := props[iri]
		group := &PropertyGroup{Property: p.IRI(), Required: p.Required()}
		err := p.GenerateAttributes(func(md schema.AttributeMetadata) error {
			if _, dup := attributes[md.Name]; dup {
				return schema.ErrDefinition{Reason: "attribute name " + md.Name + " generated twice for class " + string(def.ClassIRI)}
			}
			format := b.values.Find(string(p.IRI()), md.ValueType, p.Type() == schema.ObjectProperty)
			attributes[md.Name] = NewAttribute(md, format, group)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	idGen := def.IDGenerator
	if idGen == nil {
		idGen = RandomPrefixGenerator{Prefix: "http://" + skolemHost + skolemPath}
	}
	m, err := NewModel(def.Name, def.ClassIRI, ancestry.BottomUp(), resolver, attributes, idGen, def.Operations)
	if err != nil {
		return nil, err
	}
	if err := b.registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}
