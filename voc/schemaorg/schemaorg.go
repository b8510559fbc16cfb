// Package schemaorg contains constants of the schema.org vocabulary.
package schemaorg

import "github.com/oldman-go/oldman/voc"

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	NS     = `http://schema.org/`
	Prefix = `schema:`
)

const (
	Person       = NS + `Person`
	Email        = NS + `email`
	Name         = NS + `name`
	Description  = NS + `description`
	URL          = NS + `url`
	CreativeWork = NS + `CreativeWork`
)
