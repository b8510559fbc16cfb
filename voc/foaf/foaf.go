// Package foaf contains constants of the Friend of a Friend (FOAF) vocabulary.
package foaf

import "github.com/oldman-go/oldman/voc"

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	NS     = `http://xmlns.com/foaf/0.1/`
	Prefix = `foaf:`
)

const (
	// A person.
	Person = NS + `Person`
	// A name for some thing.
	Name = NS + `name`
	// A personal mailbox.
	Mbox = NS + `mbox`
	// The sha1sum of the URI of an Internet mailbox.
	MboxSha1Sum = NS + `mbox_sha1sum`
	// A homepage for some thing.
	Homepage = NS + `homepage`
	// An agent (person, group, software or physical artifact).
	Agent = NS + `Agent`
)
