// Package oldm contains constants of the oldman annotation vocabulary:
// ancestry priorities and the sequential IRI counter.
package oldm

import "github.com/oldman-go/oldman/voc"

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	NS     = `urn:oldman:`
	Prefix = `oldm:`
)

const (
	// ChildClass links a priority annotation to the class it orders the
	// parents of.
	ChildClass = NS + `childClass`
	// ParentClass links a priority annotation to one direct parent.
	ParentClass = NS + `parentClass`
	// Priority is the numeric priority of a (child, parent) pair.
	// Parents are ordered by descending priority; absent means lowest.
	Priority = NS + `priority`
	// NextNumber is the per-class counter used by the incremental IRI
	// generator.
	NextNumber = NS + `nextNumber`
)
