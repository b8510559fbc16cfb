package om

import (
	"errors"
	"fmt"

	"github.com/cayleygraph/quad"
)

// Edit errors: a value failed a format, container, required or read-only
// check. Recoverable by the caller.
var (
	// ErrNoChange is returned by Entry.Diff when nothing has changed.
	ErrNoChange = errors.New("om: entry has no pending change")
)

// ErrReadOnly reports an end-user edit of a read-only attribute.
type ErrReadOnly struct {
	Attribute string
}

func (e ErrReadOnly) Error() string {
	return fmt.Sprintf("om: attribute %q is read-only", e.Attribute)
}

// ErrRequired reports a required property with no value on any of its
// attributes.
type ErrRequired struct {
	Attribute string
	Property  quad.IRI
}

func (e ErrRequired) Error() string {
	return fmt.Sprintf("om: required property %s (attribute %q) has no value", e.Property, e.Attribute)
}

// ErrContainer reports a value whose shape does not match the attribute's
// declared container.
type ErrContainer struct {
	Attribute string
	Container string
	Value     interface{}
}

func (e ErrContainer) Error() string {
	c := e.Container
	if c == "" {
		c = "single value or set"
	}
	return fmt.Sprintf("om: attribute %q expects %s, got %T", e.Attribute, c, e.Value)
}

// Access errors: surfaced immediately, never silently swallowed.

// ErrNoSuchAttribute reports an unknown attribute name.
type ErrNoSuchAttribute struct {
	Name string
}

func (e ErrNoSuchAttribute) Error() string {
	return fmt.Sprintf("om: no such attribute %q", e.Name)
}

// ErrNotFound reports a resource that could not be located in any store.
type ErrNotFound struct {
	IRI quad.IRI
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("om: resource %s not found", e.IRI)
}

// ErrWrongType reports a resource that is not an instance of the expected
// types.
type ErrWrongType struct {
	IRI      quad.IRI
	Expected []quad.IRI
}

func (e ErrWrongType) Error() string {
	return fmt.Sprintf("om: resource %s is not an instance of %v", e.IRI, e.Expected)
}

// ErrUnique reports an attempt to create a resource with an IRI that
// already exists in the store.
type ErrUnique struct {
	IRI quad.IRI
}

func (e ErrUnique) Error() string {
	return fmt.Sprintf("om: IRI %s already exists", e.IRI)
}

// Internal errors: programming or configuration defects, fatal.
var (
	// ErrNoDefaultModel indicates no default model is registered while
	// an untyped resource needs one.
	ErrNoDefaultModel = errors.New("om: no default model registered")
	// ErrNoLeafModel indicates leaf disambiguation left no candidate.
	ErrNoLeafModel = errors.New("om: no remaining candidate model after disambiguation")
	// ErrDeleted indicates an operation on a deleted resource.
	ErrDeleted = errors.New("om: resource has been deleted")
)

// ErrReservedName reports a model constructed with a reserved attribute
// name. A definition error.
type ErrReservedName struct {
	Name string
}

func (e ErrReservedName) Error() string {
	return fmt.Sprintf("om: attribute name %q is reserved", e.Name)
}

// ErrInvalidIRI reports an IRI without a scheme or path.
type ErrInvalidIRI struct {
	IRI string
}

func (e ErrInvalidIRI) Error() string {
	return fmt.Sprintf("om: invalid IRI %q: a scheme and a non-empty path are required", e.IRI)
}
