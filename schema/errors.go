package schema

import (
	"errors"
	"fmt"
)

// ErrNotImplemented reports a schema or context construct this mapper does
// not support (e.g. "@index" containers).
var ErrNotImplemented = errors.New("schema: construct is not implemented")

// ErrDefinition reports an inconsistency in the schema or context
// definitions. It is fatal at model-construction time.
type ErrDefinition struct {
	Reason string
}

func (e ErrDefinition) Error() string {
	return "schema: definition error: " + e.Reason
}

// ErrInternal reports an internal-consistency violation, such as attaching
// metadata to a property after its attributes have been generated.
type ErrInternal struct {
	Reason string
}

func (e ErrInternal) Error() string {
	return "schema: internal error: " + e.Reason
}

func definitionErrorf(format string, args ...interface{}) error {
	return ErrDefinition{Reason: fmt.Sprintf(format, args...)}
}
