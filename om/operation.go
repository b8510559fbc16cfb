package om

import "context"

// OperationHandler executes a model operation against a resource.
type OperationHandler func(ctx context.Context, r *Resource, payload []byte) (interface{}, error)

// Operation is a client-side method attached to a model, keyed by HTTP
// method at the REST boundary.
type Operation struct {
	Name    string
	Expects string
	Returns string
	Handler OperationHandler
}
