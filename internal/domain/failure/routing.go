package failure

import (
	"errors"
	"fmt"
)

// ErrRouteNotFound is raised by dispatch when no handler matched the request.
var ErrRouteNotFound = errors.New("route not found")

// Routing is a failure raised while binding a request, before any handler body runs.
type Routing interface {
	error
	routing()
}

// NoSessionError means the request needs a session and none has been created.
type NoSessionError struct{}

func (*NoSessionError) Error() string { return "no session has been created yet" }
func (*NoSessionError) routing()      {}

// InvalidQueryError means the query string could not be decoded.
type InvalidQueryError struct {
	Query  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query string \"%s\": %s", e.Query, e.Reason)
}
func (*InvalidQueryError) routing() {}

// QueryMissingError means a required query string was absent.
type QueryMissingError struct{}

func (*QueryMissingError) Error() string { return "required query string is missing" }
func (*QueryMissingError) routing()      {}
