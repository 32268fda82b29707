package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingID is returned without contacting the server when an
	// operation needs a record id and none was given.
	ErrMissingID = errors.New("missing record id")

	// ErrMalformedPayload means the server answered a fetch with something
	// that is neither a record list nor an error object.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrUnsupported means the table kind has no endpoint for the operation.
	ErrUnsupported = errors.New("operation not supported for this table")
)

// APIError is a failure reported by the backend, either through a
// non-success HTTP status or an {"error": ...} body.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%v: status %d: %v", e.Op, e.Status, e.Message)
	}

	return fmt.Sprintf("%v: %v", e.Op, e.Message)
}

// Message returns the backend's own error text when err carries one, or
// err's text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return err.Error()
}
