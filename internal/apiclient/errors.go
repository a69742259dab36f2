package apiclient

import (
	"errors"
	"fmt"
)

// ErrTransport is matched by every failure that happened before a response
// was received.
var ErrTransport = errors.New("api unreachable")

// APIError is a non-2xx answer decoded from the API error envelope.
type APIError struct {
	Status  int    `json:"status"`
	Err     string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != "" {
		return e.Err
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// TransportError wraps a network failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }
