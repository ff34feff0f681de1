package gateway

import "fmt"

// ValidationError means the buffer was rejected locally and no request was made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// NetworkError is an HTTP-level failure: the server answered with a non-2xx status.
type NetworkError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// UnknownError wraps a failure that never produced an HTTP response
// (dial, TLS, malformed body).
type UnknownError struct {
	Op  string
	Err error
}

func (e *UnknownError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *UnknownError) Unwrap() error { return e.Err }
