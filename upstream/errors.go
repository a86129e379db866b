package upstream

import (
	"errors"
	"fmt"
)

// ErrUnreachable matches any *UnreachableError via errors.Is.
var ErrUnreachable = errors.New("upstream unreachable")

// UnreachableError is a transport-level failure: the upstream never produced
// a usable response.
type UnreachableError struct {
	URL string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("upstream unreachable: %s: %v", e.URL, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

func (e *UnreachableError) Is(target error) bool { return target == ErrUnreachable }

// StatusError is a non-2xx upstream response. Body is the raw response body.
type StatusError struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.StatusCode, e.URL)
}
