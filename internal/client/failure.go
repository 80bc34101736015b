package client

import (
	"errors"
	"fmt"
	"net/http"
)

// FailureKind classifies a failed repository call
type FailureKind int

const (
	// KindTransport covers unreachable servers and malformed responses
	KindTransport FailureKind = iota + 1
	// KindHTTPStatus covers any non-2xx response
	KindHTTPStatus
)

func (k FailureKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http-status"
	default:
		return "unknown"
	}
}

// Failure is the typed error returned by every Client operation
type Failure struct {
	Op     string // list, get, create, update, delete
	Kind   FailureKind
	Status int // set when Kind is KindHTTPStatus
	Err    error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("%s: HTTP error! status: %d", f.Op, f.Status)
	default:
		if f.Err != nil {
			return fmt.Sprintf("%s: %v", f.Op, f.Err)
		}
		return f.Op + ": transport failure"
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a *Failure from an error chain
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 from the posts collection
func IsNotFound(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == KindHTTPStatus && f.Status == http.StatusNotFound
}

// IsTransport reports whether err never produced an HTTP status
func IsTransport(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == KindTransport
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

// IsClientErrorStatus returns true if status code is 4xx
func IsClientErrorStatus(status int) bool {
	return status >= 400 && status < 500
}

// IsServerErrorStatus returns true if status code is 5xx
func IsServerErrorStatus(status int) bool {
	return status >= 500 && status < 600
}
