package search

import (
	"errors"
	"fmt"
)

// ValidationKind enumerates the reasons a query is rejected before sending.
type ValidationKind int

const (
	BothEmpty ValidationKind = iota
)

// ValidationError reports input that must never reach the network.
type ValidationError struct {
	Kind ValidationKind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case BothEmpty:
		return "Please enter a Source or Contains filter"
	default:
		return "invalid search input"
	}
}

// ErrBothEmpty is returned by Build when neither filter has content.
var ErrBothEmpty = &ValidationError{Kind: BothEmpty}

// RequestKind classifies a failed search request.
type RequestKind int

const (
	// HTTPFailure means a response arrived with a non-success status.
	HTTPFailure RequestKind = iota
	// Transport means the call did not complete or the body could not be decoded.
	Transport
)

func (k RequestKind) String() string {
	switch k {
	case HTTPFailure:
		return "http"
	case Transport:
		return "transport"
	default:
		return "unknown"
	}
}

// RequestError is returned by a Searcher for every post-dispatch failure.
type RequestError struct {
	Kind   RequestKind
	Status int
	Err    error
}

// msgSearchFailed is shown for any non-success status; the body is not read.
const msgSearchFailed = "Search failed"

func (e *RequestError) Error() string {
	if e.Kind == HTTPFailure {
		return msgSearchFailed
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "request failed"
}

func (e *RequestError) Unwrap() error { return e.Err }

func httpFailure(status int) *RequestError {
	return &RequestError{Kind: HTTPFailure, Status: status, Err: fmt.Errorf("HTTP error: %d", status)}
}

func wrapTransport(context string, err error) *RequestError {
	return &RequestError{Kind: Transport, Err: fmt.Errorf("%s: %w", context, err)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
