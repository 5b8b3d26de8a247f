package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	// KindTransport means the request never produced an HTTP response.
	KindTransport ErrorKind = iota + 1
	// KindValidation is a 4xx answer; Message carries the server's explanation.
	KindValidation
	// KindServer is a 5xx answer or an unreadable response.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method that fails.
type Error struct {
	Op      string
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: %s error (status %d): %s", e.Op, e.Kind, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s error (status %d)", e.Op, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the server-provided explanation for validation failures, empty otherwise.
func (e *Error) UserMessage() string {
	if e.Kind == KindValidation {
		return e.Message
	}
	return ""
}

// KindOf returns the kind of an *Error anywhere in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

func IsTransport(err error) bool  { return KindOf(err) == KindTransport }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsServer(err error) bool     { return KindOf(err) == KindServer }
