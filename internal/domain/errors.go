package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures crossing the adapter boundary
type ErrorKind string

const (
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindRemoteFailure   ErrorKind = "remote_failure"
	KindConfiguration   ErrorKind = "configuration"
)

// Sentinels for errors.Is checks against a TriageError kind
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRemoteFailure   = errors.New("remote failure")
	ErrConfiguration   = errors.New("configuration error")
)

// TriageError is a typed failure: a kind, the operation it came from and a message
type TriageError struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

// Error implements the error interface
func (e *TriageError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap returns the underlying cause
func (e *TriageError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to the error kind
func (e *TriageError) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrRemoteFailure:
		return e.Kind == KindRemoteFailure
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	}
	return false
}

// InvalidArgument builds an InvalidArgument error for op
func InvalidArgument(op, format string, args ...any) error {
	return &TriageError{Kind: KindInvalidArgument, Op: op, Message: fmt.Sprintf(format, args...)}
}

// RemoteFailure wraps err as a RemoteFailure for op
func RemoteFailure(op string, err error) error {
	return &TriageError{Kind: KindRemoteFailure, Op: op, Err: err}
}

// ConfigurationError builds a Configuration error for op
func ConfigurationError(op, format string, args ...any) error {
	return &TriageError{Kind: KindConfiguration, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first TriageError in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var te *TriageError
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return "", false
}

// RemoteError describes a non-success HTTP response from a remote service
type RemoteError struct {
	Service    string
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Service, e.StatusCode, e.Message)
}
