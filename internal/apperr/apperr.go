// Package apperr defines the error taxonomy shared by the moodboard pipelines.
//
// The pipelines only ever signal failure through an *Error; deciding how to
// present it (CLI message, HTML block, JSON body) is left to the caller.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate in this module.
	KindUnknown Kind = iota

	// KindConfiguration means the API key or other startup configuration is
	// missing or invalid. Fatal for the session.
	KindConfiguration

	// KindService means the remote generation call failed (network, auth, quota).
	KindService

	// KindParse means the remote call succeeded but returned unusable content.
	KindParse

	// KindInput means required user input was missing or invalid. No remote
	// call is made.
	KindInput
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindService:
		return "service error"
	case KindParse:
		return "parse error"
	case KindInput:
		return "input error"
	default:
		return "error"
	}
}

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Op names the operation that failed (e.g. "moodboard.brief").
	Op string
	// Msg is a human-readable description.
	Msg string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error without an underlying cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap classifies an existing error. It returns nil if err is nil.
func Wrap(kind Kind, op string, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// Configuration creates a KindConfiguration error.
func Configuration(op, msg string) *Error { return New(KindConfiguration, op, msg) }

// Input creates a KindInput error.
func Input(op, msg string) *Error { return New(KindInput, op, msg) }

// Service wraps a remote failure as a KindService error.
func Service(op string, err error) error {
	return Wrap(KindService, op, err, "remote generation failed")
}

// Parse wraps a decoding failure as a KindParse error.
func Parse(op string, err error) error {
	return Wrap(KindParse, op, err, "response is not in the expected format")
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
