package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrMalformedResponse = errors.New("malformed response")
	ErrNoRoom            = errors.New("no room established")
	ErrDisposed          = errors.New("store disposed")
	ErrStaleResult       = errors.New("room cleared while request was in flight")
)

const (
	MsgRoomReady  = "The game is starting soon!"
	MsgUnexpected = "An unexpected error occurred"
)

// ValidationError rejects intent input before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError converts a validator failure into a ValidationError
// naming the first rejected field.
func NewValidationError(err error) *ValidationError {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return &ValidationError{Field: fe.Field(), Reason: reason(fe)}
	}
	return &ValidationError{Reason: err.Error()}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "failed " + fe.Tag()
}

// TransportError is a failed REST call. Message carries the server's
// structured error message when it sent one.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status == 0 {
		return "transport: " + msg
	}
	return fmt.Sprintf("transport: status %d: %s", e.Status, msg)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is an inbound event whose payload is missing or malformed.
type ProtocolError struct {
	Event string
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: event %q: %v", e.Event, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// UserMessage picks the text shown to the user for a failed intent.
func UserMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var terr *TransportError
	if errors.As(err, &terr) && terr.Message != "" {
		return terr.Message
	}
	return MsgUnexpected
}
