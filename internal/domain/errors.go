package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrNoIngredients = errors.New("no ingredients identified yet")
	ErrNoImage       = errors.New("no image selected")
	ErrBusy          = errors.New("another request is still in flight")
)

// ValidationError is raised before anything is sent to the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Op names a backend operation.
type Op string

const (
	OpAnalyze  Op = "analyze"
	OpGenerate Op = "generate"
	OpHealth   Op = "health"
)

// FallbackMessage is shown when a failure carries no usable message.
func FallbackMessage(op Op) string {
	switch op {
	case OpAnalyze:
		return "Failed to analyze image"
	case OpGenerate:
		return "Failed to generate recipe"
	case OpHealth:
		return "Backend is unreachable"
	default:
		return "Request failed"
	}
}

// OperationError is what the gateways return on failure. Message is always
// fit to show to the user; Err keeps the underlying cause.
type OperationError struct {
	Op      Op
	Message string
	Err     error
}

func (e *OperationError) Error() string { return e.Message }

func (e *OperationError) Unwrap() error { return e.Err }

// NewOperationError builds an OperationError, using the fallback message
// for op when msg is empty.
func NewOperationError(op Op, msg string, err error) *OperationError {
	if msg == "" {
		msg = FallbackMessage(op)
	}
	return &OperationError{Op: op, Message: msg, Err: err}
}

// UserMessage extracts the message to show for a failed op.
func UserMessage(op Op, err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) && opErr.Message != "" {
		return opErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return FallbackMessage(op)
}
