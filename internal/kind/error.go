package kind

import (
	"fmt"

	"github.com/vk/flowgrid/internal/value"
)

// EvalReason classifies an evaluation failure.
type EvalReason int

const (
	// ReasonMissingInput means a required input pin had no value wired.
	ReasonMissingInput EvalReason = iota
	// ReasonTypeCoercion means a wired value could not be coerced to the
	// kind the pin expects.
	ReasonTypeCoercion
	// ReasonCustom covers kind-specific failures, e.g. division by zero.
	ReasonCustom
)

// String returns the stable name of the reason.
func (r EvalReason) String() string {
	switch r {
	case ReasonMissingInput:
		return "missing_input"
	case ReasonTypeCoercion:
		return "type_coercion_failed"
	case ReasonCustom:
		return "custom"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// EvalError is the error a node evaluation reports. The runtime records it
// against the offending node and continues the tick.
type EvalError struct {
	Reason  EvalReason
	Pin     string
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Pin != "" {
		return fmt.Sprintf("%s: pin %q: %s", e.Reason, e.Pin, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// MissingInput reports a required input pin with no wired value.
func MissingInput(pinName string) *EvalError {
	return &EvalError{Reason: ReasonMissingInput, Pin: pinName, Message: "no value wired"}
}

// CoercionFailed reports a wired value of the wrong kind.
func CoercionFailed(pinName string, want string, got value.Kind) *EvalError {
	return &EvalError{
		Reason:  ReasonTypeCoercion,
		Pin:     pinName,
		Message: fmt.Sprintf("want %s, got %s", want, got),
	}
}

// Customf reports a kind-specific evaluation failure.
func Customf(format string, args ...any) *EvalError {
	return &EvalError{Reason: ReasonCustom, Message: fmt.Sprintf(format, args...)}
}
