// Package errors turns failures from the release pipeline into messages an
// operator can act on. Every CLIError carries a category, which decides the
// process exit code, and the steps that usually clear it.
package errors

import "fmt"

// ErrorCategory groups failures by what the operator has to change.
type ErrorCategory int

const (
	// Argument covers bad flags and version labels.
	Argument ErrorCategory = iota
	// Configuration covers config files, changelog targets and the classify mode.
	Configuration
	// Prerequisite covers repository state and files that must already exist.
	Prerequisite
	// Runtime covers everything else.
	Runtime
)

func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a failure ready to be shown to the operator.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Remediation lists the steps that usually clear the failure, in order.
	Remediation []string
	// Usage is the correct invocation, shown for argument errors.
	Usage string
	// Err is the underlying failure, if any.
	Err error
}

func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying failure so callers can still match on it.
func (e *CLIError) Unwrap() error {
	return e.Err
}

func newError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

func NewArgumentError(message string, remediation ...string) *CLIError {
	return newError(Argument, message, remediation)
}

// NewArgumentErrorWithUsage is NewArgumentError plus the correct invocation.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	e := newError(Argument, message, remediation)
	e.Usage = usage
	return e
}

func NewConfigError(message string, remediation ...string) *CLIError {
	return newError(Configuration, message, remediation)
}

func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return newError(Prerequisite, message, remediation)
}

func NewRuntimeError(message string, remediation ...string) *CLIError {
	return newError(Runtime, message, remediation)
}

// WrapWithMessage prefixes err with message and keeps it as the cause.
// A nil err yields nil.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, fmt.Sprintf("%s: %v", message, err), remediation)
	e.Err = err
	return e
}
