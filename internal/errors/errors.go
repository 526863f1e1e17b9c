package errors

import (
	"errors"
	"fmt"
)

// Exit codes for outpost-ctl
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitConfigError     = 2
	ExitAddressNotFound = 3
	ExitSSHUnreachable  = 4
	ExitServicesUnready = 5
	ExitProvisioner     = 6
)

// OutpostError is the base error type for outpost-ctl
type OutpostError struct {
	Code    int
	Message string
	Cause   error
}

func (e *OutpostError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *OutpostError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *OutpostError) ExitCode() int {
	return e.Code
}

// New creates a new OutpostError
func New(code int, message string) *OutpostError {
	return &OutpostError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an OutpostError
func Wrap(code int, message string, cause error) *OutpostError {
	return &OutpostError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// AddressNotFound returns an error when every resolution strategy was
// exhausted across the full retry budget.
func AddressNotFound(target string, rounds int) *OutpostError {
	return New(ExitAddressNotFound, fmt.Sprintf("no valid address for %s after %d rounds", target, rounds))
}

// SSHUnreachable returns an error for a timed-out SSH readiness gate.
func SSHUnreachable(address string, attempts int) *OutpostError {
	return New(ExitSSHUnreachable, fmt.Sprintf("SSH gate timed out for %s after %d attempts", address, attempts))
}

// ServicesUnready returns an error when the run finished but the converged
// threshold was not met.
func ServicesUnready(message string) *OutpostError {
	return New(ExitServicesUnready, message)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *OutpostError {
	return Wrap(ExitConfigError, message, cause)
}

// ProvisionerError returns an error for provisioner query failures
func ProvisionerError(op string, cause error) *OutpostError {
	return Wrap(ExitProvisioner, fmt.Sprintf("provisioner %s failed", op), cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *OutpostError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var outpostErr *OutpostError
	if errors.As(err, &outpostErr) {
		return outpostErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
