// Package errors provides typed errors with exit codes for outpost-ctl.
//
// # Error Types
//
// OutpostError is the base error type that wraps an error with an exit code:
//
//	type OutpostError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
// Defined exit codes for different error categories:
//
//	ExitSuccess         = 0  // Success
//	ExitGeneralError    = 1  // General/unknown errors
//	ExitConfigError     = 2  // Configuration error
//	ExitAddressNotFound = 3  // Address resolution budget exhausted
//	ExitSSHUnreachable  = 4  // SSH readiness gate timed out
//	ExitServicesUnready = 5  // Converged threshold not met
//	ExitProvisioner     = 6  // Provisioner query failed
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.AddressNotFound("iot-gateway", 10)
//	errors.SSHUnreachable("192.168.1.50", 31)
//	errors.ConfigError("failed to load config", err)
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
