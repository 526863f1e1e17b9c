// Package logging provides logging utilities for outpost-ctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("resolving address", "strategy", name, "round", round)
//	logging.Warn("probe failed", "service", "database", "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Waiting for SSH on %s...", address)
//	logging.UserSuccess("SSH reachable after %d attempts", attempts)
//	logging.UserWarning("Dashboard degraded: %s", msg)
//	logging.UserError("Address resolution failed: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
