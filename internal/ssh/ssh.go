// Package ssh provides SSH connection utilities for deployment targets.
// Commands run through system.CommandExecutor so health probes and the
// readiness gate can be exercised against a mock in tests.
package ssh

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/firefly-outpost/internal/system"
)

// Default SSH configuration values.
const (
	DefaultUser           = "ubuntu"
	DefaultPort           = 22
	DefaultConnectTimeout = 5
)

// Options configures SSH connection parameters.
type Options struct {
	Host               string
	Port               int
	User               string
	Identity           string
	StrictHostKeyCheck bool
	KnownHostsFile     string
	ConnectTimeout     int
	BatchMode          bool
	RequestTTY         bool
}

// DefaultOptions returns Options with sensible defaults for a freshly
// provisioned target (host key checking off, short connect timeout).
func DefaultOptions(host string) Options {
	return Options{
		Host:               host,
		Port:               DefaultPort,
		User:               DefaultUser,
		StrictHostKeyCheck: false,
		KnownHostsFile:     "/dev/null",
		ConnectTimeout:     DefaultConnectTimeout,
		BatchMode:          false,
		RequestTTY:         false,
	}
}

// WithUser returns a copy with the SSH user set.
func (o Options) WithUser(user string) Options {
	if user != "" {
		o.User = user
	}
	return o
}

// WithIdentity returns a copy with the identity file set.
func (o Options) WithIdentity(path string) Options {
	o.Identity = path
	return o
}

// WithBatchMode returns a copy with batch mode enabled.
func (o Options) WithBatchMode() Options {
	o.BatchMode = true
	return o
}

// WithTTY returns a copy with TTY requested.
func (o Options) WithTTY() Options {
	o.RequestTTY = true
	return o
}

// WithTimeout returns a copy with the specified connect timeout.
func (o Options) WithTimeout(seconds int) Options {
	o.ConnectTimeout = seconds
	return o
}

// BaseArgs returns the common SSH arguments (options only, no user@host).
func (o Options) BaseArgs() []string {
	args := []string{
		"-p", fmt.Sprintf("%d", o.Port),
	}

	if o.Identity != "" {
		args = append(args, "-i", o.Identity)
	}

	if !o.StrictHostKeyCheck {
		args = append(args, "-o", "StrictHostKeyChecking=no")
	}

	if o.KnownHostsFile != "" {
		args = append(args, "-o", fmt.Sprintf("UserKnownHostsFile=%s", o.KnownHostsFile))
	}

	if o.BatchMode {
		args = append(args, "-o", "BatchMode=yes")
	}

	if o.ConnectTimeout > 0 {
		args = append(args, "-o", fmt.Sprintf("ConnectTimeout=%d", o.ConnectTimeout))
	}

	if o.RequestTTY {
		args = append(args, "-t")
	}

	return args
}

// Destination returns the user@host string.
func (o Options) Destination() string {
	return fmt.Sprintf("%s@%s", o.User, o.Host)
}

// BuildArgs returns complete SSH arguments for executing a command.
func (o Options) BuildArgs(command ...string) []string {
	args := o.BaseArgs()
	args = append(args, o.Destination())
	args = append(args, command...)
	return args
}

// --- Convenience functions using the builder ---

// Exec executes a command on the target via SSH.
func Exec(ctx context.Context, opts Options, args ...string) error {
	sshArgs := opts.WithBatchMode().BuildArgs(args...)
	_, err := system.DefaultExecutor().Execute(ctx, "ssh", sshArgs...)
	return err
}

// ExecWithOutput executes a command and returns its combined output.
func ExecWithOutput(ctx context.Context, opts Options, args ...string) (string, error) {
	sshArgs := opts.WithBatchMode().BuildArgs(args...)
	output, err := system.DefaultExecutor().Execute(ctx, "ssh", sshArgs...)
	return string(output), err
}

// Interactive starts an interactive SSH session as a child process. An
// empty command opens a login shell.
func Interactive(ctx context.Context, opts Options, command string) error {
	o := opts.WithTTY()
	var sshArgs []string
	if command != "" {
		sshArgs = o.BuildArgs(command)
	} else {
		sshArgs = o.BuildArgs()
	}
	return system.DefaultExecutor().ExecuteInteractive(ctx, "ssh", sshArgs...)
}

// ReplaceWithSession replaces the current process with an SSH session.
// This does not return on success.
func ReplaceWithSession(opts Options, command string) error {
	o := opts.WithTTY()
	var sshArgs []string
	if command != "" {
		sshArgs = o.BuildArgs(command)
	} else {
		sshArgs = o.BuildArgs()
	}
	return system.DefaultExecutor().ReplaceProcess("ssh", sshArgs...)
}

// CheckConnection checks if SSH is reachable with an authenticated no-op.
func CheckConnection(ctx context.Context, opts Options) bool {
	return Exec(ctx, opts, "true") == nil
}
