package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestOutpostError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *OutpostError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestOutpostError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := New(ExitGeneralError, "no cause")
	if unwrapped := errNoCause.Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestOutpostError_ExitCode(t *testing.T) {
	tests := []struct {
		code int
		name string
	}{
		{ExitSuccess, "success"},
		{ExitGeneralError, "general"},
		{ExitConfigError, "config error"},
		{ExitAddressNotFound, "address not found"},
		{ExitSSHUnreachable, "ssh unreachable"},
		{ExitServicesUnready, "services unready"},
		{ExitProvisioner, "provisioner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "test")
			if got := err.ExitCode(); got != tt.code {
				t.Errorf("ExitCode() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestAddressNotFound(t *testing.T) {
	err := AddressNotFound("iot-gateway", 10)

	if err.Code != ExitAddressNotFound {
		t.Errorf("Code = %d, want %d", err.Code, ExitAddressNotFound)
	}
	if err.Error() != "no valid address for iot-gateway after 10 rounds" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestSSHUnreachable(t *testing.T) {
	err := SSHUnreachable("192.168.1.50", 31)

	if err.Code != ExitSSHUnreachable {
		t.Errorf("Code = %d, want %d", err.Code, ExitSSHUnreachable)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil-adjacent plain error", fmt.Errorf("plain"), ExitGeneralError},
		{"outpost error", New(ExitSSHUnreachable, "gate timed out"), ExitSSHUnreachable},
		{"wrapped outpost error", fmt.Errorf("outer: %w", New(ExitConfigError, "bad config")), ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	err := fmt.Errorf("wrapper: %w", ConfigError("bad config", errors.New("io")))

	var outpostErr *OutpostError
	if !As(err, &outpostErr) {
		t.Fatal("As() should find OutpostError in chain")
	}
	if outpostErr.Code != ExitConfigError {
		t.Errorf("Code = %d, want %d", outpostErr.Code, ExitConfigError)
	}
}
