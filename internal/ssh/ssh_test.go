package ssh

import (
	"context"
	"strings"
	"testing"

	"github.com/firefly-engineering/firefly-outpost/internal/system"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("192.168.1.50")

	if opts.Host != "192.168.1.50" {
		t.Errorf("Host = %q, want %q", opts.Host, "192.168.1.50")
	}
	if opts.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", opts.Port, DefaultPort)
	}
	if opts.User != DefaultUser {
		t.Errorf("User = %q, want %q", opts.User, DefaultUser)
	}
	if opts.StrictHostKeyCheck {
		t.Error("StrictHostKeyCheck should be false by default")
	}
	if opts.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %d, want %d", opts.ConnectTimeout, DefaultConnectTimeout)
	}
}

func TestOptionsChaining(t *testing.T) {
	opts := DefaultOptions("192.168.1.50").
		WithUser("deploy").
		WithIdentity("/home/deploy/.ssh/id_ed25519").
		WithBatchMode().
		WithTimeout(2)

	if opts.User != "deploy" {
		t.Errorf("User = %q, want deploy", opts.User)
	}
	if opts.Identity != "/home/deploy/.ssh/id_ed25519" {
		t.Errorf("Identity = %q", opts.Identity)
	}
	if !opts.BatchMode {
		t.Error("BatchMode should be true")
	}
	if opts.ConnectTimeout != 2 {
		t.Errorf("ConnectTimeout = %d, want 2", opts.ConnectTimeout)
	}
}

func TestOptionsWithUser_EmptyKeepsDefault(t *testing.T) {
	opts := DefaultOptions("192.168.1.50").WithUser("")
	if opts.User != DefaultUser {
		t.Errorf("User = %q, want default %q", opts.User, DefaultUser)
	}
}

func TestDestination(t *testing.T) {
	opts := DefaultOptions("192.168.1.50").WithUser("deploy")

	if got := opts.Destination(); got != "deploy@192.168.1.50" {
		t.Errorf("Destination() = %q, want deploy@192.168.1.50", got)
	}
}

func TestBuildArgs(t *testing.T) {
	opts := DefaultOptions("192.168.1.50").
		WithUser("deploy").
		WithIdentity("/key").
		WithBatchMode()

	args := opts.BuildArgs("true")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-p 22",
		"-i /key",
		"-o StrictHostKeyChecking=no",
		"-o UserKnownHostsFile=/dev/null",
		"-o BatchMode=yes",
		"-o ConnectTimeout=5",
		"deploy@192.168.1.50 true",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("BuildArgs() missing %q in %q", want, joined)
		}
	}

	for _, a := range args {
		if a == "-t" {
			t.Errorf("BuildArgs() should not request TTY: %q", joined)
		}
	}
}

func TestCheckConnection(t *testing.T) {
	mock := system.NewMockExecutor()
	system.SetDefaultExecutor(mock)
	defer system.ResetDefaults()

	opts := DefaultOptions("192.168.1.50")

	if !CheckConnection(context.Background(), opts) {
		t.Error("CheckConnection should succeed when ssh exits 0")
	}

	last, ok := mock.LastCommand()
	if !ok {
		t.Fatal("no command recorded")
	}
	if last.Name != "ssh" {
		t.Errorf("command = %q, want ssh", last.Name)
	}
	if last.Args[len(last.Args)-1] != "true" {
		t.Errorf("remote command = %q, want no-op true", last.Args[len(last.Args)-1])
	}
}

func TestInteractive(t *testing.T) {
	mock := system.NewMockExecutor()
	system.SetDefaultExecutor(mock)
	defer system.ResetDefaults()

	opts := DefaultOptions("192.168.1.50")

	if err := Interactive(context.Background(), opts, ""); err != nil {
		t.Fatalf("Interactive() error: %v", err)
	}

	last, ok := mock.LastCommand()
	if !ok {
		t.Fatal("no command recorded")
	}
	// A login shell: destination last, TTY requested, no empty trailing arg.
	if last.Args[len(last.Args)-1] != opts.Destination() {
		t.Errorf("last arg = %q, want destination %q", last.Args[len(last.Args)-1], opts.Destination())
	}
	tty := false
	for _, a := range last.Args {
		if a == "-t" {
			tty = true
		}
	}
	if !tty {
		t.Error("Interactive() should request a TTY")
	}

	if err := Interactive(context.Background(), opts, "journalctl -f"); err != nil {
		t.Fatalf("Interactive() error: %v", err)
	}
	last, _ = mock.LastCommand()
	if last.Args[len(last.Args)-1] != "journalctl -f" {
		t.Errorf("remote command = %q, want journalctl -f", last.Args[len(last.Args)-1])
	}
}

func TestExecWithOutput(t *testing.T) {
	mock := system.NewMockExecutor()
	mock.DefaultResponse = system.MockResponse{Output: []byte("1\n")}
	system.SetDefaultExecutor(mock)
	defer system.ResetDefaults()

	out, err := ExecWithOutput(context.Background(), DefaultOptions("192.168.1.50"), "echo", "1")
	if err != nil {
		t.Fatalf("ExecWithOutput() error: %v", err)
	}
	if out != "1\n" {
		t.Errorf("output = %q, want %q", out, "1\n")
	}
}
