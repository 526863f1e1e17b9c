package system

import (
	"context"
	"os"
	"os/exec"
	"syscall"
)

// osExecutor implements CommandExecutor by shelling out.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func (e *osExecutor) ExecuteInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (e *osExecutor) ReplaceProcess(name string, args ...string) error {
	binary, err := exec.LookPath(name)
	if err != nil {
		return err
	}

	// argv[0] is the program name
	argv := append([]string{name}, args...)
	return syscall.Exec(binary, argv, os.Environ())
}
