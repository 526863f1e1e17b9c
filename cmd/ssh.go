package cmd

import (
	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-outpost/internal/logging"
	"github.com/firefly-engineering/firefly-outpost/internal/ssh"
)

var sshCmd = &cobra.Command{
	Use:   "ssh [command...]",
	Short: "Open an SSH session on the target",
	Long: `Resolves the target's address and replaces this process with an SSH
session. Extra arguments are run as a command on the target instead of an
interactive shell.`,
	RunE: runSSH,
}

var sshAddress string

func init() {
	sshCmd.Flags().StringVar(&sshAddress, "address", "", "Skip resolution and use this address")
	rootCmd.AddCommand(sshCmd)
}

func runSSH(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	address, err := resolveAddress(cmd.Context(), cfg, sshAddress)
	if err != nil {
		return err
	}

	opts := sshOptionsFor(cfg, address)

	command := ""
	if len(args) > 0 {
		command = shellquote.Join(args...)
	}

	// Replace current process with the ssh session; fall back to a child
	// process when exec is unavailable (missing binary, restricted env).
	if err := ssh.ReplaceWithSession(opts, command); err != nil {
		logging.Debug("process replacement failed, running ssh as child", "error", err)
		return ssh.Interactive(cmd.Context(), opts, command)
	}
	return nil
}
