package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Discover and print the target's address",
	Long: `Runs the address resolution chain (terraform output, terraform show,
mDNS) and prints the discovered address to stdout, for use in scripts:

  ssh ubuntu@$(outpost-ctl resolve)`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	address, err := resolveAddress(cmd.Context(), cfg, "")
	if err != nil {
		return err
	}

	fmt.Println(address)
	return nil
}
