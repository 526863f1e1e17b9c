package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-outpost/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "outpost-ctl",
	Short: "IoT telemetry stack deployment convergence CLI",
	Long: `outpost-ctl drives the convergence phase of an IoT telemetry stack
deployment: it discovers the freshly provisioned target's address, waits
for its control plane to come up, and verifies the deployed services.

The service battery covers:
  - SSH reachability (the fatal gate)
  - TimescaleDB with an authenticated query
  - Mosquitto MQTT broker reachability
  - Grafana health endpoint`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is $OUTPOST_CONFIG or /etc/firefly-outpost/outpost.toml)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
