package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-outpost/internal/audit"
	"github.com/firefly-engineering/firefly-outpost/internal/health"
	"github.com/firefly-engineering/firefly-outpost/internal/monitor"
)

var convergeCmd = &cobra.Command{
	Use:   "converge",
	Short: "Resolve the target and wait for the deployed stack to come up",
	Long: `Discovers the target's address, waits for SSH under the readiness
gate, then verifies the deployed services. Exits non-zero when the
converged threshold is not met, so provisioning pipelines can gate on it.`,
	RunE: runConverge,
}

var (
	convergeAddress    string
	convergeVerifyData bool
)

func init() {
	convergeCmd.Flags().StringVar(&convergeAddress, "address", "", "Skip resolution and use this address")
	convergeCmd.Flags().BoolVar(&convergeVerifyData, "verify-data", false, "Require recent telemetry rows in the database")
	rootCmd.AddCommand(convergeCmd)
}

func runConverge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	address, err := resolveAddress(ctx, cfg, convergeAddress)
	if err != nil {
		return err
	}
	logInfo("Target %s resolved to %s", cfg.Target.Name, address)

	checker := health.NewChecker(cfg,
		health.WithObserver(progressObserver),
		health.WithDataVerification(convergeVerifyData),
	)
	summary := checker.Run(ctx, address)

	fmt.Print(formatSummary(summary))
	_ = auditLogger().LogEvent(audit.EventConverge, cfg.Target.Name, monitor.Describe(summary))

	if err := summaryError(summary); err != nil {
		return err
	}

	logSuccess("Target %s converged at %s", cfg.Target.Name, address)
	return nil
}
