package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-outpost/internal/audit"
	"github.com/firefly-engineering/firefly-outpost/internal/config"
	"github.com/firefly-engineering/firefly-outpost/internal/health"
	"github.com/firefly-engineering/firefly-outpost/internal/monitor"
	"github.com/firefly-engineering/firefly-outpost/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Run the service battery once and show the results",
	Long: `Checks every service on the target and prints a per-service report.
With --watch the battery re-runs on an interval in a live terminal view.`,
	RunE: runStatus,
}

var (
	statusAddress  string
	statusWatch    bool
	statusDeep     bool
	statusInterval int
)

func init() {
	statusCmd.Flags().StringVar(&statusAddress, "address", "", "Skip resolution and use this address")
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "Re-run the battery in a live view")
	statusCmd.Flags().BoolVar(&statusDeep, "deep", false, "Require recent telemetry rows in the database")
	statusCmd.Flags().IntVar(&statusInterval, "interval", 30, "Recheck interval in seconds for --watch")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	address, err := resolveAddress(ctx, cfg, statusAddress)
	if err != nil {
		return err
	}

	if statusWatch {
		return runStatusWatch(cfg, address)
	}

	checker := health.NewChecker(cfg, health.WithDataVerification(statusDeep))
	summary := checker.Run(ctx, address)

	fmt.Print(formatSummary(summary))
	_ = auditLogger().LogEvent(audit.EventCheck, cfg.Target.Name, monitor.Describe(summary))

	return summaryError(summary)
}

func runStatusWatch(cfg *config.Config, address string) error {
	interval := time.Duration(statusInterval) * time.Second

	// The watch model supplies the observer, so wire the checker to it
	// through a late-bound closure.
	var w *tui.Watch
	checker := health.NewChecker(cfg,
		health.WithDataVerification(statusDeep),
		health.WithObserver(func(service string, status health.ServiceStatus) {
			if w != nil {
				w.Observer()(service, status)
			}
		}),
	)
	w = tui.NewWatch(checker, cfg.Target.Name, address, interval)

	summary, err := tui.RunWatch(w)
	if err != nil {
		return err
	}
	if summary != nil {
		fmt.Print(formatSummary(summary))
		_ = auditLogger().LogEvent(audit.EventCheck, cfg.Target.Name, monitor.Describe(summary))
	}
	return nil
}
