package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-outpost/internal/health"
	"github.com/firefly-engineering/firefly-outpost/internal/monitor"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Re-run the service battery in the background",
	Long: `Periodically re-checks the deployed services and records each outcome
in the target's audit log. Runs in the foreground until interrupted.

Can be wrapped in a systemd service for persistent monitoring.`,
	RunE: runMonitor,
}

var (
	monitorAddress    string
	monitorInterval   int
	monitorVerifyData bool
)

func init() {
	monitorCmd.Flags().StringVar(&monitorAddress, "address", "", "Skip resolution and use this address")
	monitorCmd.Flags().IntVar(&monitorInterval, "interval", 60, "Check interval in seconds")
	monitorCmd.Flags().BoolVar(&monitorVerifyData, "verify-data", false, "Require recent telemetry rows in the database")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	address, err := resolveAddress(ctx, cfg, monitorAddress)
	if err != nil {
		return err
	}

	checker := health.NewChecker(cfg, health.WithDataVerification(monitorVerifyData))
	mon := monitor.New(time.Duration(monitorInterval)*time.Second,
		checker, cfg.Target.Name, address,
		monitor.WithAuditLogger(auditLogger()))

	logInfo("Starting convergence monitor for %s at %s (interval: %ds)",
		cfg.Target.Name, address, monitorInterval)

	err = mon.Run(ctx)
	if err == context.Canceled {
		logInfo("Monitor stopped")
		return nil
	}
	return err
}
