package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/firefly-engineering/firefly-outpost/internal/audit"
	"github.com/firefly-engineering/firefly-outpost/internal/config"
	"github.com/firefly-engineering/firefly-outpost/internal/errors"
	"github.com/firefly-engineering/firefly-outpost/internal/health"
	"github.com/firefly-engineering/firefly-outpost/internal/resolve"
	"github.com/firefly-engineering/firefly-outpost/internal/ssh"
	"github.com/firefly-engineering/firefly-outpost/internal/system"
)

// paths returns the default paths configuration.
// This is a helper to reduce repetition in commands.
func paths() *config.Paths {
	return config.DefaultPaths()
}

// auditLogger returns the target event logger.
func auditLogger() *audit.Logger {
	return audit.NewLogger(paths())
}

// loadConfig loads the deployment configuration. An explicit --config path
// must exist; the default path is optional and falls back to defaults plus
// environment overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		candidate := config.DefaultConfigPath()
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.ConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// resolveAddress discovers the target's address, preferring an explicit
// override, then the configured host, then the strategy chain.
func resolveAddress(ctx context.Context, cfg *config.Config, override string) (string, error) {
	if override != "" {
		if !resolve.Valid(override) {
			return "", errors.ValidationError(fmt.Sprintf("invalid address %q", override))
		}
		return override, nil
	}
	if cfg.Target.Host != "" {
		return cfg.Target.Host, nil
	}

	// The strategy chain retries silently for minutes; a missing terraform
	// directory can never recover, so reject it up front.
	if _, err := os.Stat(cfg.Provisioner.Dir); err != nil {
		return "", errors.ProvisionerError("state query", err)
	}

	strategies := resolve.TerraformStrategies(system.DefaultExecutor(), cfg.Target.Name, cfg.Provisioner)
	resolver := resolve.New(cfg.Target.Name, strategies,
		resolve.WithRounds(cfg.Timeouts.ResolveRounds),
		resolve.WithDelay(time.Duration(cfg.Timeouts.ResolveDelay)*time.Second),
	)

	address, err := resolver.Resolve(ctx)
	if err != nil {
		_ = auditLogger().LogEvent(audit.EventError, cfg.Target.Name, err.Error())
		return "", err
	}

	_ = auditLogger().LogEvent(audit.EventResolve, cfg.Target.Name, "address="+address)
	return address, nil
}

// sshOptionsFor builds SSH options for a resolved address from the target
// configuration.
func sshOptionsFor(cfg *config.Config, address string) ssh.Options {
	return ssh.DefaultOptions(address).
		WithUser(cfg.Target.User).
		WithIdentity(cfg.Target.Identity).
		WithTimeout(cfg.Timeouts.ConnectTimeout)
}

// progressObserver prints per-service progress as the battery runs.
func progressObserver(service string, status health.ServiceStatus) {
	switch status {
	case health.StatusChecking:
		logInfo("Checking %s...", service)
	case health.StatusReady:
		logSuccess("%s ready", service)
	case health.StatusDegraded:
		logWarning("%s degraded", service)
	case health.StatusUnreachable:
		logError("%s unreachable", service)
	}
}

// formatSummary renders a battery summary as a per-service table.
func formatSummary(summary *health.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Target: %s\n\n", summary.Address)
	for _, r := range summary.Reports {
		glyph := "○"
		switch r.Status {
		case health.StatusReady:
			glyph = "✓"
		case health.StatusDegraded:
			glyph = "⚠"
		case health.StatusUnreachable:
			glyph = "✗"
		}
		fmt.Fprintf(&b, "  %s %-10s %-12s %s\n", glyph, r.Service, r.Status, r.Message)
	}

	b.WriteString("\n")
	if summary.Converged() {
		b.WriteString("Status: converged\n")
	} else {
		b.WriteString("Status: not converged\n")
	}

	return b.String()
}

// summaryError maps a finished battery run onto the exit policy: a
// timed-out SSH gate and an unmet converged threshold are distinct
// failures. A converged run returns nil.
func summaryError(summary *health.Summary) error {
	if summary.Aborted {
		return errors.SSHUnreachable(summary.Address, summary.SSHAttempts)
	}
	if !summary.Converged() {
		return errors.ServicesUnready("converged threshold not met: SSH plus at least one of database or broker must be ready")
	}
	return nil
}
