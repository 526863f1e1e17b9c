// Package monitor provides background convergence monitoring for a target.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firefly-engineering/firefly-outpost/internal/audit"
	"github.com/firefly-engineering/firefly-outpost/internal/health"
	"github.com/firefly-engineering/firefly-outpost/internal/logging"
)

// Monitor periodically re-runs the service battery against a resolved
// target and records the outcomes.
type Monitor struct {
	interval  time.Duration
	checker   *health.Checker
	target    string
	address   string
	auditLog  *audit.Logger
	onSummary func(*health.Summary)
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithAuditLogger sets the audit logger for recording check events.
func WithAuditLogger(logger *audit.Logger) Option {
	return func(m *Monitor) {
		m.auditLog = logger
	}
}

// WithSummaryHandler registers a callback invoked after every battery run.
func WithSummaryHandler(handler func(*health.Summary)) Option {
	return func(m *Monitor) {
		m.onSummary = handler
	}
}

// New creates a new Monitor for a resolved target address.
func New(interval time.Duration, checker *health.Checker, target, address string, opts ...Option) *Monitor {
	m := &Monitor{
		interval: interval,
		checker:  checker,
		target:   target,
		address:  address,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the monitoring loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logging.Debug("starting convergence monitor",
		"target", m.target, "address", m.address, "interval", m.interval)

	// Run an immediate check, then loop on interval.
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("convergence monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check runs one battery pass and records the outcome.
func (m *Monitor) check(ctx context.Context) *health.Summary {
	summary := m.checker.Run(ctx, m.address)

	if summary.Converged() {
		logging.Info("target converged", "target", m.target)
	} else {
		logging.Warn("target not converged", "target", m.target, "details", Describe(summary))
	}

	if m.auditLog != nil {
		_ = m.auditLog.LogEvent(audit.EventMonitor, m.target, Describe(summary))
	}

	if m.onSummary != nil {
		m.onSummary(summary)
	}

	return summary
}

// Describe renders a summary as a compact single-line status string,
// suitable for audit details and log fields.
func Describe(s *health.Summary) string {
	if s.Aborted {
		return "aborted: SSH gate timed out"
	}

	parts := make([]string, 0, len(s.Reports))
	for _, r := range s.Reports {
		parts = append(parts, fmt.Sprintf("%s=%s", r.Service, r.Status))
	}
	return strings.Join(parts, " ")
}
