package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-outpost/internal/config"
	"github.com/firefly-engineering/firefly-outpost/internal/gate"
	"github.com/firefly-engineering/firefly-outpost/internal/logging"
	"github.com/firefly-engineering/firefly-outpost/internal/ssh"
)

// DialFunc checks TCP reachability of address:port within timeout.
type DialFunc func(address string, port int, timeout time.Duration) bool

// RemoteFunc runs a command on the target over SSH and returns its output.
type RemoteFunc func(ctx context.Context, opts ssh.Options, command string) (string, error)

// HTTPGetFunc fetches a URL and returns the status code and body.
type HTTPGetFunc func(url string, timeout time.Duration) (int, string, error)

// Observer is notified of per-service state transitions as the battery runs.
type Observer func(service string, status ServiceStatus)

// Checker runs the service probe battery against a resolved target.
// Probes execute sequentially and share nothing but the read-only target
// configuration, so an individual service's failure never disturbs the
// others.
type Checker struct {
	cfg        *config.Config
	dial       DialFunc
	remote     RemoteFunc
	httpGet    HTTPGetFunc
	newGate    func(gate.Options) *gate.Gate
	observer   Observer
	verifyData bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithDialer replaces the TCP reachability probe.
func WithDialer(dial DialFunc) Option {
	return func(c *Checker) {
		c.dial = dial
	}
}

// WithRemote replaces the SSH command runner.
func WithRemote(remote RemoteFunc) Option {
	return func(c *Checker) {
		c.remote = remote
	}
}

// WithHTTPGet replaces the dashboard HTTP client.
func WithHTTPGet(get HTTPGetFunc) Option {
	return func(c *Checker) {
		c.httpGet = get
	}
}

// WithGateFactory replaces gate construction, for tests that need a
// synthetic clock behind the SSH readiness gate.
func WithGateFactory(factory func(gate.Options) *gate.Gate) Option {
	return func(c *Checker) {
		c.newGate = factory
	}
}

// WithObserver registers a state-transition callback.
func WithObserver(observer Observer) Option {
	return func(c *Checker) {
		c.observer = observer
	}
}

// WithDataVerification enables the deep database check: postgres answering
// is not enough, recent telemetry rows must exist.
func WithDataVerification(enabled bool) Option {
	return func(c *Checker) {
		c.verifyData = enabled
	}
}

// NewChecker creates a Checker with real network probes.
func NewChecker(cfg *config.Config, opts ...Option) *Checker {
	c := &Checker{
		cfg:     cfg,
		dial:    tcpDial,
		remote:  sshRemote,
		httpGet: httpGet,
		newGate: gate.New,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sshOptions builds the SSH options for a resolved address from the target
// configuration, with the configured per-attempt connect timeout.
func (c *Checker) sshOptions(address string) ssh.Options {
	return ssh.DefaultOptions(address).
		WithUser(c.cfg.Target.User).
		WithIdentity(c.cfg.Target.Identity).
		WithTimeout(c.cfg.Timeouts.ConnectTimeout)
}

func (c *Checker) notify(service string, status ServiceStatus) {
	if c.observer != nil {
		c.observer(service, status)
	}
}

// Run executes the battery in fixed order: the fatal SSH gate first, then
// the independent soft probes. A timed-out SSH gate aborts the run; the
// soft services are reported as not-checked and never probed.
func (c *Checker) Run(ctx context.Context, address string) *Summary {
	summary := &Summary{Address: address}

	sshReport, gateResult := c.checkSSH(ctx, address)
	summary.SSHAttempts = gateResult.Attempts
	summary.Reports = append(summary.Reports, sshReport)

	if sshReport.Status != StatusReady {
		summary.Aborted = true
		for _, service := range ServiceOrder[1:] {
			summary.Reports = append(summary.Reports, Report{
				Service: service,
				Status:  StatusNotChecked,
				Message: "skipped: SSH gate timed out",
			})
		}
		logging.Warn("convergence aborted",
			"address", address, "attempts", gateResult.Attempts, "elapsed", gateResult.Elapsed)
		return summary
	}

	summary.Reports = append(summary.Reports, c.checkDatabase(ctx, address))
	summary.Reports = append(summary.Reports, c.checkBroker(address))
	summary.Reports = append(summary.Reports, c.checkDashboard(address))

	return summary
}

// checkSSH waits for the control plane under the readiness gate. This is
// the only fatal probe: everything after it needs a reachable host.
func (c *Checker) checkSSH(ctx context.Context, address string) (Report, gate.Result) {
	c.notify(ServiceSSH, StatusChecking)

	gateOpts := gate.Options{
		MaxWait:        time.Duration(c.cfg.Timeouts.SSHMaxWait) * time.Second,
		Interval:       time.Duration(c.cfg.Timeouts.SSHInterval) * time.Second,
		ConnectTimeout: time.Duration(c.cfg.Timeouts.ConnectTimeout) * time.Second,
	}

	result := c.newGate(gateOpts).Wait(func(timeout time.Duration) bool {
		opts := c.sshOptions(address).WithTimeout(int(timeout / time.Second))
		_, err := c.remote(ctx, opts, "true")
		return err == nil
	})

	report := Report{Service: ServiceSSH}
	if result.Ready() {
		report.Status = StatusReady
		report.Message = fmt.Sprintf("reachable after %d attempts", result.Attempts)
	} else {
		report.Status = StatusUnreachable
		report.Message = fmt.Sprintf("gate timed out after %d attempts (%s)", result.Attempts, result.Elapsed)
	}

	c.notify(ServiceSSH, report.Status)
	return report, result
}

// checkDatabase probes TCP reachability of the database port, then runs a
// trivial authenticated query inside the database container. A reachable
// port with a failing query is degraded, not unreachable: the database may
// still be initializing its data directory.
func (c *Checker) checkDatabase(ctx context.Context, address string) Report {
	c.notify(ServiceDatabase, StatusChecking)

	db := c.cfg.Services.Database
	report := Report{Service: ServiceDatabase}

	if !c.dial(address, db.Port, c.connectTimeout()) {
		report.Status = StatusUnreachable
		report.Message = fmt.Sprintf("port %d unreachable", db.Port)
		c.notify(ServiceDatabase, report.Status)
		return report
	}

	query := shellquote.Join("docker", "exec", db.Container,
		"psql", "-U", db.User, "-d", db.Name, "-tAc", "SELECT 1")

	out, err := c.remote(ctx, c.sshOptions(address), query)
	if err != nil {
		report.Status = StatusDegraded
		report.Message = "port open but query failed (database may still be initializing)"
		c.notify(ServiceDatabase, report.Status)
		return report
	}
	if strings.TrimSpace(out) != "1" {
		report.Status = StatusDegraded
		report.Message = fmt.Sprintf("unexpected query result: %q", strings.TrimSpace(out))
		c.notify(ServiceDatabase, report.Status)
		return report
	}

	if c.verifyData {
		return c.verifyTelemetry(ctx, address, report)
	}

	report.Status = StatusReady
	report.Message = "query ok"
	c.notify(ServiceDatabase, report.Status)
	return report
}

// verifyTelemetry deepens the database check: the sensor_data hypertable
// must have received rows recently, proving the ingest path end to end.
func (c *Checker) verifyTelemetry(ctx context.Context, address string, report Report) Report {
	db := c.cfg.Services.Database
	query := shellquote.Join("docker", "exec", db.Container,
		"psql", "-U", db.User, "-d", db.Name, "-tAc",
		"SELECT count(*) FROM sensor_data WHERE time > now() - interval '5 minutes'")

	out, err := c.remote(ctx, c.sshOptions(address), query)
	if err != nil {
		report.Status = StatusDegraded
		report.Message = "telemetry check failed"
	} else if strings.TrimSpace(out) == "0" {
		report.Status = StatusDegraded
		report.Message = "no telemetry rows in the last 5 minutes"
	} else {
		report.Status = StatusReady
		report.Message = fmt.Sprintf("telemetry flowing (%s recent rows)", strings.TrimSpace(out))
	}

	c.notify(ServiceDatabase, report.Status)
	return report
}

// checkBroker is a TCP reachability check only; the MQTT handshake is left
// to the clients that will actually publish.
func (c *Checker) checkBroker(address string) Report {
	c.notify(ServiceBroker, StatusChecking)

	port := c.cfg.Services.Broker.Port
	report := Report{Service: ServiceBroker}

	if c.dial(address, port, c.connectTimeout()) {
		report.Status = StatusReady
		report.Message = fmt.Sprintf("port %d reachable", port)
	} else {
		report.Status = StatusUnreachable
		report.Message = fmt.Sprintf("port %d unreachable", port)
	}

	c.notify(ServiceBroker, report.Status)
	return report
}

// checkDashboard probes the dashboard port, then fetches the health
// endpoint and looks for the marker token in the body.
func (c *Checker) checkDashboard(address string) Report {
	c.notify(ServiceDashboard, StatusChecking)

	dash := c.cfg.Services.Dashboard
	report := Report{Service: ServiceDashboard}

	if !c.dial(address, dash.Port, c.connectTimeout()) {
		report.Status = StatusUnreachable
		report.Message = fmt.Sprintf("port %d unreachable", dash.Port)
		c.notify(ServiceDashboard, report.Status)
		return report
	}

	url := fmt.Sprintf("http://%s:%d%s", address, dash.Port, dash.HealthPath)
	status, body, err := c.httpGet(url, c.connectTimeout())
	switch {
	case err != nil:
		report.Status = StatusDegraded
		report.Message = fmt.Sprintf("health endpoint error: %v", err)
	case !strings.Contains(body, dash.Marker):
		report.Status = StatusDegraded
		report.Message = fmt.Sprintf("health endpoint returned %d without marker %q", status, dash.Marker)
	default:
		report.Status = StatusReady
		report.Message = "health endpoint ok"
	}

	c.notify(ServiceDashboard, report.Status)
	return report
}

func (c *Checker) connectTimeout() time.Duration {
	return time.Duration(c.cfg.Timeouts.ConnectTimeout) * time.Second
}
