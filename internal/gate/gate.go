package gate

import (
	"time"

	"github.com/firefly-engineering/firefly-outpost/internal/logging"
)

// Status is the outcome of a gate wait.
type Status string

const (
	StatusReady    Status = "ready"
	StatusTimedOut Status = "timed-out"
)

// Probe is a one-shot readiness check, handed the per-attempt timeout it
// must bound itself by. The gate treats the probe's mechanism (TCP
// connect, SSH command, HTTP request) as opaque.
type Probe func(timeout time.Duration) bool

// Options configures a gate.
type Options struct {
	// MaxWait is the overall deadline for the wait.
	MaxWait time.Duration

	// Interval is the delay between probe attempts.
	Interval time.Duration

	// ConnectTimeout is the per-attempt timeout, passed to the probe on
	// every invocation. The gate does not enforce it; the probe must
	// bound its own attempts.
	ConnectTimeout time.Duration
}

// Result is the outcome of a single gate invocation.
type Result struct {
	Status   Status
	Attempts int
	Elapsed  time.Duration
}

// Ready reports whether the gate observed a successful probe.
func (r Result) Ready() bool {
	return r.Status == StatusReady
}

// Gate turns a one-shot probe into a converging wait with a bounded
// retry budget. The zero value is not usable; construct with New.
type Gate struct {
	opts  Options
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a Gate using the wall clock.
func New(opts Options) *Gate {
	return &Gate{
		opts:  opts,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// NewWithClock creates a Gate with an injected clock and sleep function,
// for tests that should not depend on real time.
func NewWithClock(opts Options, now func() time.Time, sleep func(time.Duration)) *Gate {
	return &Gate{opts: opts, now: now, sleep: sleep}
}

// Wait polls the probe until it succeeds or the deadline elapses.
// A Ready result always reflects at least one successful probe call;
// after a timeout the probe is never invoked again.
func (g *Gate) Wait(probe Probe) Result {
	start := g.now()
	result := Result{}

	for {
		result.Attempts++
		if probe(g.opts.ConnectTimeout) {
			result.Status = StatusReady
			result.Elapsed = g.now().Sub(start)
			logging.Debug("gate ready", "attempts", result.Attempts, "elapsed", result.Elapsed)
			return result
		}

		elapsed := g.now().Sub(start)
		if elapsed >= g.opts.MaxWait {
			result.Status = StatusTimedOut
			result.Elapsed = elapsed
			logging.Debug("gate timed out", "attempts", result.Attempts, "elapsed", elapsed)
			return result
		}

		g.sleep(g.opts.Interval)
	}
}

// Wait is a convenience for a single wall-clock gate invocation.
func Wait(probe Probe, opts Options) Result {
	return New(opts).Wait(probe)
}
