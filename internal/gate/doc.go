// Package gate provides a bounded-retry polling primitive.
//
// A Gate turns a one-shot readiness probe into a converging wait: the probe
// is invoked, and on failure the gate sleeps for the configured interval and
// retries until the probe succeeds or the overall deadline elapses.
//
//	result := gate.Wait(probe, gate.Options{
//	    MaxWait:  5 * time.Minute,
//	    Interval: 10 * time.Second,
//	})
//	if !result.Ready() {
//	    // result.Attempts, result.Elapsed describe the failed wait
//	}
//
// The probe's mechanism is opaque to the gate, so the same primitive backs
// TCP reachability, authenticated SSH commands, and HTTP health checks.
// NewWithClock injects a synthetic clock for tests.
package gate
