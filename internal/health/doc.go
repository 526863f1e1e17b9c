// Package health runs the service probe battery for a deployment target.
//
// A convergence run checks four services in a fixed order:
//
//	ssh       - fatal gate; an authenticated no-op under a readiness gate.
//	            Timing out aborts the run before any other probe executes.
//	database  - TCP connect to the TimescaleDB port, then a trivial
//	            authenticated query inside the container.
//	broker    - TCP connect to the MQTT port only.
//	dashboard - TCP connect to the Grafana port, then an HTTP GET of the
//	            health endpoint checked for a marker token.
//
// # Service Status
//
// Each service lands in one of:
//
//	StatusReady       - functional check passed
//	StatusDegraded    - port open but the functional check failed
//	StatusUnreachable - port closed
//	StatusNotChecked  - skipped because the SSH gate aborted the run
//
// Soft probes are independent: one service failing never stops the rest of
// the battery. Results always appear in ServiceOrder.
//
// # Converged Threshold
//
// Summary.Converged reports run success: SSH ready plus at least one
// datapath service (database or broker) ready. The dashboard is reported
// but never gates the exit status.
package health
