package health

// ServiceStatus is the per-service outcome of a convergence run.
type ServiceStatus string

const (
	StatusNotChecked  ServiceStatus = "not-checked"
	StatusChecking    ServiceStatus = "checking"
	StatusReady       ServiceStatus = "ready"
	StatusDegraded    ServiceStatus = "degraded"
	StatusUnreachable ServiceStatus = "unreachable"
)

// Service names, in fixed report order.
const (
	ServiceSSH       = "ssh"
	ServiceDatabase  = "database"
	ServiceBroker    = "broker"
	ServiceDashboard = "dashboard"
)

// ServiceOrder is the deterministic order reports appear in a Summary,
// regardless of how the probes ran.
var ServiceOrder = []string{ServiceSSH, ServiceDatabase, ServiceBroker, ServiceDashboard}

// Report is the outcome of a single service probe.
type Report struct {
	Service string
	Status  ServiceStatus
	Message string
}

// Summary aggregates a convergence run: the resolved address plus one
// report per service in ServiceOrder. Aborted is set when the fatal SSH
// gate timed out and the soft probes never ran.
type Summary struct {
	Address     string
	Aborted     bool
	SSHAttempts int
	Reports     []Report
}

// Get returns the report for a service.
func (s *Summary) Get(service string) (Report, bool) {
	for _, r := range s.Reports {
		if r.Service == service {
			return r, true
		}
	}
	return Report{}, false
}

// Converged reports whether the run met the success threshold: the SSH
// gate passed and at least one datapath service (database or broker) is
// ready. The dashboard never affects the exit status; it only carries
// visualization.
func (s *Summary) Converged() bool {
	if s.Aborted {
		return false
	}

	sshReport, ok := s.Get(ServiceSSH)
	if !ok || sshReport.Status != StatusReady {
		return false
	}

	for _, service := range []string{ServiceDatabase, ServiceBroker} {
		if r, ok := s.Get(service); ok && r.Status == StatusReady {
			return true
		}
	}
	return false
}
