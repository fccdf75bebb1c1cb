package domain

// HealthStatus is the verdict of one doctor check. Only HealthError fails the run.
type HealthStatus string

const (
	HealthOK   HealthStatus = "ok"
	HealthWarn HealthStatus = "warn"
	// HealthError marks a check that makes serve or analyze unusable.
	HealthError HealthStatus = "error"
)

// HealthCheck is one line of `symcheck doctor` output: config file, analysis mode
// or history store.
type HealthCheck struct {
	Name    string
	Status  HealthStatus
	Details string
}

// HealthReport lists checks in the order they ran.
type HealthReport struct {
	Checks []HealthCheck
}

// Failed reports whether any check ended in HealthError.
func (r HealthReport) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == HealthError {
			return true
		}
	}
	return false
}
