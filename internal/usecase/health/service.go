package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Component names reported in Report.Checks.
const (
	CheckSearchIndex = "search_index"
	CheckRelational  = "relational"
)

// Service coordinates health checks.
type Service struct {
	index      DBPinger
	relational RelationalPinger
}

// New creates a Service.
func New(index DBPinger, relational RelationalPinger) *Service {
	return &Service{index: index, relational: relational}
}

// Check runs health checks against all components. One failing component
// degrades the service; all failing makes it unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		CheckSearchIndex: result(s.index.Ping(ctx)),
		CheckRelational:  result(s.relational.PingContext(ctx)),
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
