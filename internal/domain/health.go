package domain

// HealthStatus is the outcome of one doctor check.
type HealthStatus string

const (
	HealthOK    HealthStatus = "ok"
	HealthWarn  HealthStatus = "warn"
	HealthError HealthStatus = "error"
)

// HealthCheckKind names what a doctor check inspected.
type HealthCheckKind string

const (
	CheckConfig     HealthCheckKind = "Config file"
	CheckClassifier HealthCheckKind = "Classifier"
	CheckGit        HealthCheckKind = "Git"
	CheckWorkspace  HealthCheckKind = "Workspace"
	CheckCheckpoint HealthCheckKind = "Checkpoint"
	CheckAPIKey     HealthCheckKind = "API key"
	CheckHistory    HealthCheckKind = "History"
)

// HealthCheck is one diagnostic result.
type HealthCheck struct {
	Kind    HealthCheckKind
	Status  HealthStatus
	Details string
}

// HealthReport is what `acc doctor` prints.
type HealthReport struct {
	Checks []HealthCheck
}

// Check returns the result for kind.
func (r HealthReport) Check(kind HealthCheckKind) (HealthCheck, bool) {
	for _, c := range r.Checks {
		if c.Kind == kind {
			return c, true
		}
	}
	return HealthCheck{}, false
}

// Worst is the most severe status in the report. An empty report is ok.
func (r HealthReport) Worst() HealthStatus {
	worst := HealthOK
	for _, c := range r.Checks {
		switch c.Status {
		case HealthError:
			return HealthError
		case HealthWarn:
			worst = HealthWarn
		}
	}
	return worst
}

// CanCheckpoint reports whether git and the workspace both passed.
func (r HealthReport) CanCheckpoint() bool {
	git, gitOK := r.Check(CheckGit)
	ws, wsOK := r.Check(CheckWorkspace)
	return gitOK && wsOK && git.Status == HealthOK && ws.Status == HealthOK
}
