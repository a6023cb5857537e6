package lint

import "fmt"

// Severity classifies lint findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding raised by a rule against a document.
type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: [%s] %s", i.Severity, i.Path, i.Rule, i.Message)
}

// Report aggregates the findings of one lint run.
type Report struct {
	Documents int     `json:"documents"`
	Issues    []Issue `json:"issues"`
}

// Errors counts error-severity issues.
func (r *Report) Errors() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// Warnings counts warning-severity issues.
func (r *Report) Warnings() int {
	return len(r.Issues) - r.Errors()
}

// HasErrors reports whether the run should fail a build.
func (r *Report) HasErrors() bool {
	return r.Errors() > 0
}
