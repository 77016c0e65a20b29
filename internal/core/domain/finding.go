package domain

type FindingSeverity string

const (
	SeverityError   FindingSeverity = "error"
	SeverityWarning FindingSeverity = "warning"
)

// Finding is one validation result for a stack descriptor.
type Finding struct {
	Severity FindingSeverity `json:"severity"`
	Service  string          `json:"service,omitempty"`
	Field    string          `json:"field,omitempty"`
	Message  string          `json:"message"`
} // @name Finding

// HasErrors reports whether any finding is severity error.
func HasErrors(findings []Finding) bool {
	for _, finding := range findings {
		if finding.Severity == SeverityError {
			return true
		}
	}
	return false
}
