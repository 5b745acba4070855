package model

// Severity ranks validation issues. Errors block validity; warnings and
// infos only reduce confidence.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one validation finding against a record.
type Issue struct {
	Field      Field    `json:"field,omitempty"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// ValidationResult is the outcome of scoring one record.
type ValidationResult struct {
	IsValid          bool               `json:"is_valid"`
	Confidence       float64            `json:"confidence"`
	FieldValidations map[Field]float64  `json:"field_validations,omitempty"`
	Issues           []Issue            `json:"issues,omitempty"`
	Suggestions      []string           `json:"suggestions,omitempty"`
}

// HasErrors reports whether any issue carries error severity.
func (r *ValidationResult) HasErrors() bool {
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}
