package schemas

import "sort"

// -- Violation Schemas --

// Severity represents the severity axis of a finding as reported by security
// linters such as bandit. Linters that have no severity concept report
// SeverityUndefined.
type Severity string

// Constants defining the standard severity levels for violations.
const (
	SeverityHigh      Severity = "HIGH"
	SeverityMedium    Severity = "MEDIUM"
	SeverityLow       Severity = "LOW"
	SeverityUndefined Severity = "UNDEFINED"
)

// Rank returns an ordering value for threshold comparisons. Higher is more
// severe. SeverityUndefined ranks below SeverityLow so that gating on "LOW"
// never trips on findings the linter itself declined to rate.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s meets or exceeds the given threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}

// Confidence represents the confidence axis of a finding. Bandit rates
// severity and confidence independently on the same HIGH/MEDIUM/LOW scale.
type Confidence string

// Constants defining the standard confidence levels for violations.
const (
	ConfidenceHigh      Confidence = "HIGH"
	ConfidenceMedium    Confidence = "MEDIUM"
	ConfidenceLow       Confidence = "LOW"
	ConfidenceUndefined Confidence = "UNDEFINED"
)

// Violation is a single linting issue at a specific location in a file.
// Line and Column are 1-based; linters without column information report 0.
type Violation struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`

	// Severity and Confidence are populated only by parsers whose source
	// format carries them (bandit). Everything else leaves them UNDEFINED.
	Severity   Severity   `json:"severity,omitempty"`
	Confidence Confidence `json:"confidence,omitempty"`
}

// FileViolations groups violations by normalized file path, the shape every
// parser produces and every backend consumes.
type FileViolations map[string][]Violation

// Add appends a violation to the given path's list.
func (fv FileViolations) Add(path string, v Violation) {
	fv[path] = append(fv[path], v)
}

// Total returns the number of violations across all files.
func (fv FileViolations) Total() int {
	n := 0
	for _, vs := range fv {
		n += len(vs)
	}
	return n
}

// Paths returns the file paths in sorted order so that review bodies and
// console output are deterministic.
func (fv FileViolations) Paths() []string {
	paths := make([]string, 0, len(fv))
	for p := range fv {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
