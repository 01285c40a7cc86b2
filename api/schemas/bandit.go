package schemas

// -- Bandit Report Schemas --
//
// These types mirror the JSON document bandit emits with `-f json`. The
// format is external and fixed; field names follow bandit's snake_case keys.

// BanditReport is the top-level report document.
type BanditReport struct {
	// Errors lists files bandit could not process. Usually empty.
	Errors []BanditError `json:"errors"`

	// GeneratedAt is an RFC 3339 timestamp string, e.g. "2021-01-07T23:39:39Z".
	GeneratedAt string `json:"generated_at"`

	// Metrics maps each scanned file path to its counters, plus a "_totals"
	// entry aggregating the whole run.
	Metrics map[string]BanditFileMetrics `json:"metrics"`

	// Results holds one entry per finding.
	Results []BanditResult `json:"results"`
}

// MetricsTotalsKey is the aggregate entry bandit writes into Metrics.
const MetricsTotalsKey = "_totals"

// BanditError describes a file bandit failed to scan.
type BanditError struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// BanditFileMetrics carries the per-file counters. Bandit emits the
// severity/confidence counters as floats even though they are counts.
type BanditFileMetrics struct {
	ConfidenceHigh      float64 `json:"CONFIDENCE.HIGH"`
	ConfidenceLow       float64 `json:"CONFIDENCE.LOW"`
	ConfidenceMedium    float64 `json:"CONFIDENCE.MEDIUM"`
	ConfidenceUndefined float64 `json:"CONFIDENCE.UNDEFINED"`
	SeverityHigh        float64 `json:"SEVERITY.HIGH"`
	SeverityLow         float64 `json:"SEVERITY.LOW"`
	SeverityMedium      float64 `json:"SEVERITY.MEDIUM"`
	SeverityUndefined   float64 `json:"SEVERITY.UNDEFINED"`
	LOC                 int     `json:"loc"`
	Nosec               int     `json:"nosec"`
}

// BanditResult is a single finding: location, the offending source snippet,
// the rule that fired, and bandit's two independent ratings.
type BanditResult struct {
	Code            string     `json:"code"`
	Filename        string     `json:"filename"`
	IssueConfidence Confidence `json:"issue_confidence"`
	IssueSeverity   Severity   `json:"issue_severity"`
	IssueText       string     `json:"issue_text"`
	LineNumber      int        `json:"line_number"`
	LineRange       []int      `json:"line_range"`
	MoreInfo        string     `json:"more_info"`
	TestID          string     `json:"test_id"`
	TestName        string     `json:"test_name"`
}
