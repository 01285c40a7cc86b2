// Package banditreport loads and verifies bandit JSON report documents.
//
// Verification happens in two stages: structural validation against a JSON
// Schema, then integrity checks that the schema cannot express (the "_totals"
// metrics entry must equal the sum of the per-file entries, every finding
// must belong to a file that has metrics, and a finding's primary line must
// fall inside its reported line range).
package banditreport

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	jsoniter "github.com/json-iterator/go"
	"github.com/xeipuuv/gojsonschema"

	"github.com/23andMe/lintly/api/schemas"
)

//go:embed schema.json
var reportSchema string

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Load reads and decodes a bandit report from disk after validating it
// against the report schema.
func Load(path string) (*schemas.BanditReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bandit report: %w", err)
	}
	return Parse(data)
}

// Parse validates raw report bytes against the schema and decodes them.
func Parse(data []byte) (*schemas.BanditReport, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var report schemas.BanditReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding bandit report: %w", err)
	}
	return &report, nil
}

func validateSchema(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(reportSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("bandit report is not valid JSON: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return &SchemaError{Problems: problems}
	}
	return nil
}

// SchemaError reports JSON Schema violations in the document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("bandit report failed schema validation (%d problems)", len(e.Problems))
}

// IntegrityError reports internal inconsistencies in a structurally valid
// document.
type IntegrityError struct {
	Problems []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("bandit report failed integrity checks (%d problems)", len(e.Problems))
}

// CheckIntegrity verifies the cross-field invariants of a report. All
// problems are collected so a single run surfaces everything that is wrong.
func CheckIntegrity(report *schemas.BanditReport) error {
	var problems []string

	totals, hasTotals := report.Metrics[schemas.MetricsTotalsKey]
	if !hasTotals {
		problems = append(problems, `metrics has no "_totals" entry`)
	} else {
		var sum schemas.BanditFileMetrics
		for path, m := range report.Metrics {
			if path == schemas.MetricsTotalsKey {
				continue
			}
			sum.ConfidenceHigh += m.ConfidenceHigh
			sum.ConfidenceLow += m.ConfidenceLow
			sum.ConfidenceMedium += m.ConfidenceMedium
			sum.ConfidenceUndefined += m.ConfidenceUndefined
			sum.SeverityHigh += m.SeverityHigh
			sum.SeverityLow += m.SeverityLow
			sum.SeverityMedium += m.SeverityMedium
			sum.SeverityUndefined += m.SeverityUndefined
			sum.LOC += m.LOC
			sum.Nosec += m.Nosec
		}
		if sum != totals {
			problems = append(problems, fmt.Sprintf(
				"_totals does not equal the sum of per-file metrics: got %+v, want %+v", totals, sum))
		}
	}

	for i, result := range report.Results {
		if _, ok := report.Metrics[result.Filename]; !ok {
			problems = append(problems, fmt.Sprintf(
				"results[%d]: filename %q has no metrics entry", i, result.Filename))
		}
		if len(result.LineRange) > 0 && !slices.Contains(result.LineRange, result.LineNumber) {
			problems = append(problems, fmt.Sprintf(
				"results[%d]: line_number %d not in line_range %v", i, result.LineNumber, result.LineRange))
		}
	}

	if len(problems) > 0 {
		return &IntegrityError{Problems: problems}
	}
	return nil
}

// Summary aggregates a report's findings for console output and gating.
type Summary struct {
	Files        int
	LOC          int
	Nosec        int
	BySeverity   map[schemas.Severity]int
	ByConfidence map[schemas.Confidence]int
}

// Summarize counts findings along both of bandit's rating axes. File count
// and line totals come from the metrics section, findings from results.
func Summarize(report *schemas.BanditReport) Summary {
	s := Summary{
		BySeverity:   map[schemas.Severity]int{},
		ByConfidence: map[schemas.Confidence]int{},
	}

	for path, m := range report.Metrics {
		if path == schemas.MetricsTotalsKey {
			continue
		}
		s.Files++
		s.LOC += m.LOC
		s.Nosec += m.Nosec
	}

	for _, result := range report.Results {
		s.BySeverity[result.IssueSeverity]++
		s.ByConfidence[result.IssueConfidence]++
	}

	return s
}

// CountAtOrAbove returns how many findings rate at or above the severity
// threshold.
func (s Summary) CountAtOrAbove(threshold schemas.Severity) int {
	n := 0
	for severity, count := range s.BySeverity {
		if severity.AtLeast(threshold) {
			n += count
		}
	}
	return n
}

// SeverityLevels returns the severity axis from most to least severe, for
// stable iteration in output.
func SeverityLevels() []schemas.Severity {
	return []schemas.Severity{
		schemas.SeverityHigh, schemas.SeverityMedium,
		schemas.SeverityLow, schemas.SeverityUndefined,
	}
}

// ConfidenceLevels returns the confidence axis from most to least confident.
func ConfidenceLevels() []schemas.Confidence {
	return []schemas.Confidence{
		schemas.ConfidenceHigh, schemas.ConfidenceMedium,
		schemas.ConfidenceLow, schemas.ConfidenceUndefined,
	}
}
