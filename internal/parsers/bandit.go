package parsers

import (
	"fmt"
	"strings"

	"github.com/23andMe/lintly/api/schemas"
)

// BanditJSONParser handles `bandit -f json`. One violation is produced per
// result; bandit's severity and confidence ratings are carried through so
// downstream gating can filter on them.
type BanditJSONParser struct{}

// Parse decodes the report document and flattens its results.
func (BanditJSONParser) Parse(output string) (schemas.FileViolations, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return schemas.FileViolations{}, nil
	}

	var report schemas.BanditReport
	if err := json.UnmarshalFromString(output, &report); err != nil {
		return nil, fmt.Errorf("decoding bandit JSON report: %w", err)
	}

	violations := schemas.FileViolations{}
	for _, result := range report.Results {
		violations.Add(normalizePath(result.Filename), schemas.Violation{
			Line:       result.LineNumber,
			Code:       fmt.Sprintf("%s (%s)", result.TestID, result.TestName),
			Message:    result.IssueText,
			Severity:   result.IssueSeverity,
			Confidence: result.IssueConfidence,
		})
	}

	return violations, nil
}
