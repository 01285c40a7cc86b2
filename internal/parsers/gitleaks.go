package parsers

import (
	"fmt"
	"strings"

	"github.com/23andMe/lintly/api/schemas"
)

// GitLeaksParser handles gitleaks' JSON report: a list of leak records, each
// naming the offending string and the rule that matched it.
type GitLeaksParser struct{}

type gitleaksLeak struct {
	LineNumber int    `json:"lineNumber"`
	Offender   string `json:"offender"`
	Rule       string `json:"rule"`
	File       string `json:"file"`
}

// Parse decodes the leak list. The offender becomes the violation code and
// the rule name the message, matching how gitleaks presents its findings.
func (GitLeaksParser) Parse(output string) (schemas.FileViolations, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return schemas.FileViolations{}, nil
	}

	var leaks []gitleaksLeak
	if err := json.UnmarshalFromString(output, &leaks); err != nil {
		return nil, fmt.Errorf("decoding gitleaks JSON output: %w", err)
	}

	violations := schemas.FileViolations{}
	for _, leak := range leaks {
		violations.Add(normalizePath(leak.File), schemas.Violation{
			Line:    leak.LineNumber,
			Code:    leak.Offender,
			Message: leak.Rule,
		})
	}

	return violations, nil
}
