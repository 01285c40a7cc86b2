package parsers

import (
	"fmt"
	"strings"

	"github.com/23andMe/lintly/api/schemas"
)

// HadolintParser handles `hadolint -f json`: a flat list of Dockerfile
// violations with full location information.
type HadolintParser struct{}

type hadolintViolation struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Column  int    `json:"column"`
	File    string `json:"file"`
}

// Parse decodes the violation list.
func (HadolintParser) Parse(output string) (schemas.FileViolations, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return schemas.FileViolations{}, nil
	}

	var records []hadolintViolation
	if err := json.UnmarshalFromString(output, &records); err != nil {
		return nil, fmt.Errorf("decoding hadolint JSON output: %w", err)
	}

	violations := schemas.FileViolations{}
	for _, rec := range records {
		violations.Add(normalizePath(rec.File), schemas.Violation{
			Line:    rec.Line,
			Column:  rec.Column,
			Code:    rec.Code,
			Message: rec.Message,
		})
	}

	return violations, nil
}
