package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/23andMe/lintly/api/schemas"
)

// CfnLintParser handles cfn-lint's default two-line output format:
//
//	W2001 Parameter UnusedParameter not used.
//	template.yaml:2:9
type CfnLintParser struct{}

var cfnRuleRe = regexp.MustCompile(`^[EW]\d{4}\s`)

// Parse pairs each rule line with the location line that follows it.
func (CfnLintParser) Parse(output string) (schemas.FileViolations, error) {
	violations := schemas.FileViolations{}
	currentRule := ""

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if cfnRuleRe.MatchString(line) {
			currentRule = line
			continue
		}
		if currentRule == "" {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) != 3 {
			currentRule = ""
			continue
		}
		lineNo, err := strconv.Atoi(parts[1])
		if err != nil {
			currentRule = ""
			continue
		}
		column, err := strconv.Atoi(parts[2])
		if err != nil {
			currentRule = ""
			continue
		}

		code, message, _ := strings.Cut(currentRule, " ")
		violations.Add(normalizePath(parts[0]), schemas.Violation{
			Line:    lineNo,
			Column:  column,
			Code:    code,
			Message: message,
		})
		currentRule = ""
	}

	return violations, nil
}

// CfnNagParser handles cfn-nag's JSON output: a list of files, each carrying
// violations that may span multiple line numbers. Every line number becomes
// its own violation so each can be commented on individually.
type CfnNagParser struct{}

type cfnNagFile struct {
	Filename    string `json:"filename"`
	FileResults struct {
		Violations []struct {
			ID          string `json:"id"`
			Message     string `json:"message"`
			LineNumbers []int  `json:"line_numbers"`
		} `json:"violations"`
	} `json:"file_results"`
}

// Parse decodes the per-file violation list.
func (CfnNagParser) Parse(output string) (schemas.FileViolations, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return schemas.FileViolations{}, nil
	}

	var files []cfnNagFile
	if err := json.UnmarshalFromString(output, &files); err != nil {
		return nil, fmt.Errorf("decoding cfn-nag JSON output: %w", err)
	}

	violations := schemas.FileViolations{}
	for _, file := range files {
		path := normalizePath(file.Filename)
		fileViolations := []schemas.Violation{}
		for _, v := range file.FileResults.Violations {
			for _, lineNo := range v.LineNumbers {
				fileViolations = append(fileViolations, schemas.Violation{
					Line:    lineNo,
					Code:    v.ID,
					Message: v.Message,
				})
			}
		}
		violations[path] = fileViolations
	}

	return violations, nil
}
