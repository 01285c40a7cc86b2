package parsers

import (
	"strings"

	"github.com/23andMe/lintly/api/schemas"
)

// BlackParser handles `black --check`, which reports one "would reformat
// <path>" line per file that needs formatting. Black has no notion of a
// specific offending line, so each file gets a single violation at 1:1.
type BlackParser struct{}

// Parse collects the files black would reformat.
func (BlackParser) Parse(output string) (schemas.FileViolations, error) {
	violations := schemas.FileViolations{}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if !strings.HasPrefix(line, "would reformat ") {
			continue
		}
		fields := strings.Fields(line)
		path := normalizePath(fields[len(fields)-1])
		violations[path] = []schemas.Violation{{
			Line:    1,
			Column:  1,
			Code:    "`black`",
			Message: "this file needs to be formatted",
		}}
	}

	return violations, nil
}
