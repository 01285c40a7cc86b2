package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/23andMe/lintly/api/schemas"
)

// ESLintParser handles ESLint's default (stylish) formatter, which groups
// indented violation lines under a file path header:
//
//	/Users/grant/project/file1.js
//	    1:1    error  '$' is not defined    no-undef
//
//	✖ 2 problems (2 errors, 0 warnings)
type ESLintParser struct{}

var eslintViolationRe = regexp.MustCompile(
	`^(?P<line>\d+):(?P<column>\d+)\s+(error|warning)\s+(?P<message>.*\S)\s+(?P<code>\S+)$`)

// Parse walks the output. Indented lines are violations belonging to the most
// recent path header; the "✖" summary line terminates the listing.
func (ESLintParser) Parse(output string) (schemas.FileViolations, error) {
	violations := schemas.FileViolations{}
	currentFile := ""

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		switch {
		case strings.HasPrefix(line, " "):
			match := eslintViolationRe.FindStringSubmatch(strings.TrimSpace(line))
			if match == nil || currentFile == "" {
				continue
			}
			lineNo, _ := strconv.Atoi(match[1])
			column, _ := strconv.Atoi(match[2])
			violations.Add(currentFile, schemas.Violation{
				Line:    lineNo,
				Column:  column,
				Code:    match[5],
				Message: strings.TrimSpace(match[4]),
			})
		case strings.HasPrefix(line, "✖"):
			return violations, nil
		case strings.TrimSpace(line) != "":
			currentFile = normalizePath(line)
		}
	}

	return violations, nil
}
