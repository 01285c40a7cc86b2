package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/23andMe/lintly/api/schemas"
)

// StylelintParser handles stylelint's default formatter:
//
//	lintly/static/sass/file1.scss
//	  13:1  ✖  Expected no more than 1 empty line   max-empty-lines
type StylelintParser struct{}

var stylelintViolationRe = regexp.MustCompile(
	`^(?P<line>\d+):(?P<column>\d+)\s+✖\s+(?P<message>.*\S)\s+(?P<code>\S+)$`)

// Parse walks the output, treating indented lines as violations of the most
// recent file path header.
func (StylelintParser) Parse(output string) (schemas.FileViolations, error) {
	violations := schemas.FileViolations{}
	currentFile := ""

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.HasPrefix(line, " ") {
			match := stylelintViolationRe.FindStringSubmatch(strings.TrimSpace(line))
			if match == nil || currentFile == "" {
				continue
			}
			lineNo, _ := strconv.Atoi(match[1])
			column, _ := strconv.Atoi(match[2])
			violations.Add(currentFile, schemas.Violation{
				Line:    lineNo,
				Column:  column,
				Code:    match[4],
				Message: strings.TrimSpace(match[3]),
			})
		} else if strings.TrimSpace(line) != "" {
			currentFile = normalizePath(line)
		}
	}

	return violations, nil
}
