package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/23andMe/lintly/api/schemas"
)

// LineRegexParser matches each output line against a regular expression with
// the named capture groups `path`, `line`, `column`, `code` and `message`.
// It covers any linter with a one-violation-per-line format (flake8's default
// output, ESLint's unix formatter).
type LineRegexParser struct {
	re *regexp.Regexp
}

// NewLineRegexParser compiles the pattern. The pattern must define all five
// named groups; this is a programming error, so compile failures panic at
// registration time.
func NewLineRegexParser(pattern string) *LineRegexParser {
	return &LineRegexParser{re: regexp.MustCompile(pattern)}
}

// Parse scans the output line by line. Lines that do not match the pattern
// are skipped.
func (p *LineRegexParser) Parse(output string) (schemas.FileViolations, error) {
	violations := schemas.FileViolations{}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		match := p.re.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}

		groups := map[string]string{}
		for i, name := range p.re.SubexpNames() {
			if name != "" {
				groups[name] = match[i]
			}
		}

		lineNo, err := strconv.Atoi(groups["line"])
		if err != nil {
			continue
		}
		column, err := strconv.Atoi(groups["column"])
		if err != nil {
			continue
		}

		violations.Add(normalizePath(groups["path"]), schemas.Violation{
			Line:    lineNo,
			Column:  column,
			Code:    groups["code"],
			Message: groups["message"],
		})
	}

	return violations, nil
}
