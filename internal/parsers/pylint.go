package parsers

import (
	"fmt"
	"strings"

	"github.com/23andMe/lintly/api/schemas"
)

// PylintJSONParser handles `pylint --output-format=json`:
//
//	[
//	    {
//	        "type": "convention",
//	        "module": "lintly.backends.base",
//	        "line": 54,
//	        "column": 4,
//	        "path": "lintly/backends/base.py",
//	        "symbol": "missing-docstring",
//	        "message": "Missing method docstring",
//	        "message-id": "C0111"
//	    }
//	]
type PylintJSONParser struct{}

type pylintMessage struct {
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Path      string `json:"path"`
	Symbol    string `json:"symbol"`
	Message   string `json:"message"`
	MessageID string `json:"message-id"`
}

// Parse decodes the JSON message list. Pylint sometimes prefixes the output
// with "No config file found, using default configuration"; that line is
// stripped before decoding.
func (PylintJSONParser) Parse(output string) (schemas.FileViolations, error) {
	if strings.HasPrefix(output, "No config") {
		if _, rest, found := strings.Cut(output, "\n"); found {
			output = rest
		} else {
			output = ""
		}
	}

	output = strings.TrimSpace(output)
	if output == "" {
		return schemas.FileViolations{}, nil
	}

	var messages []pylintMessage
	if err := json.UnmarshalFromString(output, &messages); err != nil {
		return nil, fmt.Errorf("decoding pylint JSON output: %w", err)
	}

	violations := schemas.FileViolations{}
	for _, msg := range messages {
		violations.Add(normalizePath(msg.Path), schemas.Violation{
			Line:    msg.Line,
			Column:  msg.Column,
			Code:    fmt.Sprintf("%s (%s)", msg.MessageID, msg.Symbol),
			Message: msg.Message,
		})
	}

	return violations, nil
}
