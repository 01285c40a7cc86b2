// Package formatters renders violations as the markdown lintly posts to pull
// requests.
package formatters

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/23andMe/lintly/api/schemas"
)

// CommentMarker is appended to everything lintly posts. Later runs find and
// delete their predecessors' comments by this marker, so it must stay stable
// across versions.
const CommentMarker = "<!--lintly-->"

var inlineTemplate = template.Must(template.New("inline").Parse(
	"**`{{.Code}}`** {{.Message}}\n\n" + CommentMarker + "\n"))

var reviewBodyTemplate = template.Must(template.New("review").Parse(
	`Lintly found **{{.Total}} issue{{if ne .Total 1}}s{{end}}** in this pull request.
{{- if .Outside}}

The following issues are outside of the diff and could not be commented on inline:
{{range .Outside}}
### ` + "`{{.Path}}`" + `
{{range .Violations}}* Line {{.Line}}: ` + "`{{.Code}}`" + ` {{.Message}}
{{end}}{{end}}{{end}}
` + CommentMarker + "\n"))

// InlineComment renders the body of one inline review comment.
func InlineComment(v schemas.Violation) string {
	var sb strings.Builder
	if err := inlineTemplate.Execute(&sb, v); err != nil {
		// The template only touches plain struct fields; execution cannot
		// fail short of a programming error.
		panic(fmt.Sprintf("formatters: inline template: %v", err))
	}
	return sb.String()
}

// fileSection groups the violations of one file for the review body.
type fileSection struct {
	Path       string
	Violations []schemas.Violation
}

// ReviewBody renders the overall review body. total is the full violation
// count; outside holds the violations that fell outside the PR diff and so
// get listed in the body instead of commented inline.
func ReviewBody(total int, outside schemas.FileViolations) string {
	sections := make([]fileSection, 0, len(outside))
	for _, path := range outside.Paths() {
		sections = append(sections, fileSection{Path: path, Violations: outside[path]})
	}

	var sb strings.Builder
	err := reviewBodyTemplate.Execute(&sb, struct {
		Total   int
		Outside []fileSection
	}{Total: total, Outside: sections})
	if err != nil {
		panic(fmt.Sprintf("formatters: review template: %v", err))
	}
	return sb.String()
}

// StatusDescription renders the short commit status line. GitHub truncates
// descriptions past 140 characters, so this stays terse.
func StatusDescription(total int) string {
	switch total {
	case 0:
		return "Lintly found no issues"
	case 1:
		return "Lintly found 1 issue"
	default:
		return fmt.Sprintf("Lintly found %d issues", total)
	}
}
