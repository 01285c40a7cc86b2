// Package patch computes which lines a pull request changed and where those
// lines sit inside the unified diff.
//
// GitHub review comments do not address file line numbers directly; they
// address diff positions, counted from the first "@@" hunk header of each
// file (the line right below the header is position 1, and later hunk headers
// occupy a position themselves). This package maps added line numbers to
// those positions.
package patch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// Patch is a parsed pull request diff.
type Patch struct {
	// changed maps file path -> added line number -> diff position.
	changed map[string]map[int]int
}

// Parse parses a unified diff as produced by `git diff` or the GitHub
// pull request diff endpoint.
func Parse(diffText string) (*Patch, error) {
	if strings.TrimSpace(diffText) == "" {
		return &Patch{changed: map[string]map[int]int{}}, nil
	}

	fileDiffs, err := diff.ParseMultiFileDiff([]byte(diffText))
	if err != nil {
		return nil, fmt.Errorf("parsing unified diff: %w", err)
	}

	p := &Patch{changed: map[string]map[int]int{}}
	for _, fd := range fileDiffs {
		path := diffPath(fd)
		if path == "" {
			continue
		}
		p.changed[path] = addedLinePositions(fd)
	}
	return p, nil
}

// diffPath returns the post-image path of a file diff, stripped of the
// conventional a/-b/ prefixes. Deleted files have no post-image and yield "".
func diffPath(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "/dev/null" || name == "" {
		return ""
	}
	return strings.TrimPrefix(name, "b/")
}

// addedLinePositions walks the hunks of one file and records, for every added
// line, its line number in the new file and its position in the diff.
func addedLinePositions(fd *diff.FileDiff) map[int]int {
	positions := map[int]int{}

	pos := 0
	for i, hunk := range fd.Hunks {
		if i > 0 {
			// Every hunk header after the first occupies a diff position.
			pos++
		}
		lines := strings.Split(string(hunk.Body), "\n")
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		newLine := int(hunk.NewStartLine)
		for _, line := range lines {
			if strings.HasPrefix(line, `\`) {
				// "\ No newline at end of file" markers carry no position.
				continue
			}
			pos++
			if line == "" {
				// Blank context line with its leading space stripped.
				newLine++
				continue
			}
			switch line[0] {
			case '+':
				positions[newLine] = pos
				newLine++
			case ' ':
				newLine++
			case '-':
				// Removed line: advances the position but not the new file.
			}
		}
	}

	return positions
}

// HasFile reports whether the diff touches the given path.
func (p *Patch) HasFile(path string) bool {
	_, ok := p.changed[path]
	return ok
}

// ChangedLines returns the added line numbers for a path in ascending order.
func (p *Patch) ChangedLines(path string) []int {
	lines := make([]int, 0, len(p.changed[path]))
	for line := range p.changed[path] {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// Position returns the diff position of an added line, if that exact line was
// added by the diff.
func (p *Patch) Position(path string, line int) (int, bool) {
	pos, ok := p.changed[path][line]
	return pos, ok
}
