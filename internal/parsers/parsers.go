// Package parsers turns raw linter output into violations grouped by file.
//
// Each supported linter format registers a Parser under the name users pass
// via --format. Parsers are lenient: lines or records they do not recognize
// are skipped, and empty input yields an empty result rather than an error.
package parsers

import (
	"fmt"
	"path/filepath"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/23andMe/lintly/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Parser converts the raw output of one linter into violations keyed by
// normalized file path.
type Parser interface {
	Parse(output string) (schemas.FileViolations, error)
}

// registry maps format names to their parsers. Populated in format.go.
var registry = map[string]Parser{}

// Lookup returns the parser registered for the given format name.
func Lookup(format string) (Parser, error) {
	p, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unsupported linter format %q (see `lintly parsers`)", format)
	}
	return p, nil
}

// Formats returns the registered format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalizePath cleans a path as reported by a linter so it is relative to
// the repository root: "./lintly/formatters.py" becomes "lintly/formatters.py".
// Linters are expected to run from the repo root, so a cleaned relative path
// is already root-relative.
func normalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}
