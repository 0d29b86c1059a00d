// Package match computes which checks a changeset triggers. Matching is a
// pure function of the registry and the changeset so it can be tested
// without spawning processes.
package match

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/grovetools/gate/errors"
)

// Changeset is an ordered sequence of normalized relative file paths.
type Changeset []string

// NewChangeset normalizes raw file paths into a Changeset. Paths are
// converted to forward slashes and cleaned; duplicates are dropped while
// preserving first-occurrence order. Absolute paths and paths escaping the
// working tree are rejected.
func NewChangeset(paths []string) (Changeset, error) {
	seen := make(map[string]bool, len(paths))
	cs := make(Changeset, 0, len(paths))

	for _, raw := range paths {
		p := path.Clean(filepath.ToSlash(raw))
		if p == "." || p == "" {
			continue
		}
		if path.IsAbs(p) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "changeset path must be relative: "+raw).
				WithDetail("path", raw)
		}
		if p == ".." || strings.HasPrefix(p, "../") {
			return nil, errors.New(errors.ErrCodeInvalidInput, "changeset path escapes the working tree: "+raw).
				WithDetail("path", raw)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		cs = append(cs, p)
	}

	return cs, nil
}
