// Package hook holds the declarative definitions of pre-commit checks and
// the registry that validates and orders them.
package hook

import (
	"regexp"

	"github.com/grovetools/gate/errors"
)

// Definition describes a single named check. Definitions are created at
// configuration load time and are immutable for the duration of a run.
type Definition struct {
	// Name uniquely identifies the check within a registry.
	Name string `json:"name"`

	// Enabled controls whether the check can ever trigger. Nil means true.
	Enabled *bool `json:"enabled,omitempty"`

	// Files is a regular expression matched against relative file paths.
	// When empty, the check runs unconditionally.
	Files string `json:"files,omitempty"`

	// Exclude is an optional regular expression removing paths that Files
	// matched, mirroring the include/exclude semantics of most hook runners.
	Exclude string `json:"exclude,omitempty"`

	// Entry is the program and its fixed arguments.
	Entry []string `json:"entry"`

	// PassFilenames controls whether matched paths are appended to Entry.
	// Nil means true.
	PassFilenames *bool `json:"pass_filenames,omitempty"`

	// Description is free text and has no effect on behavior.
	Description string `json:"description,omitempty"`

	files   *regexp.Regexp
	exclude *regexp.Regexp
}

// IsEnabled reports whether the check may trigger.
func (d *Definition) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// PassesFilenames reports whether matched paths are appended as arguments.
func (d *Definition) PassesFilenames() bool {
	return d.PassFilenames == nil || *d.PassFilenames
}

// HasPattern reports whether the check is file-coupled.
func (d *Definition) HasPattern() bool {
	return d.Files != ""
}

// Matches reports whether a normalized relative path selects this check.
// It always returns false for patternless definitions; those trigger
// unconditionally and never consume individual paths.
func (d *Definition) Matches(path string) bool {
	if d.files == nil {
		return false
	}
	if !d.files.MatchString(path) {
		return false
	}
	if d.exclude != nil && d.exclude.MatchString(path) {
		return false
	}
	return true
}

func (d *Definition) compile() error {
	if d.Files != "" {
		re, err := regexp.Compile(d.Files)
		if err != nil {
			return errors.InvalidPattern(d.Name, d.Files, err)
		}
		d.files = re
	}
	if d.Exclude != "" {
		re, err := regexp.Compile(d.Exclude)
		if err != nil {
			return errors.InvalidPattern(d.Name, d.Exclude, err)
		}
		d.exclude = re
	}
	return nil
}
