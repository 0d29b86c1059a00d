package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *GateError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *GateError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// DuplicateHook creates a duplicate hook registration error
func DuplicateHook(name string) *GateError {
	return New(ErrCodeDuplicateHook, fmt.Sprintf("hook '%s' is already registered", name)).
		WithDetail("hook", name)
}

// InvalidPattern creates an error for a file pattern that does not compile
func InvalidPattern(hook, pattern string, err error) *GateError {
	return Wrap(err, ErrCodeInvalidPattern,
		fmt.Sprintf("hook '%s' has an invalid file pattern: %q", hook, pattern)).
		WithDetail("hook", hook).
		WithDetail("pattern", pattern)
}

// GitNotInstalled creates an error for a missing git executable
func GitNotInstalled(err error) *GateError {
	return Wrap(err, ErrCodeGitNotInstalled, "git executable not found on PATH")
}

// NotARepository creates an error for paths outside a git work tree
func NotARepository(path string) *GateError {
	return New(ErrCodeNotARepository, fmt.Sprintf("not a git repository: %s", path)).
		WithDetail("path", path)
}
