package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/gate/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "No gate.yml found. Create one in the repository root to declare your checks.\n")
		return err

	case errors.ErrCodeDuplicateHook:
		if gateErr, ok := err.(*errors.GateError); ok {
			fmt.Fprintf(os.Stderr, "Hook '%s' is declared more than once in gate.yml\n", gateErr.Details["hook"])
		}
		return err

	case errors.ErrCodeInvalidPattern:
		if gateErr, ok := err.(*errors.GateError); ok {
			fmt.Fprintf(os.Stderr, "Hook '%s' has an invalid file pattern: %v\n",
				gateErr.Details["hook"], gateErr.Details["pattern"])
		}
		return err

	case errors.ErrCodeConfigValidation:
		fmt.Fprintf(os.Stderr, "Configuration is invalid:\n%v\n", err)
		return err

	case errors.ErrCodeGitNotInstalled:
		fmt.Fprintf(os.Stderr, "git was not found on PATH. Install git or pass --files to supply the changeset directly.\n")
		return err

	case errors.ErrCodeNotARepository:
		fmt.Fprintf(os.Stderr, "Not inside a git repository. Run gate from a checked-out work tree or pass --files.\n")
		return err

	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if h.Verbose {
			if gateErr, ok := err.(*errors.GateError); ok {
				fmt.Fprintf(os.Stderr, "Details: %s\n", gateErr.ToJSON())
			}
		}
		return err
	}
}
