package cli

import "fmt"

// ExitError carries a specific process exit code out of a command without
// being printed as an error; a failing check run is reported through the
// rendered report, not an error message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}
