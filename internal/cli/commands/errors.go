package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitNeedsUpdate = 1
	ExitConvertFail = 2
)

// StatusError ends a command with an exit code. Its message has already
// been shown to the user.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return ExitError
}

// IsSilent reports whether err was already reported to the user.
func IsSilent(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
