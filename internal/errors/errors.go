package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/vitatrack/vitatrack/internal/logger"
)

// Sync error taxonomy. Callers wrap these with %w and match with errors.Is.
var (
	// ErrNoUser is returned when an operation needs an active session and there is none.
	ErrNoUser = errors.New("no active user session")
	// ErrMissingIdentifier is returned when a mutation needs a server identifier the record lacks.
	ErrMissingIdentifier = errors.New("record has no server identifier")
	// ErrBadRequest is returned for invalid caller-supplied parameters.
	ErrBadRequest = errors.New("invalid request")
	// ErrNetworkUnavailable is returned for transport-level failures.
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrBadResponse is returned when the server answered with a non-success status or an unparsable body.
	ErrBadResponse = errors.New("bad response from server")
)

// Describe returns a short user-facing explanation for a sync error.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoUser):
		return "You are not logged in. Run 'vitatrack login' first."
	case errors.Is(err, ErrMissingIdentifier):
		return "This record has not been saved to the server yet."
	case errors.Is(err, ErrBadRequest):
		return "The request was invalid: " + err.Error()
	case errors.Is(err, ErrNetworkUnavailable):
		return "The server could not be reached. Check your connection and try again."
	case errors.Is(err, ErrBadResponse):
		return "The server rejected the request."
	default:
		return err.Error()
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := Describe(err); hint != err.Error() {
			fmt.Fprintf(os.Stderr, "       %s\n", hint)
		}
		os.Exit(1)
	}
}
