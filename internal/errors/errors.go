package errors

import (
	"fmt"
	"os"

	"github.com/julianstephens/steady/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// UserMessage turns an error into the short message shown in UI state.
// A nil error yields an empty message, which clears the field.
func UserMessage(action string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Could not %s: %v", action, err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
