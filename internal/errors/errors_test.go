package errors

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("something went wrong"), expected: "Error: something went wrong"},
		{name: "wrapped error", err: errors.New("failed to open database: locked"), expected: "Error: failed to open database: locked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage("save check-in", nil); got != "" {
		t.Errorf("UserMessage(nil) = %q, want empty", got)
	}
	got := UserMessage("save check-in", errors.New("disk full"))
	if got != "Could not save check-in: disk full" {
		t.Errorf("UserMessage() = %q", got)
	}
}
