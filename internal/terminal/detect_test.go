package terminal

import "testing"

func TestIsInteractive(t *testing.T) {
	// Test runners are not attached to a TTY, so the value is
	// environment-dependent; this only verifies the probe runs.
	_ = IsInteractive()
}
