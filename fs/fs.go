package fs

import (
	"os"
	"path/filepath"
)

// DefaultStateDir returns the default state directory for changediff.
// Uses XDG_STATE_HOME if set, otherwise falls back to ~/.local/state/changediff.
func DefaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "changediff")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "changediff")
}

// DefaultLogPath returns the log file location inside the state directory.
func DefaultLogPath() string {
	return filepath.Join(DefaultStateDir(), "changediff.log")
}

// OpenLogFile creates the parent directory if needed and opens path for
// appending.
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
