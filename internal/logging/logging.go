// Package logging sets up the zerolog logger. The TUI owns the terminal, so
// logs only ever go to a file.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
)

const appName = "aws-tui"

// DefaultPath returns $XDG_STATE_HOME/aws-tui/aws-tui.log, falling back to
// ~/.local/state
func DefaultPath() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName, appName+".log"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(homeDir, ".local", "state", appName, appName+".log"), nil
}

// Open returns a logger appending JSON lines to path.
// An unknown level falls back to info. The caller closes the returned file.
func Open(path, level string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, goerr.Wrap(err, "failed to create log directory", goerr.V("path", path))
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", path))
	}

	return New(logFile, lvl), logFile, nil
}

// New builds the application logger on w
func New(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("app", appName).
		Logger()
}
