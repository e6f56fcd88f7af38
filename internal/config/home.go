package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the per-user state directory.
const HomeEnv = "PROJEXPORT_HOME"

// Home returns the projexport state directory.
// Priority order:
//  1. PROJEXPORT_HOME environment variable (if set)
//  2. ~/.projexport
//  3. .projexport in the current working directory (no home directory)
//
// The directory is created if it doesn't exist.
func Home() (string, error) {
	home := os.Getenv(HomeEnv)
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil || userHome == "" {
			cwd, cwdErr := os.Getwd()
			if cwdErr != nil {
				return "", fmt.Errorf("get working directory: %w", cwdErr)
			}
			userHome = cwd
		}
		home = filepath.Join(userHome, ".projexport")
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create projexport home directory: %w", err)
	}

	return home, nil
}

// DefaultHistoryDBPath returns $PROJEXPORT_HOME/history.db
func DefaultHistoryDBPath() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "history.db"), nil
}

// DefaultLogDir returns $PROJEXPORT_HOME/logs
func DefaultLogDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "logs"), nil
}
