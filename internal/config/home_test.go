package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestHomeWithEnvVar tests PROJEXPORT_HOME takes precedence
func TestHomeWithEnvVar(t *testing.T) {
	customHome := filepath.Join(t.TempDir(), "state")
	t.Setenv(HomeEnv, customHome)

	home, err := Home()
	if err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if home != customHome {
		t.Errorf("Home() = %q, want %q", home, customHome)
	}
	if _, err := os.Stat(home); err != nil {
		t.Errorf("home directory not created: %v", err)
	}
}

// TestHomeDefaultsToUserHome tests the ~/.projexport fallback
func TestHomeDefaultsToUserHome(t *testing.T) {
	userHome := t.TempDir()
	t.Setenv(HomeEnv, "")
	t.Setenv("HOME", userHome)

	home, err := Home()
	if err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if want := filepath.Join(userHome, ".projexport"); home != want {
		t.Errorf("Home() = %q, want %q", home, want)
	}
}

func TestDefaultLogDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	dir, err := DefaultLogDir()
	if err != nil {
		t.Fatalf("DefaultLogDir() error = %v", err)
	}
	if want := filepath.Join(home, "logs"); dir != want {
		t.Errorf("DefaultLogDir() = %q, want %q", dir, want)
	}
}
