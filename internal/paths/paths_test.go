package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetPaths(t *testing.T) {
	p := GetPaths()

	if p.ConfigDir == "" {
		t.Error("ConfigDir should not be empty")
	}
	if p.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if p.CacheDir == "" {
		t.Error("CacheDir should not be empty")
	}
	if p.StateDir == "" {
		t.Error("StateDir should not be empty")
	}

	if !strings.Contains(p.ConfigDir, "mscore") {
		t.Errorf("ConfigDir should contain 'mscore', got %q", p.ConfigDir)
	}
	if !strings.Contains(p.DataDir, "mscore") {
		t.Errorf("DataDir should contain 'mscore', got %q", p.DataDir)
	}
}

func TestGetPathsWithMSCOREEnv(t *testing.T) {
	t.Setenv("MSCORE_CONFIG_HOME", "/custom/config")
	t.Setenv("MSCORE_DATA_HOME", "/custom/data")
	t.Setenv("MSCORE_CACHE_HOME", "/custom/cache")
	t.Setenv("MSCORE_STATE_HOME", "/custom/state")

	p := GetPaths()

	if p.ConfigDir != "/custom/config" {
		t.Errorf("expected ConfigDir '/custom/config', got %q", p.ConfigDir)
	}
	if p.DataDir != "/custom/data" {
		t.Errorf("expected DataDir '/custom/data', got %q", p.DataDir)
	}
	if p.CacheDir != "/custom/cache" {
		t.Errorf("expected CacheDir '/custom/cache', got %q", p.CacheDir)
	}
	if p.StateDir != "/custom/state" {
		t.Errorf("expected StateDir '/custom/state', got %q", p.StateDir)
	}
}

func TestGetPathsWithXDGEnv(t *testing.T) {
	t.Setenv("MSCORE_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	p := GetPaths()
	if p.ConfigDir != "/xdg/config/mscore" {
		t.Errorf("expected ConfigDir '/xdg/config/mscore', got %q", p.ConfigDir)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("MSCORE_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("MSCORE_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("MSCORE_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("MSCORE_STATE_HOME", filepath.Join(dir, "state"))

	err := EnsureDirectories()
	if err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	expectedDirs := []string{
		filepath.Join(dir, "config"),
		filepath.Join(dir, "data"),
		filepath.Join(dir, "cache"),
		filepath.Join(dir, "cache", "index"),
		filepath.Join(dir, "state"),
	}

	for _, d := range expectedDirs {
		if _, err := os.Stat(d); os.IsNotExist(err) {
			t.Errorf("expected directory %q to be created", d)
		}
	}
}
