package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

type Paths struct {
	ConfigDir string
	DataDir   string
	CacheDir  string
	StateDir  string
}

// GetPaths returns all base paths respecting environment variables
func GetPaths() Paths {
	return Paths{
		ConfigDir: getDir("MSCORE_CONFIG_HOME", "XDG_CONFIG_HOME", ".config", "mscore"),
		DataDir:   getDir("MSCORE_DATA_HOME", "XDG_DATA_HOME", ".local/share", "mscore"),
		CacheDir:  getDir("MSCORE_CACHE_HOME", "XDG_CACHE_HOME", ".cache", "mscore"),
		StateDir:  getDir("MSCORE_STATE_HOME", "XDG_STATE_HOME", ".local/state", "mscore"),
	}
}

func getDir(mscoreEnv, xdgEnv, defaultBase, appName string) string {
	// 1. Check mscore-specific env
	if dir := os.Getenv(mscoreEnv); dir != "" {
		return dir
	}

	// 2. Check XDG env
	if xdgBase := os.Getenv(xdgEnv); xdgBase != "" {
		return filepath.Join(xdgBase, appName)
	}

	// 3. Use default
	home, _ := os.UserHomeDir()
	return filepath.Join(home, defaultBase, appName)
}

// EnsureDirectories creates all necessary directories
func EnsureDirectories() error {
	p := GetPaths()
	dirs := []string{
		p.ConfigDir,
		p.DataDir,
		p.CacheDir,
		filepath.Join(p.CacheDir, "index"),
		p.StateDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
