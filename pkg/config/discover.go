package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DirName is the per-project settings directory.
const DirName = ".apiguide"

// FileName is the config file inside DirName.
const FileName = "config.yaml"

// DetectProjectRoot attempts to find the current project by walking up
// from the current directory looking for .apiguide/.
func DetectProjectRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findConfigRoot(dir)
}

// findConfigRoot walks up from dir looking for a .apiguide/ directory.
func findConfigRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		cfgDir := filepath.Join(dir, DirName)
		if info, err := os.Stat(cfgDir); err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

// userConfigPath returns $XDG_CONFIG_HOME/apiguide/config.yaml, falling
// back to ~/.config.
func userConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "apiguide", FileName)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
