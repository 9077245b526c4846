// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// LocalDataDir returns the per-user local data directory using
// platform-specific conventions: Windows uses %LOCALAPPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_DATA_HOME
// (defaulting to ~/.local/share).
func LocalDataDir() (string, error) {
	switch runtime.GOOS {
	case Windows:
		dataDir := os.Getenv("LOCALAPPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return dataDir, nil
	case Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir != "" {
			return dataDir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// ConfigDir returns the per-user configuration directory: %APPDATA% on
// Windows, ~/Library/Application Support on macOS, $XDG_CONFIG_HOME
// (defaulting to ~/.config) elsewhere.
func ConfigDir() (string, error) {
	switch runtime.GOOS {
	case Windows:
		cfgDir := os.Getenv("APPDATA")
		if cfgDir == "" {
			cfgDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return cfgDir, nil
	case Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		cfgDir := os.Getenv("XDG_CONFIG_HOME")
		if cfgDir != "" {
			return cfgDir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, ".config"), nil
	}
}
