// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ShellAuto probes for pwsh first and falls back to powershell at each run.
	ShellAuto ShellPreference = "auto"
	// ShellPwsh prefers PowerShell 7+ (pwsh).
	ShellPwsh ShellPreference = "pwsh"
	// ShellPowershell prefers Windows PowerShell (powershell).
	ShellPowershell ShellPreference = "powershell"

	// ModeHeadless runs batches as a detached process with captured output.
	ModeHeadless ExecutionMode = "headless"
	// ModeTerminal runs batches inside a visible interactive terminal session.
	ModeTerminal ExecutionMode = "terminal"
)

var (
	// ErrInvalidShellPreference is returned when a ShellPreference value is not recognized.
	ErrInvalidShellPreference = errors.New("invalid shell preference")
	// ErrInvalidExecutionMode is returned when an ExecutionMode value is not recognized.
	ErrInvalidExecutionMode = errors.New("invalid execution mode")
)

type (
	// ShellPreference selects which PowerShell executable the runner targets.
	ShellPreference string

	// ExecutionMode selects between headless and terminal execution.
	ExecutionMode string

	// ShellConfig groups shell selection settings.
	ShellConfig struct {
		Preferred ShellPreference `mapstructure:"preferred"`
	}

	// ExecutionConfig groups execution settings.
	ExecutionConfig struct {
		Mode ExecutionMode `mapstructure:"mode"`
	}

	// PacksConfig groups custom pack sources. CustomDir is scanned
	// non-recursively for pack files; CustomPaths are explicit files.
	PacksConfig struct {
		CustomDir   string   `mapstructure:"custom_dir"`
		CustomPaths []string `mapstructure:"custom_paths"`
	}

	// RunnerConfig groups runner behavior settings.
	RunnerConfig struct {
		// KillOnCancel controls whether Cancel() terminates the active process.
		KillOnCancel bool `mapstructure:"kill_on_cancel"`
	}

	// ElevationConfig groups elevation settings. Elevated execution itself is
	// delegated to a dedicated subsystem; the timeout is only cited in the
	// advisory the headless runner emits.
	ElevationConfig struct {
		WaitTimeoutMs int `mapstructure:"wait_timeout_ms"`
	}

	// ArtifactsConfig groups run artifact settings.
	ArtifactsConfig struct {
		RetentionDays int `mapstructure:"retention_days"`
	}

	// HistoryConfig groups run history settings.
	HistoryConfig struct {
		MaxEntries int `mapstructure:"max_entries"`
	}

	// Config is the complete psdash configuration.
	Config struct {
		Shell     ShellConfig     `mapstructure:"shell"`
		Execution ExecutionConfig `mapstructure:"execution"`
		Packs     PacksConfig     `mapstructure:"packs"`
		Runner    RunnerConfig    `mapstructure:"runner"`
		Elevation ElevationConfig `mapstructure:"elevation"`
		Artifacts ArtifactsConfig `mapstructure:"artifacts"`
		History   HistoryConfig   `mapstructure:"history"`
	}
)

// IsValid reports whether the shell preference is one of the known values.
func (s ShellPreference) IsValid() bool {
	switch s {
	case ShellAuto, ShellPwsh, ShellPowershell:
		return true
	}
	return false
}

// IsValid reports whether the execution mode is one of the known values.
func (m ExecutionMode) IsValid() bool {
	switch m {
	case ModeHeadless, ModeTerminal:
		return true
	}
	return false
}

// DefaultConfig returns the configuration used when no config file exists.
// Defaults mirror the documented settings contract: auto shell detection,
// headless execution, kill-on-cancel enabled.
func DefaultConfig() *Config {
	return &Config{
		Shell:     ShellConfig{Preferred: ShellAuto},
		Execution: ExecutionConfig{Mode: ModeHeadless},
		Packs:     PacksConfig{},
		Runner:    RunnerConfig{KillOnCancel: true},
		Elevation: ElevationConfig{WaitTimeoutMs: 60000},
		Artifacts: ArtifactsConfig{RetentionDays: 14},
		History:   HistoryConfig{MaxEntries: 100},
	}
}

// Validate checks enum-valued fields that the CUE schema cannot catch when
// the config was assembled programmatically rather than loaded from file.
func (c *Config) Validate() error {
	if !c.Shell.Preferred.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidShellPreference, c.Shell.Preferred)
	}
	if !c.Execution.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidExecutionMode, c.Execution.Mode)
	}
	if c.Elevation.WaitTimeoutMs < 0 {
		return fmt.Errorf("elevation.wait_timeout_ms must be >= 0, got %d", c.Elevation.WaitTimeoutMs)
	}
	if c.Artifacts.RetentionDays < 0 {
		return fmt.Errorf("artifacts.retention_days must be >= 0, got %d", c.Artifacts.RetentionDays)
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must be >= 0, got %d", c.History.MaxEntries)
	}
	return nil
}
