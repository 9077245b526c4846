// SPDX-License-Identifier: MPL-2.0

// Package shell locates PowerShell executables and picks the one a run
// should use. Two flavors exist: pwsh (PowerShell 7+) and powershell
// (Windows PowerShell 5.1). Detection is cheap enough to repeat per run,
// which is what the auto preference does so a freshly installed pwsh is
// picked up without restarting.
package shell

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"psdash-cli/internal/config"
	"psdash-cli/internal/issue"

	"github.com/charmbracelet/log"
)

const (
	// ExePwsh is the PowerShell 7+ executable name.
	ExePwsh = "pwsh"
	// ExePowershell is the Windows PowerShell executable name.
	ExePowershell = "powershell"

	// probeTimeout bounds the version probe for one executable.
	probeTimeout = 5 * time.Second

	// versionProbe prints the engine version and nothing else.
	versionProbe = "$PSVersionTable.PSVersion.ToString()"
)

var (
	// ErrNoShellFound is returned when neither PowerShell flavor is usable.
	ErrNoShellFound = errors.New("no PowerShell executable found")

	// ErrShellUnavailable is returned by Require when the demanded flavor
	// is not usable, regardless of what else is installed.
	ErrShellUnavailable = errors.New("requested PowerShell executable unavailable")
)

type (
	// Info describes one probed PowerShell executable.
	Info struct {
		Name      string
		Path      string
		Version   string
		Available bool
		// Reason explains unavailability for diagnostics output.
		Reason string
	}

	// ProbeFunc resolves an executable name to its path and version.
	// Injectable so tests can simulate machines with arbitrary shells.
	ProbeFunc func(ctx context.Context, exe string) (path, version string, err error)

	// Detector probes for PowerShell executables.
	Detector struct {
		probe   ProbeFunc
		timeout time.Duration
		logger  *log.Logger
	}
)

// NewDetector creates a detector that probes real executables on PATH.
func NewDetector(logger *log.Logger) *Detector {
	return &Detector{probe: execProbe, timeout: probeTimeout, logger: logger}
}

// NewDetectorWithProbe creates a detector with a custom probe.
func NewDetectorWithProbe(probe ProbeFunc, logger *log.Logger) *Detector {
	return &Detector{probe: probe, timeout: probeTimeout, logger: logger}
}

// execProbe looks the executable up on PATH and asks it for its engine
// version. The caller bounds the probe with a deadline.
func execProbe(ctx context.Context, exe string) (string, string, error) {
	path, err := exec.LookPath(exe)
	if err != nil {
		return "", "", fmt.Errorf("%s not found on PATH: %w", exe, err)
	}

	cmd := exec.CommandContext(ctx, path, "-NoProfile", "-Command", versionProbe)
	out, err := cmd.Output()
	if err != nil {
		return path, "", fmt.Errorf("version probe for %s failed: %w", exe, err)
	}
	return path, strings.TrimSpace(string(out)), nil
}

// probeOne probes a single executable under the detector's timeout.
func (d *Detector) probeOne(ctx context.Context, exe string) Info {
	probeCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	path, version, err := d.probe(probeCtx, exe)
	if err != nil {
		d.logger.Debug("shell probe failed", "shell", exe, "err", err)
		return Info{Name: exe, Path: path, Reason: err.Error()}
	}
	return Info{Name: exe, Path: path, Version: version, Available: true}
}

// Detect probes both PowerShell flavors, pwsh first.
func (d *Detector) Detect(ctx context.Context) []Info {
	return []Info{
		d.probeOne(ctx, ExePwsh),
		d.probeOne(ctx, ExePowershell),
	}
}

// Require resolves exactly the named flavor, with no fallback. Unlike
// Preferred this fails when the demanded executable is unusable even if
// the other flavor is installed.
func (d *Detector) Require(ctx context.Context, exe string) (Info, error) {
	info := d.probeOne(ctx, exe)
	if info.Available {
		return info, nil
	}
	return Info{}, issue.NewErrorContext().
		WithOperation("resolve PowerShell executable").
		WithResource(exe).
		WithSuggestion("Run 'psdash shells' to see the probe results").
		WithSuggestion("Omit the explicit shell to let detection pick an available one").
		Wrap(fmt.Errorf("%w: %s (%s)", ErrShellUnavailable, exe, info.Reason)).
		BuildError()
}

// Preferred resolves the configured preference to a usable shell.
// Auto takes pwsh when available and falls back to powershell; an
// explicit preference falls back to the other flavor with a logged
// warning rather than failing a run that could still succeed.
func (d *Detector) Preferred(ctx context.Context, pref config.ShellPreference) (Info, error) {
	order := []string{ExePwsh, ExePowershell}
	switch pref {
	case config.ShellPowershell:
		order = []string{ExePowershell, ExePwsh}
	case config.ShellPwsh, config.ShellAuto:
		// pwsh-first order already set.
	}

	var probed []Info
	for _, exe := range order {
		info := d.probeOne(ctx, exe)
		probed = append(probed, info)
		if info.Available {
			if pref != config.ShellAuto && exe != string(pref) {
				d.logger.Warn("preferred shell unavailable, falling back",
					"preferred", pref, "using", exe)
			}
			return info, nil
		}
	}

	var reasons []string
	for _, info := range probed {
		reasons = append(reasons, fmt.Sprintf("%s: %s", info.Name, info.Reason))
	}
	return Info{}, issue.NewErrorContext().
		WithOperation("resolve PowerShell executable").
		WithSuggestion("Install PowerShell 7 (pwsh) or ensure powershell is on PATH").
		WithSuggestion("Run 'psdash shells' to see the probe results").
		Wrap(fmt.Errorf("%w (%s)", ErrNoShellFound, strings.Join(reasons, "; "))).
		BuildError()
}
