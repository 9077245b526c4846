// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"io/fs"
	"sync"

	"github.com/charmbracelet/log"
)

// Sources describes where the manager loads packs from. Builtin is the
// embedded pack tree; CustomDir and CustomPaths come from configuration
// and may change at runtime.
type Sources struct {
	Builtin     fs.FS
	BuiltinRoot string
	CustomDir   string
	CustomPaths []string
}

// Manager owns the merged catalog and rebuilds it on demand. Reloads
// replace the whole catalog value under a lock, so readers always see a
// complete, consistent snapshot.
type Manager struct {
	logger *log.Logger

	mu      sync.RWMutex
	sources Sources
	current *Catalog
}

// NewManager creates a catalog manager. Call Reload before the first
// Catalog read.
func NewManager(sources Sources, logger *log.Logger) *Manager {
	return &Manager{logger: logger, sources: sources}
}

// Catalog returns the current snapshot, or an empty catalog before the
// first load.
func (m *Manager) Catalog() *Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return &Catalog{}
	}
	return m.current
}

// Reload rebuilds the catalog from all configured sources and swaps it in.
func (m *Manager) Reload() *Catalog {
	m.mu.Lock()
	sources := m.sources
	m.mu.Unlock()

	cat := build(sources)

	m.mu.Lock()
	m.current = cat
	m.mu.Unlock()

	m.logger.Debug("catalog reloaded",
		"packs", len(cat.Packs),
		"commands", len(cat.Commands),
		"findings", len(cat.Errors))
	return cat
}

// SetCustomSources updates the custom pack dir and paths, then reloads.
// Wired to the configuration watcher so pack source edits apply live.
func (m *Manager) SetCustomSources(customDir string, customPaths []string) *Catalog {
	m.mu.Lock()
	m.sources.CustomDir = customDir
	m.sources.CustomPaths = append([]string(nil), customPaths...)
	m.mu.Unlock()
	return m.Reload()
}

// build assembles a catalog: built-in packs first, then the custom
// directory merged in, then explicit custom paths layered on top.
func build(sources Sources) *Catalog {
	var (
		packs []Pack
		errs  []ValidationError
	)

	if sources.Builtin != nil {
		builtin, findings := LoadPacksFS(sources.Builtin, sources.BuiltinRoot)
		errs = append(errs, findings...)
		packs = append(packs, builtin...)
	}

	if sources.CustomDir != "" {
		dirPacks, findings := LoadPacksDir(sources.CustomDir)
		errs = append(errs, findings...)
		packs = append(packs, dirPacks...)
	}

	merged, commands, notices := MergePacks(packs)
	errs = append(errs, notices...)

	if len(sources.CustomPaths) > 0 {
		customPacks, findings := LoadPackPaths(sources.CustomPaths)
		errs = append(errs, findings...)
		merged, commands, notices = MergeCustomPacks(merged, customPacks)
		errs = append(errs, notices...)
	}

	return &Catalog{Packs: merged, Commands: commands, Errors: errs}
}
