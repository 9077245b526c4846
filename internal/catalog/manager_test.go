// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"io"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
)

const overridePackJSON = `{
	"id": "inventory-basics",
	"name": "Inventory Basics (custom)",
	"description": "Overrides the built-in pack",
	"version": "9.0.0",
	"commands": [{
		"id": "os-info",
		"label": "OS info (custom)",
		"category": "Inventory",
		"description": "Custom variant",
		"commandText": "Get-ComputerInfo"
	}]
}`

func TestManagerReloadAndOverride(t *testing.T) {
	fsys := fstest.MapFS{
		"packs/inventory.json": {Data: []byte(minimalPackJSON)},
	}
	logger := log.New(io.Discard)

	m := NewManager(Sources{Builtin: fsys, BuiltinRoot: "packs"}, logger)

	if got := m.Catalog(); len(got.Commands) != 0 {
		t.Errorf("catalog should be empty before the first load, got %d commands", len(got.Commands))
	}

	cat := m.Reload()
	if len(cat.Packs) != 1 || len(cat.Commands) != 1 {
		t.Fatalf("expected the built-in pack, got: %+v", cat)
	}
	if HasErrors(cat.Errors) {
		t.Fatalf("expected clean load, got: %v", cat.Errors)
	}

	dir := t.TempDir()
	custom := writeFile(t, dir, "override.json", overridePackJSON)

	cat = m.SetCustomSources("", []string{custom})
	winner, ok := CommandByID(cat.Commands, "os-info")
	if !ok || winner.Label != "OS info (custom)" {
		t.Errorf("custom pack should override the built-in command, got: %+v", winner)
	}

	found := false
	for _, e := range cat.Errors {
		if e.Path == PathCustomPacks && e.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a custom-packs override notice, got: %v", cat.Errors)
	}

	// Dropping the custom source restores the built-in content.
	cat = m.SetCustomSources("", nil)
	winner, ok = CommandByID(cat.Commands, "os-info")
	if !ok || winner.Label != "OS info" {
		t.Errorf("reload should replace the whole catalog, got: %+v", winner)
	}
}
