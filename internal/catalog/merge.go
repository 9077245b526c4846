// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"
	"strings"
)

// PathMerge labels override notices produced when packs within one source
// collide; PathCustomPacks labels notices from custom packs overriding
// built-in ones.
const (
	PathMerge       = "merge"
	PathCustomPacks = "custom-packs"
)

type mergeOutcome struct {
	packs       []Pack
	commands    []Command
	dupPacks    []string
	dupCommands []string
}

// mergeAll collapses packs by id and then commands by id, later entries
// winning in both passes. Packs keep first-occurrence order with the
// winning content, which keeps catalog listings stable across reloads.
func mergeAll(packs []Pack) mergeOutcome {
	var out mergeOutcome

	packIdx := map[string]int{}
	for _, pack := range packs {
		if i, seen := packIdx[pack.ID]; seen {
			out.packs[i] = pack
			out.dupPacks = appendOnce(out.dupPacks, pack.ID)
			continue
		}
		packIdx[pack.ID] = len(out.packs)
		out.packs = append(out.packs, pack)
	}

	cmdIdx := map[string]int{}
	for _, pack := range out.packs {
		for _, cmd := range pack.Commands {
			if i, seen := cmdIdx[cmd.ID]; seen {
				out.commands[i] = cmd
				out.dupCommands = appendOnce(out.dupCommands, cmd.ID)
				continue
			}
			cmdIdx[cmd.ID] = len(out.commands)
			out.commands = append(out.commands, cmd)
		}
	}

	return out
}

func appendOnce(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// MergePacks merges packs loaded from a single source tree, later entries
// winning. Collisions produce warning notices at the merge path. Merging
// an already merged list again yields the same result and no new notices.
func MergePacks(packs []Pack) ([]Pack, []Command, []ValidationError) {
	out := mergeAll(packs)

	var notices []ValidationError
	if len(out.dupPacks) > 0 {
		notices = append(notices, ValidationError{
			Path:     PathMerge,
			Message:  fmt.Sprintf("duplicate pack ids resolved last-wins: %s", strings.Join(out.dupPacks, ", ")),
			Severity: SeverityWarning,
		})
	}
	if len(out.dupCommands) > 0 {
		notices = append(notices, ValidationError{
			Path:     PathMerge,
			Message:  fmt.Sprintf("duplicate command ids resolved last-wins: %s", strings.Join(out.dupCommands, ", ")),
			Severity: SeverityWarning,
		})
	}
	return out.packs, out.commands, notices
}

// MergeCustomPacks layers custom packs over built-in packs, custom entries
// winning. Overrides are reported as warning notices at the custom-packs
// path so the UI can surface what the user has shadowed.
func MergeCustomPacks(builtin, custom []Pack) ([]Pack, []Command, []ValidationError) {
	combined := make([]Pack, 0, len(builtin)+len(custom))
	combined = append(combined, builtin...)
	combined = append(combined, custom...)

	out := mergeAll(combined)

	var notices []ValidationError
	if len(out.dupPacks) > 0 {
		notices = append(notices, ValidationError{
			Path:     PathCustomPacks,
			Message:  fmt.Sprintf("custom packs override built-in packs (last-wins): %s", strings.Join(out.dupPacks, ", ")),
			Severity: SeverityWarning,
		})
	}
	if len(out.dupCommands) > 0 {
		notices = append(notices, ValidationError{
			Path:     PathCustomPacks,
			Message:  fmt.Sprintf("custom commands override built-in commands (last-wins): %s", strings.Join(out.dupCommands, ", ")),
			Severity: SeverityWarning,
		})
	}
	return out.packs, out.commands, notices
}
