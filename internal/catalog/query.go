// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"sort"
	"strings"
)

// Filter selects commands from the merged catalog. Zero-valued criteria
// are ignored; set criteria are ANDed together.
type Filter struct {
	// Category matches exactly when non-empty.
	Category Category
	// RequiresAdmin matches exactly when non-nil.
	RequiresAdmin *bool
	// RiskLevel matches exactly when non-empty.
	RiskLevel RiskLevel
	// Tags matches when the command carries at least one of them,
	// case-sensitively.
	Tags []string
	// Search matches case-insensitively against label, description and
	// id.
	Search string
}

// Matches reports whether the command satisfies every set criterion.
func (f Filter) Matches(cmd *Command) bool {
	if f.Category != "" && cmd.Category != f.Category {
		return false
	}
	if f.RequiresAdmin != nil && cmd.RequiresAdmin != *f.RequiresAdmin {
		return false
	}
	if f.RiskLevel != "" && cmd.RiskLevel != f.RiskLevel {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(cmd.Tags, f.Tags) {
		return false
	}
	if f.Search != "" && !matchesSearch(cmd, f.Search) {
		return false
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func matchesSearch(cmd *Command, search string) bool {
	lower := strings.ToLower(search)
	if strings.Contains(strings.ToLower(cmd.Label), lower) {
		return true
	}
	if strings.Contains(strings.ToLower(cmd.Description), lower) {
		return true
	}
	// Ids are already lowercase kebab-case; lowering the term is enough.
	return strings.Contains(cmd.ID, lower)
}

// FilterCommands returns the commands matching the filter, preserving
// catalog order.
func FilterCommands(cmds []Command, f Filter) []Command {
	var out []Command
	for i := range cmds {
		if f.Matches(&cmds[i]) {
			out = append(out, cmds[i])
		}
	}
	return out
}

// CommandByID finds a command in the merged list.
func CommandByID(cmds []Command, id string) (*Command, bool) {
	for i := range cmds {
		if cmds[i].ID == id {
			return &cmds[i], true
		}
	}
	return nil, false
}

// Categories returns the distinct categories present, sorted.
func Categories(cmds []Command) []Category {
	seen := map[Category]bool{}
	var out []Category
	for i := range cmds {
		if !seen[cmds[i].Category] {
			seen[cmds[i].Category] = true
			out = append(out, cmds[i].Category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
