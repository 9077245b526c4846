// SPDX-License-Identifier: MPL-2.0

package catalog

import "testing"

func boolPtr(b bool) *bool { return &b }

func queryFixture() []Command {
	flush := cmd("flush-dns", "Flush DNS cache")
	flush.Category = CategoryNetworking
	flush.RiskLevel = RiskModerate
	flush.Tags = []string{"dns", "cache"}
	flush.Description = "Clears the resolver cache"

	adapters := cmd("show-adapters", "Show adapters")
	adapters.Category = CategoryNetworking
	adapters.Tags = []string{"adapters"}

	firewall := cmd("firewall-off", "Disable firewall")
	firewall.Category = CategorySecurity
	firewall.RiskLevel = RiskDestructive
	firewall.RequiresAdmin = true
	firewall.Tags = []string{"firewall"}

	return []Command{flush, adapters, firewall}
}

func ids(cmds []Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.ID
	}
	return out
}

func TestFilterCommands(t *testing.T) {
	fixture := queryFixture()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty filter matches all", Filter{}, []string{"flush-dns", "show-adapters", "firewall-off"}},
		{"category", Filter{Category: CategorySecurity}, []string{"firewall-off"}},
		{"requires admin true", Filter{RequiresAdmin: boolPtr(true)}, []string{"firewall-off"}},
		{"requires admin false", Filter{RequiresAdmin: boolPtr(false)}, []string{"flush-dns", "show-adapters"}},
		{"risk level", Filter{RiskLevel: RiskModerate}, []string{"flush-dns"}},
		{"tags are ORed", Filter{Tags: []string{"dns", "firewall"}}, []string{"flush-dns", "firewall-off"}},
		{"tags are case-sensitive", Filter{Tags: []string{"DNS"}}, nil},
		{"criteria are ANDed", Filter{Category: CategoryNetworking, RiskLevel: RiskModerate}, []string{"flush-dns"}},
		{"and with no intersection", Filter{Category: CategorySecurity, RiskLevel: RiskInfo}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterCommands(fixture, tt.filter))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFilterSearch(t *testing.T) {
	fixture := queryFixture()

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"label case-insensitive", "FLUSH", []string{"flush-dns"}},
		{"description case-insensitive", "resolver CACHE", []string{"flush-dns"}},
		{"id substring", "fire", []string{"firewall-off"}},
		{"id uppercase term matches kebab id", "Fire", []string{"firewall-off"}},
		{"no match", "bluetooth", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterCommands(fixture, Filter{Search: tt.search}))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestCommandByID(t *testing.T) {
	fixture := queryFixture()

	if c, ok := CommandByID(fixture, "show-adapters"); !ok || c.Label != "Show adapters" {
		t.Errorf("lookup failed: %v %v", c, ok)
	}
	if _, ok := CommandByID(fixture, "absent"); ok {
		t.Error("lookup of an unknown id should fail")
	}
}

func TestCategories(t *testing.T) {
	got := Categories(queryFixture())
	if len(got) != 2 || got[0] != CategoryNetworking || got[1] != CategorySecurity {
		t.Errorf("unexpected categories: %v", got)
	}
}
