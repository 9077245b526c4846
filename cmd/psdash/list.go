// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"psdash-cli/internal/catalog"

	"github.com/spf13/cobra"
)

var (
	listCategory string
	listRisk     string
	listAdmin    bool
	listTags     []string
	listSearch   string
	listErrors   bool

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List catalog commands",
		Long: `List the commands in the merged catalog.

Filters compose with AND: a command must satisfy every filter you set.
Multiple --tag values compose with OR among themselves.`,
		RunE: runList,
	}
)

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "filter by category (Inventory, Networking, Startup, Privacy, Security)")
	listCmd.Flags().StringVar(&listRisk, "risk", "", "filter by risk level (info, moderate, destructive)")
	listCmd.Flags().BoolVar(&listAdmin, "admin", false, "filter by elevation requirement")
	listCmd.Flags().StringSliceVar(&listTags, "tag", nil, "filter by tag (repeatable, ORed)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "search label, description and id")
	listCmd.Flags().BoolVar(&listErrors, "errors", false, "show catalog findings even without --verbose")
}

func runList(c *cobra.Command, _ []string) error {
	app := newAppContext(c.Context())
	cat := app.manager.Catalog()

	printFindings(cat.Errors, listErrors)

	filter := catalog.Filter{
		Category:  catalog.Category(listCategory),
		RiskLevel: catalog.RiskLevel(listRisk),
		Tags:      listTags,
		Search:    listSearch,
	}
	if c.Flags().Changed("admin") {
		filter.RequiresAdmin = &listAdmin
	}

	matched := catalog.FilterCommands(cat.Commands, filter)
	if len(matched) == 0 {
		fmt.Println(SubtitleStyle.Render("No commands match."))
		return nil
	}

	for _, category := range catalog.Categories(matched) {
		fmt.Println(TitleStyle.Render(string(category)))
		for _, cmd := range catalog.FilterCommands(matched, catalog.Filter{Category: category}) {
			marker := " "
			if cmd.RequiresAdmin {
				marker = WarningStyle.Render("!")
			}
			fmt.Printf("  %s %-24s %-48s %s\n",
				marker,
				CmdStyle.Render(cmd.ID),
				cmd.Label,
				riskStyle(cmd.RiskLevel).Render(string(cmd.RiskLevel)))
		}
		fmt.Println()
	}

	fmt.Println(SubtitleStyle.Render(fmt.Sprintf("%d command(s); ! requires elevation", len(matched))))
	return nil
}
