// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"psdash-cli/internal/catalog"
	"psdash-cli/internal/issue"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <command-id>",
	Short: "Show the details of one catalog command",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(c *cobra.Command, args []string) error {
	app := newAppContext(c.Context())
	cat := app.manager.Catalog()

	cmd, ok := catalog.CommandByID(cat.Commands, args[0])
	if !ok {
		renderIssue(issue.CommandNotFoundId)
		return fmt.Errorf("command %q not found in the catalog", args[0])
	}

	fmt.Println(TitleStyle.Render(cmd.Label) + SubtitleStyle.Render("  ("+cmd.ID+")"))
	fmt.Println(cmd.Description)
	fmt.Println()

	fmt.Printf("%s %s\n", SubtitleStyle.Render("Category:"), cmd.Category)
	fmt.Printf("%s %s\n", SubtitleStyle.Render("Risk:"), riskStyle(cmd.RiskLevel).Render(string(cmd.RiskLevel)))
	fmt.Printf("%s %v\n", SubtitleStyle.Render("Requires admin:"), cmd.RequiresAdmin)
	fmt.Printf("%s %s\n", SubtitleStyle.Render("OS:"), joinTags(cmd.OS))
	fmt.Printf("%s %s\n", SubtitleStyle.Render("Shells:"), joinTags(cmd.Shells))
	if len(cmd.Tags) > 0 {
		fmt.Printf("%s %s\n", SubtitleStyle.Render("Tags:"), strings.Join(cmd.Tags, ", "))
	}
	if len(cmd.Deps) > 0 {
		fmt.Printf("%s %s\n", SubtitleStyle.Render("Depends on:"), strings.Join(cmd.Deps, ", "))
	}

	fmt.Println()
	if cmd.CommandText != "" {
		fmt.Println(SubtitleStyle.Render("Command:"))
		fmt.Println(CmdStyle.Render("  " + strings.ReplaceAll(strings.TrimSpace(cmd.CommandText), "\n", "\n  ")))
	} else {
		fmt.Println(SubtitleStyle.Render("Script:"))
		fmt.Println(CmdStyle.Render("  " + cmd.ScriptPath))
	}
	if cmd.Preview != "" {
		fmt.Println(SubtitleStyle.Render("Preview:"))
		fmt.Println(VerboseStyle.Render("  " + cmd.Preview))
	}

	if len(cmd.Params) > 0 {
		fmt.Println()
		fmt.Println(SubtitleStyle.Render("Parameters:"))
		for _, p := range cmd.Params {
			line := fmt.Sprintf("  %s (%s)", CmdStyle.Render(p.Name), p.Type)
			if p.Optional {
				line += SubtitleStyle.Render(" optional")
			}
			if p.Default != nil {
				line += SubtitleStyle.Render(fmt.Sprintf(" default=%v", p.Default))
			}
			fmt.Println(line)
			if p.Description != "" {
				fmt.Println(VerboseStyle.Render("      " + p.Description))
			}
			if len(p.Options) > 0 {
				fmt.Println(VerboseStyle.Render("      options: " + strings.Join(p.Options, ", ")))
			}
		}
	}

	if len(cmd.VerifyAfterRun) > 0 {
		fmt.Println()
		fmt.Println(SubtitleStyle.Render("Verify after run:"))
		for _, check := range cmd.VerifyAfterRun {
			fmt.Printf("  %s\n", check.Description)
			fmt.Println(VerboseStyle.Render("      " + check.CheckCommand))
			if check.ExpectedResult != "" {
				fmt.Println(VerboseStyle.Render("      expects: " + check.ExpectedResult))
			}
		}
	}

	return nil
}

func joinTags[T ~string](tags []T) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

// renderIssue prints a rendered issue card to stderr, falling back to
// nothing if glamour rendering fails (the caller still returns an error).
func renderIssue(id issue.Id) {
	card := issue.Get(id)
	if card == nil {
		return
	}
	out, err := card.Render("dark")
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stderr, out)
}
