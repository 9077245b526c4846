// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"psdash-cli/internal/issue"
	"psdash-cli/internal/shell"

	"github.com/spf13/cobra"
)

var shellsCmd = &cobra.Command{
	Use:   "shells",
	Short: "Show detected PowerShell installations",
	RunE:  runShells,
}

func runShells(c *cobra.Command, _ []string) error {
	app := newAppContext(c.Context())
	detector := shell.NewDetector(app.logger)

	infos := detector.Detect(c.Context())

	anyAvailable := false
	for _, info := range infos {
		if info.Available {
			anyAvailable = true
			fmt.Printf("%s %-12s %s %s\n",
				SuccessStyle.Render("✓"),
				CmdStyle.Render(info.Name),
				info.Version,
				SubtitleStyle.Render(info.Path))
			continue
		}
		fmt.Printf("%s %-12s %s\n",
			ErrorStyle.Render("✗"),
			CmdStyle.Render(info.Name),
			SubtitleStyle.Render(info.Reason))
	}

	fmt.Printf("\n%s %s\n", SubtitleStyle.Render("Configured preference:"), app.cfg.Shell.Preferred)

	if !anyAvailable {
		renderIssue(issue.NoShellFoundId)
		return shell.ErrNoShellFound
	}
	return nil
}
