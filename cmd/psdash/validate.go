// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"psdash-cli/internal/catalog"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>...",
	Short: "Validate pack files or directories",
	Long: `Validate pack files without loading them into the catalog.

Each argument may be a pack file (.json, .toml, .yaml) or a directory to
scan. Every finding is reported; the command fails if any finding has
error severity.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runValidate(_ *cobra.Command, args []string) error {
	var all []catalog.ValidationError
	validPacks := 0

	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			all = append(all, catalog.ValidationError{
				Message:  fmt.Sprintf("path not found: %s", path),
				Severity: catalog.SeverityError,
			})
			continue
		}

		if info.IsDir() {
			packs, findings := catalog.LoadPacksDir(path)
			validPacks += len(packs)
			all = append(all, findings...)
			continue
		}

		pack, findings := catalog.LoadPackFile(path)
		all = append(all, findings...)
		if pack != nil {
			validPacks++
		}
	}

	printFindings(all, true)

	errCount := 0
	for _, f := range all {
		if f.Severity == catalog.SeverityError {
			errCount++
		}
	}

	if errCount > 0 {
		return fmt.Errorf("validation failed: %d error(s) across %d path(s)", errCount, len(args))
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("OK: %d pack(s) valid", validPacks)))
	return nil
}
