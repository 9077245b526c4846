// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"psdash-cli/internal/catalog"
	"psdash-cli/internal/config"
	"psdash-cli/packs"

	"github.com/charmbracelet/log"
)

// appContext bundles the services every subcommand needs: the loaded
// configuration, the logger, and the catalog manager with the merged
// catalog already built.
type appContext struct {
	cfg      *config.Config
	cfgPath  string
	cfgOpts  config.LoadOptions
	provider config.Provider
	logger   *log.Logger
	manager  *catalog.Manager
}

// newAppContext loads configuration and builds the catalog. Config load
// failures are surfaced as a warning and replaced with defaults so
// read-only commands keep working with a broken config file.
func newAppContext(ctx context.Context) *appContext {
	logger := newLogger()

	opts := config.LoadOptions{ConfigFilePath: cfgFile}
	provider := config.NewProvider()

	cfg, err := provider.Load(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}

	cfgPath, pathErr := config.ResolvePath(ctx, opts)
	if pathErr != nil {
		cfgPath = ""
	}

	manager := catalog.NewManager(catalog.Sources{
		Builtin:     packs.FS,
		BuiltinRoot: packs.Root,
		CustomDir:   cfg.Packs.CustomDir,
		CustomPaths: cfg.Packs.CustomPaths,
	}, logger)
	manager.Reload()

	return &appContext{
		cfg:      cfg,
		cfgPath:  cfgPath,
		cfgOpts:  opts,
		provider: provider,
		logger:   logger,
		manager:  manager,
	}
}

// newLogger builds the CLI logger. Verbose mode lowers the level to debug.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// printFindings writes catalog findings to stderr, warnings muted and
// errors loud. Warnings are only shown in verbose mode unless forced.
func printFindings(findings []catalog.ValidationError, force bool) {
	for _, f := range findings {
		switch f.Severity {
		case catalog.SeverityError:
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+f.Error())
		case catalog.SeverityWarning:
			if verbose || force {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+f.Error())
			}
		}
	}
}
