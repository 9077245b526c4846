// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"psdash-cli/internal/config"

	"github.com/spf13/cobra"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage psdash configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE:  runConfigShow,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		RunE:  runConfigInit,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the config file path in use",
		RunE:  runConfigPath,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(c *cobra.Command, _ []string) error {
	app := newAppContext(c.Context())

	if app.cfgPath != "" {
		fmt.Println(SubtitleStyle.Render("// loaded from " + app.cfgPath))
	} else {
		fmt.Println(SubtitleStyle.Render("// no config file found, showing defaults"))
	}
	fmt.Print(config.GenerateCUE(app.cfg))
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path, err := config.CreateDefaultConfig()
	if err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Config file: ") + path)
	return nil
}

func runConfigPath(c *cobra.Command, _ []string) error {
	app := newAppContext(c.Context())
	if app.cfgPath == "" {
		fmt.Println(SubtitleStyle.Render("(defaults; no config file on disk)"))
		return nil
	}
	fmt.Println(app.cfgPath)
	return nil
}
