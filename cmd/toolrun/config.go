// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toolrun/toolrun/internal/config"
)

// newConfigCommand creates the `toolrun config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage toolrun configuration",
		Long: `Manage toolrun configuration.

Configuration is stored in:
  - Linux: ~/.config/toolrun/config.cue
  - macOS: ~/Library/Application Support/toolrun/config.cue
  - Windows: %APPDATA%\toolrun\config.cue

Every key can also be set through a TOOLRUN_ environment variable,
e.g. TOOLRUN_DEFAULT_TIMEOUT=2m.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(cmd, app.showConfig(cmd.Context()))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configPath()
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(cmd, app.initConfig(force))
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

// showConfig prints the configuration after flags were applied.
func (a *App) showConfig(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configFile})
	if err != nil {
		return err
	}
	if err := a.applyFlags(cfg); err != nil {
		return err
	}
	fmt.Fprint(a.stdout, config.GenerateCUE(cfg))
	return nil
}

func (a *App) configPath() (string, error) {
	if a.flags.configFile != "" {
		return a.flags.configFile, nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt), nil
}

func (a *App) initConfig(force bool) error {
	path, err := a.configPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintln(a.stdout, WarningStyle.Render("Config file already exists: ")+path)
		fmt.Fprintln(a.stdout, SubtitleStyle.Render("Use --force to overwrite it."))
		return nil
	}

	cfg := config.DefaultConfig()
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfg.ToolPaths = []string{filepath.Join(dir, "tools")}

	written := path
	if a.flags.configFile == "" {
		written, err = config.Save(cfg, dir)
	} else {
		err = os.WriteFile(path, []byte(config.GenerateCUE(cfg)), 0o644)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, SuccessStyle.Render("Created ")+written)
	return nil
}
