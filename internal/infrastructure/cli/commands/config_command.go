package commands

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/anyonecancode/acc/internal/app"
	appconfig "github.com/anyonecancode/acc/internal/application/config"
	"github.com/anyonecancode/acc/internal/infrastructure/config"
)

const (
	envKeyEditor = "EDITOR"

	msgNoDifferencesFromDefault = "No differences from default configuration."
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(env *Env) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit ~/.acc/config.yaml",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			RunE:  withContainer(env, showConfiguration),
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			RunE: withContainer(env, func(out io.Writer, container *app.Container) error {
				fmt.Fprintln(out, container.ConfigLoader.Path())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate configuration file",
			RunE: withContainer(env, func(out io.Writer, container *app.Container) error {
				if err := appconfig.Validate(container.Config); err != nil {
					return fmt.Errorf("configuration validation failed: %w", err)
				}
				fmt.Fprintln(out, MsgConfigurationValid)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Show differences from the default configuration",
			RunE:  withContainer(env, showConfigurationDiff),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Back up the config file and restore the defaults",
			RunE:  withContainer(env, resetConfigurationToDefaults),
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration in $EDITOR",
			RunE: withContainer(env, func(_ io.Writer, container *app.Container) error {
				return editConfigurationInEditor(container.ConfigLoader.Path())
			}),
		},
	)

	return configCmd
}

func withContainer(env *Env, fn func(io.Writer, *app.Container) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		container, err := env.Container(cmd.Context())
		if err != nil {
			return err
		}
		return fn(cmd.OutOrStdout(), container)
	}
}

// showConfiguration displays the full configuration in YAML format
func showConfiguration(out io.Writer, container *app.Container) error {
	data, err := yaml.Marshal(container.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

// showConfigurationDiff shows the difference between current and default configuration
func showConfigurationDiff(out io.Writer, container *app.Container) error {
	defaults, err := config.DefaultConfig()
	if err != nil {
		return err
	}
	diff := cmp.Diff(defaults, container.Config)
	if diff == "" {
		fmt.Fprintln(out, msgNoDifferencesFromDefault)
		return nil
	}
	fmt.Fprintln(out, diff)
	return nil
}

// resetConfigurationToDefaults resets the configuration to default values
func resetConfigurationToDefaults(out io.Writer, container *app.Container) error {
	loader := container.ConfigLoader
	if _, err := os.Stat(loader.Path()); err == nil {
		backup, err := loader.Backup()
		if err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
		fmt.Fprintf(out, "Backup written to %s\n", backup)
	}
	if _, err := loader.Reset(); err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}
	fmt.Fprintf(out, "Configuration reset at %s\n", loader.Path())
	return nil
}

// editConfigurationInEditor opens the configuration file in the user's editor
func editConfigurationInEditor(path string) error {
	editor := os.Getenv(envKeyEditor)
	if editor == "" {
		editor = DefaultEditorCommand
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor, err)
	}
	return nil
}
