package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/ariel-frischer/relprep/internal/config"
	clierrors "github.com/ariel-frischer/relprep/internal/errors"
	"github.com/ariel-frischer/relprep/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage relprep configuration",
	Long: `Manage relprep configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (RELPREP_*)
  2. Project config (.relprep/config.yml or .relprep/config.json)
  3. User config (~/.config/relprep/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  relprep config show

  # Set a project configuration value
  relprep config set classify_mode scan

  # Create a commented project config
  relprep config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every configuration key with its type and default",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printConfigKeys(cmd.OutOrStdout())
	},
}

var configSetUser bool

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in the project (or user) config",
	Example: `  relprep config set trunk main
  relprep config set changelog_files CHANGELOG.md,docs/changes.rst
  relprep config set require_clean false --user`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, scope, err := configTarget(configSetUser)
		if err != nil {
			return err
		}
		return runConfigSet(cmd.OutOrStdout(), path, scope, args[0], args[1])
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented project config with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd.OutOrStdout(), config.ProjectConfigPath(), configInitForce)
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configKeysCmd, configSetCmd, configInitCmd)

	configSetCmd.Flags().BoolVar(&configSetUser, "user", false, "Write to the user config instead of the project config")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing project config")
}

func printConfigKeys(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTYPE\tDEFAULT\tDESCRIPTION")
	for _, key := range config.SortedKeys() {
		schema := config.KnownKeys[key]
		typeName := schema.Type.String()
		if len(schema.AllowedValues) > 0 {
			typeName = fmt.Sprintf("%s(%v)", typeName, schema.AllowedValues)
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n", key, typeName, schema.Default, schema.Description)
	}
	return tw.Flush()
}

// configTarget returns the config file "config set" writes to.
func configTarget(user bool) (string, string, error) {
	if user {
		path, err := config.UserConfigPath()
		if err != nil {
			return "", "", fmt.Errorf("locating user config: %w", err)
		}
		return path, "user", nil
	}
	if configPath != "" {
		return configPath, "project", nil
	}
	return config.ProjectConfigPath(), "project", nil
}

func runConfigSet(out io.Writer, path, scope, key, value string) error {
	if filepath.Ext(path) == ".json" {
		return clierrors.NewConfigError("config set only edits YAML config files",
			"Edit "+path+" by hand, or move it to .relprep/config.yml")
	}
	parsed, err := config.ValidateValue(key, value)
	if err != nil {
		return clierrors.NewArgumentError(err.Error(), "Run 'relprep config keys' to list keys and types")
	}
	if err := config.SetConfigValue(path, key, parsed); err != nil {
		return err
	}
	output.PrintSuccess(out, fmt.Sprintf("Set %s = %s in %s config (%s)", key, value, scope, path))
	return nil
}

func runConfigInit(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return clierrors.NewArgumentError(path+" already exists", "Use --force to overwrite it")
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	output.PrintSuccess(out, "Created "+path)
	return nil
}
