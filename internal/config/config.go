// relprep - Release preparation for changelog-driven projects
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/relprep

// Package config provides hierarchical configuration management for relprep using koanf.
// Configuration is loaded with priority: environment variables > project config (.relprep/config.yml
// or .relprep/config.json) > user config (~/.config/relprep/config.yml) > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces environment overrides, e.g. RELPREP_TRUNK.
const envPrefix = "RELPREP_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the relprep CLI tool configuration
type Configuration struct {
	// ChangelogFiles are the documents a release is written into. The file
	// extension (.md or .rst) selects the dialect.
	ChangelogFiles []string `koanf:"changelog_files" yaml:"changelog_files" validate:"min=1,dive,required"`

	// RosterFile lists the internal team; authors found there are not credited.
	// Empty disables the roster, crediting every author.
	RosterFile   string `koanf:"roster_file" yaml:"roster_file"`
	RosterFormat string `koanf:"roster_format" yaml:"roster_format" validate:"oneof=handles yaml"`

	// PullRequestURL turns "(#42)" references into links when set,
	// e.g. https://github.com/acme/widgets/pull
	PullRequestURL string `koanf:"pull_request_url" yaml:"pull_request_url" validate:"omitempty,url"`

	// ClassifyMode selects title classification: "tag" reads a leading [TAG],
	// "scan" searches the title for a category name and asks about the rest.
	ClassifyMode    string `koanf:"classify_mode" yaml:"classify_mode" validate:"oneof=tag scan"`
	GroupByCategory bool   `koanf:"group_by_category" yaml:"group_by_category"`
	UnderlineWidth  int    `koanf:"underline_width" yaml:"underline_width" validate:"min=0,max=120"`

	// Trunk is the branch releases are cut from.
	Trunk        string `koanf:"trunk" yaml:"trunk"`
	RequireClean bool   `koanf:"require_clean" yaml:"require_clean"`
	// VersionFile is rewritten to hold the new version after a release is prepared.
	VersionFile string `koanf:"version_file" yaml:"version_file"`

	StateDir string `koanf:"state_dir" yaml:"state_dir" validate:"required"`
	// MaxHistoryEntries sets the maximum number of release history entries to retain.
	// Oldest entries are pruned when this limit is exceeded.
	MaxHistoryEntries int `koanf:"max_history_entries" yaml:"max_history_entries" validate:"min=0"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .relprep/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: ~/.config/relprep/config.yml)
	UserConfigPath string
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if present.
func loadUserConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads project-level config. YAML is preferred; a JSON
// file is read when no YAML file exists. A custom path picks the parser
// from its extension.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	if customPath != "" {
		if !fileExists(customPath) {
			return fmt.Errorf("config file %s not found", customPath)
		}
		if strings.EqualFold(filepath.Ext(customPath), ".json") {
			return loadJSONConfig(k, customPath, "project")
		}
		return loadYAMLConfig(k, customPath, "project")
	}

	yamlPath := ProjectConfigPath()
	jsonPath := ProjectJSONConfigPath()
	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		if jsonExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: %s ignored, using %s\n", jsonPath, yamlPath)
		}
	case jsonExists:
		if err := loadJSONConfig(k, jsonPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadJSONConfig loads a JSON config file
func loadJSONConfig(k *koanf.Koanf, path, configType string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides.
// RELPREP_CHANGELOG_FILES accepts a comma-separated list.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	provider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = envTransform(key)
		if key == "changelog_files" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.PullRequestURL = strings.TrimRight(cfg.PullRequestURL, "/")

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: RELPREP_UNDERLINE_WIDTH -> underline_width
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
