package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# relprep Configuration
# See 'relprep config -h' for commands, 'relprep config keys' for all options

# Changelog targets (.md or .rst; the extension selects the format)
changelog_files:
  - docs/changelog.md
  - docs_rtd/changelog.rst

# Attribution
roster_file: .github/teams.yml        # Internal team; these authors are not credited
roster_format: handles                # handles (scrape @names) | yaml (team: [names])

# Rendering
pull_request_url: ""                  # e.g. https://github.com/acme/widgets/pull (empty = plain "(#42)")
classify_mode: tag                    # tag | scan
group_by_category: false              # Add a subsection per category
underline_width: 17                   # Minimum .rst version underline width

# Repository
trunk: develop                        # Branch releases are cut from
require_clean: true                   # Refuse to run with uncommitted changes
version_file: ""                      # File rewritten to hold the new version (empty = none)

# History settings
state_dir: ~/.relprep/state           # Directory for state files
max_history_entries: 200              # Max release history entries to retain
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog_files":  []string{"docs/changelog.md", "docs_rtd/changelog.rst"},
		"roster_file":      ".github/teams.yml",
		"roster_format":    "handles",
		"pull_request_url": "",
		// classify_mode: "tag" defaults untagged titles to MAINTENANCE;
		// "scan" leaves them unclassified for a resolver.
		"classify_mode":     "tag",
		"group_by_category": false,
		// underline_width: the divider length used by the hand-written .rst changelog.
		"underline_width": 17,
		"trunk":           "develop",
		"require_clean":   true,
		"version_file":    "",
		"state_dir":       "~/.relprep/state",
		// max_history_entries: Maximum number of release history entries to retain.
		"max_history_entries": 200,
	}
}
