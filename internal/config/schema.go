package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeEnum
	TypeList
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeList:
		return "list"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Key path (e.g., "classify_mode")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"changelog_files": {
		Path:        "changelog_files",
		Type:        TypeList,
		Description: "Changelog documents to update (.md or .rst)",
		Default:     []string{"docs/changelog.md", "docs_rtd/changelog.rst"},
	},
	"roster_file": {
		Path:        "roster_file",
		Type:        TypeString,
		Description: "Internal team roster; listed authors are not credited",
		Default:     ".github/teams.yml",
	},
	"roster_format": {
		Path:          "roster_format",
		Type:          TypeEnum,
		AllowedValues: []string{"handles", "yaml"},
		Description:   "How the roster file is read",
		Default:       "handles",
	},
	"pull_request_url": {
		Path:        "pull_request_url",
		Type:        TypeString,
		Description: "Base URL for change request links (empty = plain references)",
		Default:     "",
	},
	"classify_mode": {
		Path:          "classify_mode",
		Type:          TypeEnum,
		AllowedValues: []string{"tag", "scan"},
		Description:   "Title classification mode",
		Default:       "tag",
	},
	"group_by_category": {
		Path:        "group_by_category",
		Type:        TypeBool,
		Description: "Render a subsection per category",
		Default:     false,
	},
	"underline_width": {
		Path:        "underline_width",
		Type:        TypeInt,
		Description: "Minimum width of the .rst version underline",
		Default:     17,
	},
	"trunk": {
		Path:        "trunk",
		Type:        TypeString,
		Description: "Branch releases are cut from",
		Default:     "develop",
	},
	"require_clean": {
		Path:        "require_clean",
		Type:        TypeBool,
		Description: "Refuse to run with uncommitted changes to tracked files",
		Default:     true,
	},
	"version_file": {
		Path:        "version_file",
		Type:        TypeString,
		Description: "File rewritten to hold the new version (empty = none)",
		Default:     "",
	},
	"state_dir": {
		Path:        "state_dir",
		Type:        TypeString,
		Description: "Directory for state files",
		Default:     "~/.relprep/state",
	},
	"max_history_entries": {
		Path:        "max_history_entries",
		Type:        TypeInt,
		Description: "Maximum number of release history entries to retain",
		Default:     200,
	},
}

// SortedKeys returns the known key names in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	case TypeList:
		items := splitList(value)
		if len(items) == 0 {
			return ParsedValue{}, fmt.Errorf("invalid list: %q (expected comma-separated values)", value)
		}
		return ParsedValue{Raw: value, Parsed: items, Type: TypeList}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates an integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}
