// Package history keeps a log of release preparation runs in the state
// directory, so an operator can see which versions were prepared, from
// which changes, and into which files.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// HistoryFileName is the name of the history file inside the state directory.
const HistoryFileName = "history.yaml"

// HistoryEntry records one successful preparation run.
type HistoryEntry struct {
	ID        string    `yaml:"id"`
	Timestamp time.Time `yaml:"timestamp"`
	Previous  string    `yaml:"previous"`
	Version   string    `yaml:"version"`
	// Source names where the change requests came from: "git" or a file path.
	Source  string   `yaml:"source"`
	Files   []string `yaml:"files"`
	Records int      `yaml:"records"`
	// Categories counts records per category.
	Categories map[string]int `yaml:"categories,omitempty"`
}

// HistoryFile is the on-disk layout of the history file.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// HistoryPath returns the history file location for a state directory.
func HistoryPath(stateDir string) string {
	return filepath.Join(stateDir, HistoryFileName)
}

// LoadHistory reads the history file. A missing file is an empty history.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	data, err := os.ReadFile(HistoryPath(stateDir))
	if errors.Is(err, os.ErrNotExist) {
		return &HistoryFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history: %w", err)
	}
	return &history, nil
}

// SaveHistory writes the history file, replacing it atomically.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	path := HistoryPath(stateDir)
	tmp, err := os.CreateTemp(stateDir, HistoryFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// ClearHistory removes the history file. A missing file is not an error.
func ClearHistory(stateDir string) error {
	err := os.Remove(HistoryPath(stateDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing history: %w", err)
	}
	return nil
}
