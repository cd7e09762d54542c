package history

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ariel-frischer/relprep/internal/release"
	"github.com/google/uuid"
)

// Writer appends release runs to the history file and prunes old ones.
// It is meant for one run at a time.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the maximum number of entries to retain. Zero keeps all.
	MaxEntries int
	// Warnings receives non-fatal logging failures (default: os.Stderr).
	Warnings io.Writer
}

// NewWriter creates a new history writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
	}
}

// LogEntry adds a new entry to the history file.
// It loads the existing history, appends the new entry, prunes if needed, and saves.
// Errors are non-fatal: they are reported as warnings and don't cause command failures.
func (w *Writer) LogEntry(entry HistoryEntry) {
	if err := w.logEntryInternal(entry); err != nil {
		out := w.Warnings
		if out == nil {
			out = os.Stderr
		}
		fmt.Fprintf(out, "Warning: failed to log history: %v\n", err)
	}
}

func (w *Writer) logEntryInternal(entry HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)

	// Prune oldest entries if over limit
	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}

	return nil
}

// LogRelease records a written release preparation.
func (w *Writer) LogRelease(result *release.Result, source string) {
	entry := HistoryEntry{
		Previous:   result.Previous,
		Version:    result.Version,
		Source:     source,
		Records:    result.Entry.Len(),
		Categories: make(map[string]int),
	}
	for _, f := range result.Files {
		entry.Files = append(entry.Files, f.Path)
	}
	for _, group := range result.Entry.ByCategory() {
		entry.Categories[string(group.Category)] = len(group.Records)
	}
	w.LogEntry(entry)
}
