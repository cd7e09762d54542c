package history

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"github.com/ariel-frischer/relprep/internal/release"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryWriter_LogEntry(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setupStore  func(t *testing.T, stateDir string)
		maxEntries  int
		wantEntries int
	}{
		"log entry to empty history": {
			setupStore:  func(t *testing.T, stateDir string) {},
			maxEntries:  200,
			wantEntries: 1,
		},
		"log entry to existing history": {
			setupStore: func(t *testing.T, stateDir string) {
				history := &HistoryFile{
					Entries: []HistoryEntry{
						{ID: "existing", Timestamp: time.Now(), Previous: "0.9.0", Version: "1.0.0"},
					},
				}
				require.NoError(t, SaveHistory(stateDir, history))
			},
			maxEntries:  200,
			wantEntries: 2,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stateDir := t.TempDir()
			tc.setupStore(t, stateDir)

			writer := NewWriter(stateDir, tc.maxEntries)
			writer.LogEntry(HistoryEntry{Previous: "1.0.0", Version: "1.1.0", Source: "git"})

			history, err := LoadHistory(stateDir)
			require.NoError(t, err)
			require.Len(t, history.Entries, tc.wantEntries)

			last := history.Entries[len(history.Entries)-1]
			_, err = uuid.Parse(last.ID)
			assert.NoError(t, err, "entries get a generated id")
			assert.False(t, last.Timestamp.IsZero())
		})
	}
}

func TestHistoryWriter_Pruning(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		existingEntries int
		maxEntries      int
		wantEntries     int
		wantOldest      string
	}{
		"no pruning needed": {
			existingEntries: 5,
			maxEntries:      10,
			wantEntries:     6,
			wantOldest:      "1.0.0",
		},
		"prune oldest when max exceeded": {
			existingEntries: 10,
			maxEntries:      10,
			wantEntries:     10,
			wantOldest:      "1.1.0",
		},
		"prune multiple when well over max": {
			existingEntries: 12,
			maxEntries:      10,
			wantEntries:     10,
			wantOldest:      "1.3.0",
		},
		"zero max keeps everything": {
			existingEntries: 12,
			maxEntries:      0,
			wantEntries:     13,
			wantOldest:      "1.0.0",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stateDir := t.TempDir()

			entries := make([]HistoryEntry, tc.existingEntries)
			for i := range entries {
				entries[i] = HistoryEntry{
					ID:        fmt.Sprintf("run-%d", i),
					Timestamp: time.Now().Add(time.Duration(i) * time.Minute),
					Version:   fmt.Sprintf("1.%d.0", i),
				}
			}
			require.NoError(t, SaveHistory(stateDir, &HistoryFile{Entries: entries}))

			writer := NewWriter(stateDir, tc.maxEntries)
			writer.LogEntry(HistoryEntry{Version: "2.0.0"})

			loaded, err := LoadHistory(stateDir)
			require.NoError(t, err)
			assert.Len(t, loaded.Entries, tc.wantEntries)
			assert.Equal(t, tc.wantOldest, loaded.Entries[0].Version)
			assert.Equal(t, "2.0.0", loaded.Entries[len(loaded.Entries)-1].Version)
		})
	}
}

func TestHistoryWriter_LogRelease(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	writer := NewWriter(stateDir, 200)

	result := &release.Result{
		Previous: "1.0.0",
		Version:  "1.1.0",
		Entry: changelog.NewEntry([]changelog.Record{
			{ID: "1", Category: changelog.Feature},
			{ID: "2", Category: changelog.Bugfix},
			{ID: "3", Category: changelog.Bugfix},
		}),
		Files: []release.FileResult{
			{Path: "docs/changelog.md"},
			{Path: "docs_rtd/changelog.rst"},
		},
		Written: true,
	}
	writer.LogRelease(result, "git")

	history, err := LoadHistory(stateDir)
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)

	entry := history.Entries[0]
	assert.Equal(t, "1.0.0", entry.Previous)
	assert.Equal(t, "1.1.0", entry.Version)
	assert.Equal(t, "git", entry.Source)
	assert.Equal(t, 3, entry.Records)
	assert.Equal(t, []string{"docs/changelog.md", "docs_rtd/changelog.rst"}, entry.Files)
	assert.Equal(t, map[string]int{"FEATURE": 1, "BUGFIX": 2}, entry.Categories)
}

func TestHistoryWriter_SuccessiveRuns(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	for _, version := range []string{"1.0.0", "1.1.0", "1.2.0"} {
		NewWriter(stateDir, 100).LogEntry(HistoryEntry{Version: version})
	}

	history, err := LoadHistory(stateDir)
	require.NoError(t, err)
	require.Len(t, history.Entries, 3)
	assert.Equal(t, "1.0.0", history.Entries[0].Version)
	assert.Equal(t, "1.2.0", history.Entries[2].Version)
	assert.NotEqual(t, history.Entries[0].ID, history.Entries[1].ID)
}

func TestHistoryWriter_NonFatalErrors(t *testing.T) {
	t.Parallel()

	var warnings bytes.Buffer
	writer := NewWriter("/nonexistent/deeply/nested/path/that/cannot/exist", 200)
	writer.Warnings = &warnings

	writer.LogEntry(HistoryEntry{Version: "1.0.0"})
	assert.Contains(t, warnings.String(), "Warning: failed to log history")
}

func TestLoadHistory_Missing(t *testing.T) {
	t.Parallel()

	history, err := LoadHistory(filepath.Join(t.TempDir(), "empty"))
	require.NoError(t, err)
	assert.Empty(t, history.Entries)
}

func TestClearHistory(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	require.NoError(t, ClearHistory(stateDir), "clearing an empty state dir succeeds")

	NewWriter(stateDir, 10).LogEntry(HistoryEntry{Version: "1.0.0"})
	require.NoError(t, ClearHistory(stateDir))

	history, err := LoadHistory(stateDir)
	require.NoError(t, err)
	assert.Empty(t, history.Entries)
}
