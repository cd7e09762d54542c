package health

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCheckChangelog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	md := filepath.Join(dir, "changelog.md")
	writeFile(t, md, "# Changelog\n\n### 1.0.0\n* [FEATURE] first (#1)\n")
	txt := filepath.Join(dir, "CHANGES.txt")
	writeFile(t, txt, "1.0.0\n")

	tests := map[string]struct {
		path        string
		previous    string
		wantPassed  bool
		wantMessage string
	}{
		"readable": {
			path:        md,
			wantPassed:  true,
			wantMessage: "markdown, 4 lines",
		},
		"previous found": {
			path:        md,
			previous:    "1.0.0",
			wantPassed:  true,
			wantMessage: "1.0.0 found on line 3",
		},
		"previous missing": {
			path:        md,
			previous:    "0.9.0",
			wantMessage: "no line mentions 0.9.0",
		},
		"unsupported type": {
			path:        txt,
			wantMessage: "CHANGES.txt",
		},
		"missing file": {
			path:        filepath.Join(dir, "nope.md"),
			wantMessage: "nope.md",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := CheckChangelog(tt.path, tt.previous)
			assert.Equal(t, tt.wantPassed, got.Passed)
			assert.Contains(t, got.Message, tt.wantMessage)
			assert.False(t, got.Warning)
		})
	}
}

func TestCheckRoster(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	teams := filepath.Join(dir, "teams.yml")
	writeFile(t, teams, "core: [\"@alice\", \"@bob\"]\n")
	empty := filepath.Join(dir, "empty.yml")
	writeFile(t, empty, "# nobody yet\n")

	tests := map[string]struct {
		path        string
		wantPassed  bool
		wantWarning bool
		wantMessage string
	}{
		"loaded": {
			path:        teams,
			wantPassed:  true,
			wantMessage: "2 handles",
		},
		"not configured": {
			wantWarning: true,
			wantMessage: "every author will be credited",
		},
		"no handles": {
			path:        empty,
			wantWarning: true,
			wantMessage: "lists no handles",
		},
		"missing": {
			path:        filepath.Join(dir, "missing.yml"),
			wantMessage: "reading roster file",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := CheckRoster(tt.path, "handles")
			assert.Equal(t, tt.wantPassed, got.Passed)
			assert.Equal(t, tt.wantWarning, got.Warning)
			assert.Contains(t, got.Message, tt.wantMessage)
		})
	}
}

func initRepo(t *testing.T, dir string) {
	t.Helper()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "changelog.md"), "### 1.0.0\n")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("changelog.md")
	require.NoError(t, err)
	sig := &object.Signature{Name: "Alice", Email: "alice@example.com", When: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	_, err = wt.Commit("first\n", &gogit.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
}

func TestCheckRepository(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setup     func(t *testing.T, dir string)
		trunk     string
		wantNames []string
		wantState []bool
	}{
		"not a repository": {
			wantNames: []string{"Repository"},
			wantState: []bool{false},
		},
		"on trunk and clean": {
			setup:     initRepo,
			trunk:     "master",
			wantNames: []string{"Repository", "Branch", "Working copy"},
			wantState: []bool{true, true, true},
		},
		"off trunk": {
			setup:     initRepo,
			trunk:     "develop",
			wantNames: []string{"Repository", "Branch", "Working copy"},
			wantState: []bool{true, false, true},
		},
		"dirty": {
			setup: func(t *testing.T, dir string) {
				initRepo(t, dir)
				writeFile(t, filepath.Join(dir, "changelog.md"), "### 1.1.0\n")
			},
			trunk:     "master",
			wantNames: []string{"Repository", "Branch", "Working copy"},
			wantState: []bool{true, true, false},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			results := CheckRepository(dir, tt.trunk, true)
			var names []string
			var states []bool
			for _, r := range results {
				names = append(names, r.Name)
				states = append(states, r.Passed)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantState, states)
		})
	}
}

func TestRunHealthChecks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	initRepo(t, dir)
	md := filepath.Join(dir, "changelog.md")

	report := RunHealthChecks(Options{
		Files:        []string{md},
		Previous:     "1.0.0",
		RepoPath:     dir,
		Trunk:        "develop",
		RequireClean: true,
	})
	assert.True(t, report.Passed, "warnings alone do not fail the report")

	report = RunHealthChecks(Options{
		Files:    []string{md},
		Previous: "0.9.0",
		RepoPath: dir,
	})
	assert.False(t, report.Passed)
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	report := &HealthReport{
		Checks: []CheckResult{
			{Name: "Roster", Passed: true, Message: "2 handles in teams.yml"},
			{Name: "Branch", Warning: true, Message: "on feature, releases are cut from develop"},
			{Name: "Working copy", Message: "tracked files have uncommitted changes"},
		},
	}

	assert.Equal(t, "✓ Roster: 2 handles in teams.yml\n"+
		"! Branch: on feature, releases are cut from develop\n"+
		"✗ Working copy: tracked files have uncommitted changes\n", FormatReport(report))
}
