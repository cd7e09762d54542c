package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"github.com/ariel-frischer/relprep/internal/config"
	clierrors "github.com/ariel-frischer/relprep/internal/errors"
	"github.com/ariel-frischer/relprep/internal/history"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mdFixture  = "# Changelog\n\n### 1.0.0\n* [FEATURE] first release (#1)\n"
	rstFixture = "Changelog\n=========\n\n1.0.0\n-----------------\n* [FEATURE] first release (#1)\n"

	changesFixture = `- id: 43
  title: fix crash
  author: "@octocat"
  merged_at: 2024-06-01T10:02:00Z
- id: 42
  title: "[FEATURE] add widget"
  author: alice
  merged_at: 2024-06-01T10:01:00Z
`
)

type prepFixture struct {
	dir     string
	md      string
	rst     string
	input   string
	roster  string
	state   string
	cfg     *config.Configuration
	out     *bytes.Buffer
	command *cobra.Command
}

func newPrepFixture(t *testing.T) *prepFixture {
	t.Helper()
	dir := t.TempDir()
	f := &prepFixture{
		dir:    dir,
		md:     filepath.Join(dir, "docs", "changelog.md"),
		rst:    filepath.Join(dir, "docs_rtd", "changelog.rst"),
		input:  filepath.Join(dir, "changes.yml"),
		roster: filepath.Join(dir, "teams.yml"),
		state:  filepath.Join(dir, "state"),
		out:    &bytes.Buffer{},
	}
	writeFile(t, f.md, mdFixture)
	writeFile(t, f.rst, rstFixture)
	writeFile(t, f.input, changesFixture)
	writeFile(t, f.roster, "core:\n  - \"@alice\"\n")

	f.cfg = &config.Configuration{
		ChangelogFiles:    []string{f.md, f.rst},
		RosterFile:        f.roster,
		RosterFormat:      "handles",
		ClassifyMode:      "tag",
		UnderlineWidth:    17,
		Trunk:             "master",
		StateDir:          f.state,
		MaxHistoryEntries: 10,
	}

	f.command = &cobra.Command{}
	f.command.SetOut(f.out)
	f.command.SetErr(f.out)
	f.command.SetIn(strings.NewReader(""))
	return f
}

func (f *prepFixture) run(flags prepOptions) error {
	log, _ := test.NewNullLogger()
	return runPrep(f.command, f.cfg, flags, log)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunPrep_FromFile(t *testing.T) {
	t.Parallel()

	f := newPrepFixture(t)
	err := f.run(prepOptions{Previous: "v1.0.0", Version: "1.1.0", Input: f.input})
	require.NoError(t, err)

	assert.Equal(t, "# Changelog\n"+
		"\n"+
		"### 1.1.0\n"+
		"* [FEATURE] add widget (#42)\n"+
		"* [MAINTENANCE] fix crash (#43) (thanks @octocat)\n"+
		"\n"+
		"### 1.0.0\n"+
		"* [FEATURE] first release (#1)\n", readFile(t, f.md))

	assert.Equal(t, "Changelog\n"+
		"=========\n"+
		"\n"+
		"1.1.0\n"+
		"-----------------\n"+
		"* [FEATURE] add widget (#42)\n"+
		"* [MAINTENANCE] fix crash (#43) (thanks @octocat)\n"+
		"\n"+
		"1.0.0\n"+
		"-----------------\n"+
		"* [FEATURE] first release (#1)\n", readFile(t, f.rst))

	assert.Contains(t, f.out.String(), "Updated "+f.md)
	assert.Contains(t, f.out.String(), "Updated "+f.rst)

	hist, err := history.LoadHistory(f.state)
	require.NoError(t, err)
	require.Len(t, hist.Entries, 1)
	assert.Equal(t, "1.0.0", hist.Entries[0].Previous, "leading v is dropped")
	assert.Equal(t, "1.1.0", hist.Entries[0].Version)
	assert.Equal(t, f.input, hist.Entries[0].Source)
	assert.Equal(t, 2, hist.Entries[0].Records)
}

func TestRunPrep_DryRun(t *testing.T) {
	t.Parallel()

	f := newPrepFixture(t)
	err := f.run(prepOptions{Previous: "1.0.0", Version: "1.1.0", Input: f.input, DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, mdFixture, readFile(t, f.md))
	assert.Equal(t, rstFixture, readFile(t, f.rst))
	assert.Contains(t, f.out.String(), "==> "+f.md+" (markdown, line 2)")
	assert.Contains(t, f.out.String(), "* [MAINTENANCE] fix crash (#43) (thanks @octocat)")

	_, err = os.Stat(history.HistoryPath(f.state))
	assert.True(t, os.IsNotExist(err), "dry runs are not recorded")
}

func TestRunPrep_FilesOverride(t *testing.T) {
	t.Parallel()

	f := newPrepFixture(t)
	err := f.run(prepOptions{Previous: "1.0.0", Version: "1.1.0", Input: f.input, Files: []string{f.md}})
	require.NoError(t, err)

	assert.Contains(t, readFile(t, f.md), "### 1.1.0")
	assert.Equal(t, rstFixture, readFile(t, f.rst))
}

func TestRunPrep_FlagErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flags        prepOptions
		wantCategory clierrors.ErrorCategory
		wantMessage  string
	}{
		"missing previous": {
			flags:        prepOptions{Version: "1.1.0", Input: "changes.yml"},
			wantCategory: clierrors.Argument,
			wantMessage:  "both the previous and the new version are required",
		},
		"no source": {
			flags:        prepOptions{Previous: "1.0.0", Version: "1.1.0"},
			wantCategory: clierrors.Argument,
			wantMessage:  "no change-request source given",
		},
		"two sources": {
			flags:        prepOptions{Previous: "1.0.0", Version: "1.1.0", Input: "changes.yml", FromGit: true},
			wantCategory: clierrors.Argument,
			wantMessage:  "cannot be used together",
		},
		"fetch without git": {
			flags:        prepOptions{Previous: "1.0.0", Version: "1.1.0", Input: "changes.yml", Fetch: true},
			wantCategory: clierrors.Argument,
			wantMessage:  "--fetch requires --from-git",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := newPrepFixture(t)
			err := f.run(tc.flags)
			require.Error(t, err)

			cliErr := clierrors.FromError(err)
			assert.Equal(t, tc.wantCategory, cliErr.Category)
			assert.Contains(t, cliErr.Message, tc.wantMessage)
			assert.Equal(t, mdFixture, readFile(t, f.md))
		})
	}
}

func TestRunPrep_FailsWithoutWriting(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setup    func(t *testing.T, f *prepFixture)
		flags    func(f *prepFixture) prepOptions
		wantCode int
	}{
		"version does not advance": {
			flags: func(f *prepFixture) prepOptions {
				return prepOptions{Previous: "1.0.0", Version: "1.0.0", Input: f.input}
			},
			wantCode: ExitInvalidArguments,
		},
		"previous version missing from rst": {
			setup: func(t *testing.T, f *prepFixture) {
				writeFile(t, f.rst, "Changelog\n=========\n")
			},
			flags: func(f *prepFixture) prepOptions {
				return prepOptions{Previous: "1.0.0", Version: "1.1.0", Input: f.input}
			},
			wantCode: ExitPrerequisiteFailed,
		},
		"missing roster": {
			setup: func(t *testing.T, f *prepFixture) {
				require.NoError(t, os.Remove(f.roster))
			},
			flags: func(f *prepFixture) prepOptions {
				return prepOptions{Previous: "1.0.0", Version: "1.1.0", Input: f.input}
			},
			wantCode: ExitPrerequisiteFailed,
		},
		"missing input": {
			flags: func(f *prepFixture) prepOptions {
				return prepOptions{Previous: "1.0.0", Version: "1.1.0", Input: filepath.Join(f.dir, "nope.yml")}
			},
			wantCode: ExitPrerequisiteFailed,
		},
		"git outside a repository": {
			flags: func(f *prepFixture) prepOptions {
				return prepOptions{Previous: "1.0.0", Version: "1.1.0", FromGit: true, Repo: f.dir}
			},
			wantCode: ExitPrerequisiteFailed,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := newPrepFixture(t)
			if tc.setup != nil {
				tc.setup(t, f)
			}
			err := f.run(tc.flags(f))
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, ExitCode(err))
			assert.Equal(t, mdFixture, readFile(t, f.md))
		})
	}
}

func TestRunPrep_TargetChecksComeFirst(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flags   func(f *prepFixture) prepOptions
		wantErr any
	}{
		"version order before roster and input": {
			flags: func(f *prepFixture) prepOptions {
				return prepOptions{Previous: "1.2.0", Version: "1.1.0", Input: filepath.Join(f.dir, "nope.yml")}
			},
			wantErr: &changelog.VersionOrderError{},
		},
		"version order before git access": {
			flags: func(f *prepFixture) prepOptions {
				return prepOptions{Previous: "1.2.0", Version: "1.1.0", FromGit: true, Fetch: true, Repo: f.dir}
			},
			wantErr: &changelog.VersionOrderError{},
		},
		"unsupported target before roster": {
			flags: func(f *prepFixture) prepOptions {
				return prepOptions{Previous: "1.0.0", Version: "1.1.0", Input: f.input, Files: []string{f.md, filepath.Join(f.dir, "CHANGES.txt")}}
			},
			wantErr: &changelog.DialectError{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := newPrepFixture(t)
			require.NoError(t, os.Remove(f.roster))

			err := f.run(tc.flags(f))
			require.Error(t, err)
			switch tc.wantErr.(type) {
			case *changelog.VersionOrderError:
				var orderErr *changelog.VersionOrderError
				require.True(t, errors.As(err, &orderErr), "got %v", err)
				assert.Equal(t, "1.2.0", orderErr.Previous)
				assert.Equal(t, ExitInvalidArguments, ExitCode(err))
			case *changelog.DialectError:
				var dialectErr *changelog.DialectError
				require.True(t, errors.As(err, &dialectErr), "got %v", err)
				assert.Equal(t, ExitConfigError, ExitCode(err))
			}
			assert.Equal(t, mdFixture, readFile(t, f.md))
		})
	}
}

func TestRunPrep_NoRosterCreditsEveryone(t *testing.T) {
	t.Parallel()

	f := newPrepFixture(t)
	f.cfg.RosterFile = ""
	require.NoError(t, f.run(prepOptions{Previous: "1.0.0", Version: "1.1.0", Input: f.input}))
	assert.Contains(t, readFile(t, f.md), "* [FEATURE] add widget (#42) (thanks @alice)\n")
}

// initRepo commits the fixture's changelogs, tags them as 1.0.0 and adds one
// squash-merged commit on top.
func initRepo(t *testing.T, f *prepFixture) {
	t.Helper()
	repo, err := gogit.PlainInit(f.dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	when := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	commit := func(msg, name, email string, paths ...string) {
		for _, p := range paths {
			rel, err := filepath.Rel(f.dir, p)
			require.NoError(t, err)
			_, err = wt.Add(rel)
			require.NoError(t, err)
		}
		when = when.Add(time.Minute)
		sig := &object.Signature{Name: name, Email: email, When: when}
		_, err := wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
	}

	commit("[FEATURE] first release (#1)\n", "Alice", "alice@example.com", f.md, f.rst, f.roster)
	head, err := repo.Head()
	require.NoError(t, err)
	_, err = repo.CreateTag("v1.0.0", head.Hash(), nil)
	require.NoError(t, err)

	widget := filepath.Join(f.dir, "widget.go")
	writeFile(t, widget, "package widget\n")
	commit("[FEATURE] add widget (#42)\n", "Octo Cat", "583231+octocat@users.noreply.github.com", widget)
	bump := filepath.Join(f.dir, "VERSION")
	writeFile(t, bump, "1.0.1\n")
	commit("RELEASE 1.0.1 bookkeeping\n", "Alice", "alice@example.com", bump)
}

func TestRunPrep_FromGit(t *testing.T) {
	t.Parallel()

	f := newPrepFixture(t)
	f.cfg.RequireClean = true
	initRepo(t, f)

	err := f.run(prepOptions{Previous: "1.0.0", Version: "1.1.0", FromGit: true, Repo: f.dir})
	require.NoError(t, err)

	assert.Equal(t, "# Changelog\n"+
		"\n"+
		"### 1.1.0\n"+
		"* [FEATURE] add widget (#42) (thanks @octocat)\n"+
		"\n"+
		"### 1.0.0\n"+
		"* [FEATURE] first release (#1)\n", readFile(t, f.md))
	assert.Contains(t, f.out.String(), "Collected 1 change request(s) since 1.0.0")

	hist, err := history.LoadHistory(f.state)
	require.NoError(t, err)
	require.Len(t, hist.Entries, 1)
	assert.Equal(t, "git", hist.Entries[0].Source)
}

func TestRunPrep_DirtyWorktree(t *testing.T) {
	t.Parallel()

	f := newPrepFixture(t)
	f.cfg.RequireClean = true
	initRepo(t, f)
	writeFile(t, f.md, mdFixture+"local edit\n")

	err := f.run(prepOptions{Previous: "1.0.0", Version: "1.1.0", FromGit: true, Repo: f.dir})
	require.Error(t, err)
	assert.Equal(t, ExitPrerequisiteFailed, ExitCode(err))
	assert.Equal(t, mdFixture+"local edit\n", readFile(t, f.md))
	assert.Equal(t, rstFixture, readFile(t, f.rst))
}
