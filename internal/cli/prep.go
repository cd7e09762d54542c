package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"github.com/ariel-frischer/relprep/internal/config"
	clierrors "github.com/ariel-frischer/relprep/internal/errors"
	"github.com/ariel-frischer/relprep/internal/git"
	"github.com/ariel-frischer/relprep/internal/history"
	"github.com/ariel-frischer/relprep/internal/output"
	"github.com/ariel-frischer/relprep/internal/progress"
	"github.com/ariel-frischer/relprep/internal/release"
	"github.com/ariel-frischer/relprep/internal/source"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// prepOptions holds the prep command's flags.
type prepOptions struct {
	Previous string
	Version  string
	Input    string
	FromGit  bool
	Fetch    bool
	DryRun   bool
	Files    []string
	Repo     string
}

var prepFlags prepOptions

var prepCmd = &cobra.Command{
	Use:   "prep",
	Short: "Write the changelog entry for a new version",
	Long: `Collect the change requests merged since the previous version, classify and
order them, and insert the rendered entry above the previous version's
section in every changelog document.

Every check runs before any file is written: the new version must be greater
than the previous one, every document must be .md or .rst and must mention
the previous version, and with require_clean the working copy must have no
modified tracked files.`,
	Example: `  # From a change-request file
  relprep prep --previous 1.3.2 --version 1.4.0 --input changes.yml

  # From commits since the 1.3.2 tag, after fetching tags
  relprep prep --previous 1.3.2 --version 1.4.0 --from-git --fetch

  # Print the blocks without touching any file
  relprep prep --previous 1.3.2 --version 1.4.0 --from-git --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runPrep(cmd, cfg, prepFlags, logger)
	},
}

func init() {
	prepCmd.GroupID = GroupRelease
	rootCmd.AddCommand(prepCmd)

	prepCmd.Flags().StringVarP(&prepFlags.Previous, "previous", "p", "", "Version of the last release (its section is the insertion point)")
	prepCmd.Flags().StringVarP(&prepFlags.Version, "version", "v", "", "Version being prepared")
	prepCmd.Flags().StringVarP(&prepFlags.Input, "input", "i", "", "YAML or JSON file listing the change requests")
	prepCmd.Flags().BoolVar(&prepFlags.FromGit, "from-git", false, "Collect commits since the previous version's tag")
	prepCmd.Flags().BoolVar(&prepFlags.Fetch, "fetch", false, "Fetch all remotes before reading git history")
	prepCmd.Flags().BoolVarP(&prepFlags.DryRun, "dry-run", "n", false, "Print the rendered blocks without writing")
	prepCmd.Flags().StringSliceVarP(&prepFlags.Files, "files", "f", nil, "Changelog documents to update (overrides changelog_files)")
	prepCmd.Flags().StringVar(&prepFlags.Repo, "repo", ".", "Path inside the git repository")
}

// runPrep executes one preparation pass with an already loaded config.
func runPrep(cmd *cobra.Command, cfg *config.Configuration, flags prepOptions, log logrus.FieldLogger) error {
	if err := checkPrepFlags(flags); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	previous := changelog.NormalizeVersion(flags.Previous)
	version := changelog.NormalizeVersion(flags.Version)
	files := cfg.ChangelogFiles
	if len(flags.Files) > 0 {
		files = flags.Files
	}
	if err := release.CheckTargets(previous, version, files); err != nil {
		return err
	}

	mode, err := changelog.ParseMode(cfg.ClassifyMode)
	if err != nil {
		return clierrors.NewConfigError(err.Error(), "Set classify_mode to tag or scan")
	}

	roster, err := loadRoster(cfg, log)
	if err != nil {
		return err
	}

	var repo *git.Repository
	if flags.FromGit || cfg.RequireClean {
		repo, err = git.Open(flags.Repo)
		if err != nil {
			if flags.FromGit {
				return err
			}
			log.WithError(err).Debug("Skipping clean check outside a repository")
		}
	}

	var src release.Source
	sourceName := flags.Input
	if flags.FromGit {
		sourceName = "git"
		if flags.Fetch {
			if err := fetchRemotes(ctx, out, repo); err != nil {
				return err
			}
		}
		src = withSpinner(out, "Reading git history", &source.Git{
			Log:    repo,
			Trunk:  cfg.Trunk,
			Logger: log,
		})
	} else {
		src = &source.File{Path: flags.Input}
	}

	opts := release.Options{
		Previous: previous,
		Version:  version,
		Files:    files,
		Source:   src,
		Roster:   roster,
		Mode:     mode,
		Render: changelog.RenderOptions{
			PullRequestURL:  cfg.PullRequestURL,
			GroupByCategory: cfg.GroupByCategory,
			UnderlineWidth:  cfg.UnderlineWidth,
		},
		VersionFile: cfg.VersionFile,
		DryRun:      flags.DryRun,
		Logger:      log,
	}
	if cfg.RequireClean && repo != nil {
		opts.Worktree = repo
	}
	if mode == changelog.ModeScan && isInteractive(cmd.InOrStdin()) {
		opts.Resolver = newPromptResolver(cmd.InOrStdin(), out)
	}

	result, err := release.Prep(ctx, opts)
	if err != nil {
		return err
	}

	if flags.DryRun {
		output.PrintSeparator(out, "dry run")
		return release.PrintBlocks(out, result)
	}

	printPrepSummary(out, result, cfg.VersionFile)
	history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries).LogRelease(result, sourceName)
	return nil
}

func checkPrepFlags(flags prepOptions) error {
	if flags.Previous == "" || flags.Version == "" {
		return clierrors.MissingVersions()
	}
	if flags.Input != "" && flags.FromGit {
		return clierrors.ConflictingSources()
	}
	if flags.Input == "" && !flags.FromGit {
		return clierrors.MissingSource()
	}
	if flags.Fetch && !flags.FromGit {
		return clierrors.NewArgumentError("--fetch requires --from-git")
	}
	return nil
}

// loadRoster reads the configured roster. Without a roster_file every
// author is credited.
func loadRoster(cfg *config.Configuration, log logrus.FieldLogger) (changelog.Roster, error) {
	if cfg.RosterFile == "" {
		log.Debug("No roster configured; every author will be credited")
		return nil, nil
	}
	roster, err := changelog.LoadRoster(cfg.RosterFile, changelog.RosterFormat(cfg.RosterFormat))
	if err != nil {
		return nil, err
	}
	log.WithField("handles", roster.Len()).Debug("Loaded roster")
	return roster, nil
}

func fetchRemotes(ctx context.Context, out io.Writer, repo *git.Repository) error {
	spin := progress.StartSpinner(out, progress.DetectTerminalCapabilities(), "Fetching remotes")
	fetched, err := repo.FetchAllRemotes(ctx)
	if err != nil {
		spin.Fail("Fetching remotes failed")
		return err
	}
	if !fetched {
		spin.Fail("Some remotes could not be fetched (see --debug); using local tags")
		return nil
	}
	spin.Succeed("Fetched remotes")
	return nil
}

// withSpinner shows a spinner while src collects change requests.
func withSpinner(out io.Writer, message string, src release.Source) release.Source {
	return release.SourceFunc(func(ctx context.Context, previous string) ([]changelog.ChangeRequest, error) {
		spin := progress.StartSpinner(out, progress.DetectTerminalCapabilities(), message)
		requests, err := src.ChangeRequests(ctx, previous)
		if err != nil {
			spin.Fail(message + " failed")
			return nil, err
		}
		spin.Succeed(fmt.Sprintf("Collected %d change request(s) since %s", len(requests), previous))
		return requests, nil
	})
}

func printPrepSummary(out io.Writer, result *release.Result, versionFile string) {
	for _, f := range result.Files {
		output.PrintSuccess(out, fmt.Sprintf("Updated %s (%s, line %d)", f.Path, f.Dialect, f.Inserted+1))
	}
	if versionFile != "" {
		output.PrintSuccess(out, fmt.Sprintf("Wrote %s to %s", result.Version, versionFile))
	}
	for _, group := range result.Entry.ByCategory() {
		output.PrintField(out, group.Category.Title(), fmt.Sprintf("%d", len(group.Records)))
	}
}
