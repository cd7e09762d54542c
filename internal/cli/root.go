// Package cli implements the relprep command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariel-frischer/relprep/internal/config"
	clierrors "github.com/ariel-frischer/relprep/internal/errors"
	"github.com/ariel-frischer/relprep/internal/git"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupRelease       = "release"
	GroupInspection    = "inspection"
	GroupConfiguration = "configuration"
)

var (
	configPath string
	debug      bool

	// logger carries diagnostics for every command. Output goes to stderr
	// so rendered changelog text on stdout stays clean.
	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "relprep",
	Short: "Prepare changelog entries for a release",
	Long: `relprep builds the changelog entry for a release from the change requests
merged since the previous version, and splices it into every configured
changelog document directly above the previous release's section.

Change requests come from a YAML or JSON file (--input) or from the commits
reachable from HEAD but not from the previous version's tag (--from-git).
Titles carrying a bracketed tag such as "[FEATURE] ..." are grouped by
category; authors outside the team roster are thanked by handle.`,
	Example: `  # Preview the entry for 1.4.0 from git history
  relprep prep --previous 1.3.2 --version 1.4.0 --from-git --dry-run

  # Write it to the configured changelogs
  relprep prep --previous 1.3.2 --version 1.4.0 --from-git

  # Check how titles will be classified
  relprep classify "[BUGFIX] handle empty config" "tidy imports"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configureLogging(cmd.ErrOrStderr(), debug)
		return nil
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupInspection, Title: "Inspection Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the project config file (default: .relprep/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		clierrors.FprintError(rootCmd.ErrOrStderr(), clierrors.FromError(err))
	}
	return ExitCode(err)
}

// configureLogging sets the diagnostic level and wires go-git debug output
// into the same logger.
func configureLogging(w io.Writer, debug bool) {
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if debug {
		logger.SetLevel(logrus.DebugLevel)
		git.SetDebugLogger(logger.Debugf)
		return
	}
	logger.SetLevel(logrus.InfoLevel)
	git.SetDebugLogger(nil)
}

// loadConfig loads the layered configuration, honouring --config.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
