package cli

import (
	"fmt"

	"github.com/ariel-frischer/relprep/internal/changelog"
	clierrors "github.com/ariel-frischer/relprep/internal/errors"
	"github.com/ariel-frischer/relprep/internal/health"
	"github.com/spf13/cobra"
)

var doctorPrevious string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that a release can be prepared here",
	Long: `Check every configured changelog target, the roster, and the repository.
With --previous, also check that each changelog mentions that version, which
is where the new entry will be inserted.`,
	Example: `  relprep doctor
  relprep doctor --previous 1.3.2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		report := health.RunHealthChecks(health.Options{
			Files:        cfg.ChangelogFiles,
			RosterFile:   cfg.RosterFile,
			RosterFormat: cfg.RosterFormat,
			Previous:     changelog.NormalizeVersion(doctorPrevious),
			RepoPath:     ".",
			Trunk:        cfg.Trunk,
			RequireClean: cfg.RequireClean,
		})
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

		if !report.Passed {
			return clierrors.NewPrerequisiteError("some checks failed", "Fix the items marked ✗ above")
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = GroupInspection
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVarP(&doctorPrevious, "previous", "p", "", "Version whose section must exist in every changelog")
}
