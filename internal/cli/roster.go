package cli

import (
	"fmt"
	"io"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"github.com/ariel-frischer/relprep/internal/config"
	clierrors "github.com/ariel-frischer/relprep/internal/errors"
	"github.com/spf13/cobra"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the team handles read from the roster file",
	Long: `Print every handle found in the configured roster_file, one per line.
Authors in this list are never thanked in the changelog.`,
	Example: `  relprep roster
  RELPREP_ROSTER_FILE=CODEOWNERS relprep roster`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runRoster(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rosterCmd.GroupID = GroupInspection
	rootCmd.AddCommand(rosterCmd)
}

func runRoster(out io.Writer, cfg *config.Configuration) error {
	if cfg.RosterFile == "" {
		return clierrors.NewConfigError("no roster_file configured",
			"Set roster_file: relprep config set roster_file .github/teams.yml")
	}
	roster, err := changelog.LoadRoster(cfg.RosterFile, changelog.RosterFormat(cfg.RosterFormat))
	if err != nil {
		return err
	}
	for _, handle := range roster.Handles() {
		fmt.Fprintln(out, handle)
	}
	return nil
}
