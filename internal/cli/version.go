package cli

import (
	"fmt"

	"github.com/ariel-frischer/relprep/internal/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for relprep",
	Example: `  relprep version
  relprep version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		lines := version.Lines()
		if versionPlain {
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return
		}
		fmt.Fprintln(out, color.New(color.FgCyan, color.Bold).Sprint(lines[0]))
		for _, line := range lines[1:] {
			fmt.Fprintln(out, "  "+line)
		}
	},
}

func init() {
	versionCmd.GroupID = GroupConfiguration
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
	rootCmd.AddCommand(versionCmd)
}
