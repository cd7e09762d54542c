package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var classifyMode string

var classifyCmd = &cobra.Command{
	Use:   "classify <title>...",
	Short: "Show how change-request titles are classified",
	Long: `Classify each title argument and print the category and description that
would appear in the changelog. Titles that fall back to Maintenance (tag
mode) or stay Unclassified (scan mode) are marked.`,
	Example: `  relprep classify "[FEATURE] add dark mode" "[bugfix] crash on start" "bump deps"
  relprep classify --mode scan "DOCS: fix typo"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeName := classifyMode
		if modeName == "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			modeName = cfg.ClassifyMode
		}
		mode, err := changelog.ParseMode(modeName)
		if err != nil {
			return err
		}
		return runClassify(cmd.OutOrStdout(), mode, args, logger)
	},
}

func init() {
	classifyCmd.GroupID = GroupInspection
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVarP(&classifyMode, "mode", "m", "", "Classification mode: tag or scan (default: classify_mode)")
}

func runClassify(out io.Writer, mode changelog.Mode, titles []string, log logrus.FieldLogger) error {
	classifier := changelog.NewClassifier(mode, log)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tDESCRIPTION\tNOTE")
	for i, title := range titles {
		record := classifier.Classify(changelog.ChangeRequest{
			ID:    fmt.Sprintf("%d", i+1),
			Title: title,
		})
		fmt.Fprintf(tw, "%s\t%s\t%s\n", record.Category, record.Description, classifyNote(mode, title, record))
	}
	return tw.Flush()
}

func classifyNote(mode changelog.Mode, title string, record changelog.Record) string {
	if record.IsUnknown() {
		return "needs a category"
	}
	if mode == changelog.ModeTag && !changelog.ParseTitle(title).Recognized() {
		return "fallback"
	}
	return ""
}
