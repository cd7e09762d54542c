package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/relprep/internal/history"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "View prepared releases",
	Long:         `View a log of release preparations with timestamp, versions, change-request source, record count, and updated files.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runHistoryWithStateDir(cmd, cfg.StateDir)
	},
}

func init() {
	historyCmd.GroupID = GroupInspection
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("version", "", "Filter by prepared version")
	historyCmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	historyCmd.Flags().Bool("clear", false, "Clear all history")
}

// runHistoryWithStateDir runs the history command with a custom state directory.
func runHistoryWithStateDir(cmd *cobra.Command, stateDir string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	versionFilter, _ := cmd.Flags().GetString("version")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := filterEntries(histFile.Entries, versionFilter, limit)
	if len(entries) == 0 {
		if versionFilter != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No matching entries for version '%s'.\n", versionFilter)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No history available.")
		}
		return nil
	}

	displayEntries(cmd.OutOrStdout(), entries)
	return nil
}

// filterEntries filters and limits history entries.
func filterEntries(entries []history.HistoryEntry, versionFilter string, limit int) []history.HistoryEntry {
	var result []history.HistoryEntry
	for _, entry := range entries {
		if versionFilter == "" || entry.Version == versionFilter {
			result = append(result, entry)
		}
	}

	// Most recent entries
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}

// displayEntries formats and displays history entries.
func displayEntries(out io.Writer, entries []history.HistoryEntry) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")
		versions := fmt.Sprintf("%s -> %s", entry.Previous, entry.Version)

		fmt.Fprintf(out, "%s  %s  %-10s  records=%d  %s\n",
			cyan(timestamp),
			green(fmt.Sprintf("%-20s", versions)),
			entry.Source,
			entry.Records,
			strings.Join(entry.Files, ", "),
		)
	}
}
