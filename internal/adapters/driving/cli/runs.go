package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded sync runs",
	RunE:  runRuns,
}

var runsLimit int

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs to show")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	history, closeFn, err := newRunHistory(settings)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	runs, err := history.History(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No sync runs recorded.")
		return nil
	}

	for _, r := range runs {
		line := fmt.Sprintf("%s  %s  %-9s  %d submitted, %d skipped  %s",
			r.CreatedAt.Local().Format(time.DateTime),
			r.ID[:min(8, len(r.ID))],
			renderStatus(r.Status),
			r.Submitted,
			r.Skipped,
			r.AudienceName,
		)
		cmd.Println(line)
		if r.Error != "" {
			cmd.Println("    " + styles.Error.Render(strings.TrimSpace(r.Error)))
		}
	}
	return nil
}
