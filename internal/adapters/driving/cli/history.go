package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs",
	Long:  `Lists recent runs and the outcome of every file. Requires history_db to be set.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	_, app, err := openApp(nil)
	if err != nil {
		return err
	}
	defer closeApp(app)

	if app.History == nil {
		return errors.New("history service not configured")
	}

	runs, err := app.History.Recent(cmd.Context(), historyLimit)
	if errors.Is(err, domain.ErrHistoryUnavailable) {
		return errors.New("no run history: set history_db in the configuration")
	}
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	for _, run := range runs {
		header := fmt.Sprintf("%s  %s", run.StartedAt.Local().Format("2006-01-02 15:04"), run.ID)
		cmd.Println(styles.Title.Render(header) + "  " +
			styles.Muted.Render(humanize.Time(run.StartedAt)))
		if run.FinishedAt.IsZero() {
			cmd.Println(styles.Warning.Render("  did not finish"))
		}
		for _, v := range run.Variants {
			detail := fmt.Sprintf("%s rows", humanize.Comma(int64(v.Rows)))
			if v.Status != domain.VariantSucceeded {
				detail = firstLine(v.Error)
			}
			cmd.Printf("  %s %s  %s\n", styles.status(v.Status), v.FileName, styles.Muted.Render(detail))
		}
		cmd.Printf("  %d succeeded, %d failed\n", run.Succeeded(), run.Failed())
	}
	return nil
}
