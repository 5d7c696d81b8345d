package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driving"
)

var (
	runReportsFilter []string
	runFilesFilter   []string
	runNoProgress    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the configured reports and write their files",
	Long: `Fetches every configured report and writes one sorted file per file
variant into dest_path, then appends the per category counts to the stats
file. Use --report and --file to process only some of them.

A variant that fails does not stop the others; the command exits with an
error when any variant failed.`,
	Args: cobra.NoArgs,
	RunE: runReports,
}

func init() {
	runCmd.Flags().StringSliceVar(&runReportsFilter, "report", nil, "only process reports with this path (repeatable)")
	runCmd.Flags().StringSliceVar(&runFilesFilter, "file", nil, "only write this file (repeatable)")
	runCmd.Flags().BoolVar(&runNoProgress, "no-progress", false, "disable the live progress line")
	rootCmd.AddCommand(runCmd)
}

func runReports(cmd *cobra.Command, _ []string) error {
	progress := newProgressPrinter(cmd.ErrOrStderr(), !runNoProgress)

	_, app, err := openApp(progress)
	if err != nil {
		return err
	}
	defer closeApp(app)

	if app.Runner == nil {
		return errors.New("report runner not configured")
	}

	summary, err := app.Runner.Run(cmd.Context(), driving.RunOptions{
		Reports: runReportsFilter,
		Files:   runFilesFilter,
	})
	if errors.Is(err, domain.ErrNoVariantsSelected) {
		return fmt.Errorf("nothing to do: %w", err)
	}
	if summary != nil {
		printSummary(cmd.OutOrStdout(), summary)
	}
	if err != nil {
		if summary == nil || summary.Failed() == 0 {
			return fmt.Errorf("run failed: %w", err)
		}
		return fmt.Errorf("%d of %d files failed: %w", summary.Failed(), len(summary.Variants), err)
	}
	return nil
}

// printSummary writes one line per variant followed by totals.
func printSummary(w io.Writer, summary *domain.RunSummary) {
	fmt.Fprintln(w, styles.Title.Render("Run "+summary.ID))
	for _, v := range summary.Variants {
		line := fmt.Sprintf("  %s %s", styles.status(v.Status), v.FileName)
		if v.Status == domain.VariantSucceeded {
			line += styles.Muted.Render(fmt.Sprintf("  %s rows, %d pages", humanize.Comma(int64(v.Rows)), v.Pages))
		} else if v.Error != "" {
			line += styles.Muted.Render("  " + firstLine(v.Error))
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d succeeded, %d failed, %s rows in %s\n",
		summary.Succeeded(), summary.Failed(),
		humanize.Comma(int64(summary.TotalRows())),
		summary.FinishedAt.Sub(summary.StartedAt).Round(100*time.Millisecond))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
