package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List configured reports and their files",
	Args:  cobra.NoArgs,
	RunE:  runListReports,
}

func init() {
	rootCmd.AddCommand(reportsCmd)
}

func runListReports(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	cmd.Printf("Destination: %s\n", settings.DestPath)
	for _, r := range settings.Reports {
		cmd.Println()
		cmd.Println(styles.Title.Render(r.Path))
		cmd.Printf("  fields:  %s\n", strings.Join(r.Fields(), ", "))
		cmd.Printf("  sort by: %s\n", r.SortBy)
		cmd.Printf("  format:  %q\n", r.Format.String())
		for _, f := range r.Files {
			if !f.Filtered() {
				cmd.Printf("  - %s\n", f.Name)
				continue
			}
			cmd.Printf("  - %s %s\n", f.Name,
				styles.Muted.Render(fmt.Sprintf("(%s in %s)", r.Variable, strings.Join(f.Values, ", "))))
		}
	}
	return nil
}
