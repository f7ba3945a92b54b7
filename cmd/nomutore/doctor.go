package nomutore

import (
	"database/sql"
	"fmt"

	"github.com/ciquab/nomutore/internal/service"
	"github.com/spf13/cobra"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the database for inconsistencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(report.Issues) == 0 {
				fmt.Fprintln(out, "No issues found.")
				return nil
			}
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "[%s] %s\n", issue.Kind, issue.Detail)
			}
			if doctorFix {
				fmt.Fprintf(out, "Fixed %d of %d issues.\n", report.Fixed, len(report.Issues))
			} else {
				fmt.Fprintf(out, "%d issues found. Re-run with --fix to repair.\n", len(report.Issues))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Repair fixable issues")
}
