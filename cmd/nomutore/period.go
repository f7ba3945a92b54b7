package nomutore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ciquab/nomutore/internal/service"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Manage accounting periods",
}

var periodShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current period settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			mode, start, err := service.LoadPeriodSettings(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mode: %s\n", mode)
			if !start.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "Current period since: %s\n", start.Format("2006-01-02"))
			}
			return nil
		})
	},
}

var periodSetCmd = &cobra.Command{
	Use:   "set <weekly|monthly|permanent>",
	Short: "Switch the period mode",
	Long: "Switch between weekly, monthly and permanent accounting. Switching to\n" +
		"permanent restores every archived log into the live balance.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := service.ParsePeriodMode(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.UpdatePeriodSettings(sqldb, mode, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Period mode set to %s\n", mode)
			return nil
		})
	},
}

var periodArchivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "List archived periods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			archives, err := service.ListArchives(sqldb)
			if err != nil {
				return err
			}
			if len(archives) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived periods.")
				return nil
			}
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow("ID", "FROM", "TO", "MODE", "LOGS", "BALANCE")
			for _, a := range archives {
				tbl.AddRow(a.ID, a.StartDate.Format("2006-01-02"), a.EndDate.Format("2006-01-02"),
					string(a.Mode), len(a.Logs), fmt.Sprintf("%+.0f", a.TotalBalance))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		})
	},
}

var periodRolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Close the period now if a boundary has been crossed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			rolled, err := service.CheckPeriodRollover(sqldb, time.Now())
			if err != nil {
				return err
			}
			if rolled {
				fmt.Fprintln(cmd.OutOrStdout(), "Period closed and archived.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Still inside the current period.")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(periodCmd)
	periodCmd.AddCommand(periodShowCmd, periodSetCmd, periodArchivesCmd, periodRolloverCmd)
}
