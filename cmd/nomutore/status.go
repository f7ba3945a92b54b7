package nomutore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ciquab/nomutore/internal/service"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current balance, streak and grade",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			s, err := service.BuildStatusSummary(sqldb, p, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			balance := color.New(color.FgGreen, color.Bold)
			if s.Balance < 0 {
				balance = color.New(color.FgRed, color.Bold)
			}
			fmt.Fprintf(out, "Balance:  %s\n", balance.Sprintf("%+.0f kcal", s.Balance))
			fmt.Fprintf(out, "Today:    %+.0f kcal %s\n", s.TodayNet, statusGlyph(s.TodayStatus))
			fmt.Fprintf(out, "Streak:   %d days (x%.1f exercise bonus)\n", s.Streak, s.Multiplier)

			grade := s.Grade.Label
			if s.Grade.NextRank != "" {
				if s.Grade.Rookie {
					grade += fmt.Sprintf("  (next: %s)", s.Grade.NextRank)
				} else {
					grade += fmt.Sprintf("  (next: %s in %.0f streak days)", s.Grade.NextRank, s.Grade.NextDelta)
				}
			}
			fmt.Fprintf(out, "Grade:    %s\n", grade)

			if !s.PeriodStart.IsZero() {
				fmt.Fprintf(out, "Period:   %s since %s\n", s.PeriodMode, s.PeriodStart.Format("2006-01-02"))
			} else {
				fmt.Fprintf(out, "Period:   %s\n", s.PeriodMode)
			}

			if s.Redemption != nil {
				fmt.Fprintf(out, "Make up:  %.0f min of %s clears the debt\n", s.Redemption.Minutes, s.Redemption.Label)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
