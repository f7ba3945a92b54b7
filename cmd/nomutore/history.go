package nomutore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ciquab/nomutore/internal/service"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a day-by-day history of the recent past",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyDays < 1 {
			historyDays = 14
		}
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			now := time.Now()
			days, err := service.RangeSummaries(sqldb, p, now.AddDate(0, 0, -(historyDays-1)), now)
			if err != nil {
				return err
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow("DATE", "", "NET KCAL", "BEER", "EXERCISE")
			for _, d := range days {
				beer := ""
				if d.BeerML > 0 {
					beer = fmt.Sprintf("%.0fml", d.BeerML)
				}
				exercise := ""
				if d.Exercise > 0 {
					exercise = fmt.Sprintf("%.0fmin", d.Exercise)
				}
				net := ""
				if len(d.Logs) > 0 {
					net = fmt.Sprintf("%+.0f", d.Net)
				}
				tbl.AddRow(d.Day.Format("2006-01-02"), statusGlyph(d.Status), net, beer, exercise)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyDays, "days", 14, "Number of days to show")
}
