package nomutore

import (
	"database/sql"
	"fmt"

	"github.com/ciquab/nomutore/internal/service"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show beer rankings across live and archived history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			stats, err := service.BeerStatsFromDB(sqldb)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(stats.Brands) == 0 {
				fmt.Fprintln(out, "No beers logged yet.")
				return nil
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow("#", "BREWERY", "BRAND", "COUNT", "TOTAL", "RATING", "LAST")
			for i, b := range stats.Brands {
				if statsLimit > 0 && i >= statsLimit {
					break
				}
				rating := ""
				if b.AvgRating > 0 {
					rating = fmt.Sprintf("%.1f", b.AvgRating)
				}
				tbl.AddRow(i+1, b.Brewery, b.Brand, b.Count,
					fmt.Sprintf("%.1fL", b.TotalML/1000), rating, b.LastDrank.Format("2006-01-02"))
			}
			fmt.Fprintln(out, tbl)

			if len(stats.Styles) > 0 {
				fmt.Fprintln(out)
				styles := uitable.New()
				styles.Separator = "  "
				styles.AddRow("STYLE", "COUNT")
				for _, s := range stats.Styles {
					styles.AddRow(s.Style, s.Count)
				}
				fmt.Fprintln(out, styles)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsLimit, "limit", 10, "Number of brands to show")
}
