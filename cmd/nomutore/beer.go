package nomutore

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/service"
	"github.com/spf13/cobra"
)

var beerCmd = &cobra.Command{
	Use:   "beer",
	Short: "Manage beer logs",
}

var (
	beerName       string
	beerStyle      string
	beerSize       string
	beerCount      int
	beerABV        float64
	beerBrewery    string
	beerBrand      string
	beerRating     int
	beerMemo       string
	beerDate       string
	beerCustom     bool
	beerCustomType string
	beerAmountML   float64
	beerShare      bool
)

var beerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a beer log",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayOrNow(beerDate)
		if err != nil {
			return err
		}
		in := buildBeerInput(day)
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			id, err := service.SaveBeerLog(sqldb, in)
			if err != nil {
				return err
			}
			if err := recalcFrom(sqldb, p, day); err != nil {
				return err
			}
			l, err := service.GetLog(sqldb, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added beer log %d (%.0f kcal)\n", id, l.Kcal)
			if beerShare {
				s, err := service.BuildStatusSummary(sqldb, p, day)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), energy.ShareText(l, s.Balance))
			}
			return nil
		})
	},
}

var (
	beerListDate string
	beerFromDate string
	beerToDate   string
	beerLimit    int
)

var beerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List beer logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListLogsFilter{
			Date:     beerListDate,
			FromDate: beerFromDate,
			ToDate:   beerToDate,
			Type:     "beer",
			Limit:    beerLimit,
		}
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListLogs(sqldb, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tNAME\tSTYLE\tSIZE\tCOUNT\tABV\tKCAL\tRATING")
			for _, item := range items {
				size := item.Size
				if item.IsCustom {
					size = fmt.Sprintf("%.0fml", item.RawAmountML)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\t%d\t%.1f\t%.0f\t%d\n",
					item.ID, item.LoggedAt.Local().Format("2006-01-02"), item.Name, item.Style,
					size, item.Count, item.ABV, item.Kcal, item.Rating)
			}
			return nil
		})
	},
}

var beerUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a beer log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("beer id", args[0])
		if err != nil {
			return err
		}
		day, err := parseDayOrNow(beerDate)
		if err != nil {
			return err
		}
		in := buildBeerInput(day)
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			old, err := service.GetLog(sqldb, id)
			if err != nil {
				return err
			}
			if err := service.UpdateBeerLog(sqldb, service.UpdateBeerLogInput{ID: id, BeerLogInput: in}); err != nil {
				return err
			}
			from := day
			if old.LoggedAt.Before(from) {
				from = old.LoggedAt
			}
			if err := recalcFrom(sqldb, p, from); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated beer log %d\n", id)
			return nil
		})
	},
}

var beerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a beer log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("beer id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			old, err := service.GetLog(sqldb, id)
			if err != nil {
				return err
			}
			if err := service.DeleteLog(sqldb, id); err != nil {
				return err
			}
			if err := recalcFrom(sqldb, p, old.LoggedAt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted beer log %d\n", id)
			return nil
		})
	},
}

var beerStylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List known beer styles and sizes",
	Run: func(cmd *cobra.Command, args []string) {
		styles := energy.StyleKeys()
		sort.Strings(styles)
		fmt.Fprintln(cmd.OutOrStdout(), "Styles: "+strings.Join(styles, ", "))
		sizes := energy.SizeKeys()
		sort.Strings(sizes)
		fmt.Fprintln(cmd.OutOrStdout(), "Sizes:  "+strings.Join(sizes, ", "))
	},
}

func buildBeerInput(day time.Time) service.BeerLogInput {
	return service.BeerLogInput{
		Name:        beerName,
		Style:       beerStyle,
		Size:        beerSize,
		Count:       beerCount,
		ABV:         beerABV,
		Brewery:     beerBrewery,
		Brand:       beerBrand,
		Rating:      beerRating,
		Memo:        beerMemo,
		IsCustom:    beerCustom,
		CustomType:  beerCustomType,
		RawAmountML: beerAmountML,
		Day:         day,
	}
}

func init() {
	rootCmd.AddCommand(beerCmd)
	beerCmd.AddCommand(beerAddCmd, beerListCmd, beerUpdateCmd, beerDeleteCmd, beerStylesCmd)

	for _, c := range []*cobra.Command{beerAddCmd, beerUpdateCmd} {
		c.Flags().StringVar(&beerName, "name", "", "Beer name")
		c.Flags().StringVar(&beerStyle, "style", "", "Beer style (lager, ipa, stout, ...)")
		c.Flags().StringVar(&beerSize, "size", "can350", "Volume class (can350, can500, pint, ...)")
		c.Flags().IntVar(&beerCount, "count", 1, "Number of servings")
		c.Flags().Float64Var(&beerABV, "abv", 5.0, "Alcohol by volume in percent")
		c.Flags().StringVar(&beerBrewery, "brewery", "", "Brewery name")
		c.Flags().StringVar(&beerBrand, "brand", "", "Brand name")
		c.Flags().IntVar(&beerRating, "rating", 0, "Rating 1-5 (0 = unrated)")
		c.Flags().StringVar(&beerMemo, "memo", "", "Optional memo")
		c.Flags().StringVar(&beerDate, "date", "", "Date YYYY-MM-DD (default today)")
		c.Flags().BoolVar(&beerCustom, "custom", false, "Free-form drink instead of a beer size class")
		c.Flags().StringVar(&beerCustomType, "custom-type", "fermented", "Custom drink type: dry or fermented")
		c.Flags().Float64Var(&beerAmountML, "amount-ml", 0, "Amount in ml (required with --custom)")
	}
	beerAddCmd.Flags().BoolVar(&beerShare, "share", false, "Print a share text after logging")

	beerListCmd.Flags().StringVar(&beerListDate, "date", "", "Filter by date YYYY-MM-DD")
	beerListCmd.Flags().StringVar(&beerFromDate, "from", "", "Filter from date YYYY-MM-DD")
	beerListCmd.Flags().StringVar(&beerToDate, "to", "", "Filter to date YYYY-MM-DD")
	beerListCmd.Flags().IntVar(&beerLimit, "limit", 50, "Result limit")
}
