package nomutore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ciquab/nomutore/internal/service"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Manage daily condition checks",
}

var (
	checkDate   string
	checkDry    bool
	checkNotDry bool
	checkWaist  bool
	checkFoot   bool
	checkWater  bool
	checkFiber  bool
	checkWeight float64
	checkExtras []string
)

var checkSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Record today's check-in",
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkDry && checkNotDry {
			return fmt.Errorf("--dry and --not-dry are mutually exclusive")
		}
		day, err := parseDayOrNow(checkDate)
		if err != nil {
			return err
		}

		in := service.CheckInput{
			Day:           day,
			WaistEase:     checkWaist,
			FootLightness: checkFoot,
			WaterOk:       checkWater,
			FiberOk:       checkFiber,
		}
		if checkDry {
			v := true
			in.IsDryDay = &v
		}
		if checkNotDry {
			v := false
			in.IsDryDay = &v
		}
		if cmd.Flags().Changed("weight") {
			v := checkWeight
			in.WeightKg = &v
		}
		if len(checkExtras) > 0 {
			in.ExtraItems = map[string]bool{}
			for _, id := range checkExtras {
				in.ExtraItems[strings.TrimSpace(id)] = true
			}
		}

		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			if _, err := service.UpsertCheck(sqldb, in); err != nil {
				return err
			}
			// The dry answer feeds the streak, which feeds exercise bonuses.
			if err := recalcFrom(sqldb, p, day); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded check for %s\n", day.Format("2006-01-02"))
			return nil
		})
	},
}

var checkShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a day's check-in",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayOrNow(checkDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			c, err := service.GetCheckForDay(sqldb, day)
			if err != nil {
				return err
			}
			if c == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No check recorded for %s\n", day.Format("2006-01-02"))
				return nil
			}
			dry := "unanswered"
			if c.IsDryDay != nil {
				if *c.IsDryDay {
					dry = "dry"
				} else {
					dry = "drinking"
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", day.Format("2006-01-02"), dry)
			fmt.Fprintf(cmd.OutOrStdout(), "  waist ease: %t  foot lightness: %t  water: %t  fiber: %t\n",
				c.WaistEase, c.FootLightness, c.WaterOk, c.FiberOk)
			if c.WeightKg != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "  weight: %.1f kg\n", *c.WeightKg)
			}
			for id, done := range c.ExtraItems {
				if done {
					fmt.Fprintf(cmd.OutOrStdout(), "  extra: %s\n", id)
				}
			}
			return nil
		})
	},
}

var checkItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List configurable extra check items",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			schema, err := service.LoadCheckItems(sqldb)
			if err != nil {
				return err
			}
			for _, item := range schema.Items {
				icon := item.Icon
				if icon == "" {
					icon = "•"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\n", icon, item.ID, item.Label)
			}
			return nil
		})
	},
}

var checkItemsSetCmd = &cobra.Command{
	Use:   "set-items <json>",
	Short: "Replace the extra check items (JSON array of {id,label,icon})",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var items []service.CheckItemDef
		if err := json.Unmarshal([]byte(args[0]), &items); err != nil {
			return fmt.Errorf("invalid items JSON: %w", err)
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SaveCheckItems(sqldb, items); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d check items\n", len(items))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.AddCommand(checkSetCmd, checkShowCmd, checkItemsCmd, checkItemsSetCmd)

	checkSetCmd.Flags().StringVar(&checkDate, "date", "", "Date YYYY-MM-DD (default today)")
	checkSetCmd.Flags().BoolVar(&checkDry, "dry", false, "Mark the day as alcohol free")
	checkSetCmd.Flags().BoolVar(&checkNotDry, "not-dry", false, "Mark the day as a drinking day")
	checkSetCmd.Flags().BoolVar(&checkWaist, "waist", false, "Waist feels loose")
	checkSetCmd.Flags().BoolVar(&checkFoot, "foot", false, "Light on the feet")
	checkSetCmd.Flags().BoolVar(&checkWater, "water", false, "Drank enough water")
	checkSetCmd.Flags().BoolVar(&checkFiber, "fiber", false, "Ate enough fiber")
	checkSetCmd.Flags().Float64Var(&checkWeight, "weight", 0, "Body weight in kg")
	checkSetCmd.Flags().StringSliceVar(&checkExtras, "extra", nil, "Extra item ids to mark done")

	checkShowCmd.Flags().StringVar(&checkDate, "date", "", "Date YYYY-MM-DD (default today)")
}
