package nomutore

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/service"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Manage exercise logs",
}

var (
	exerciseKey     string
	exerciseMinutes float64
	exerciseMemo    string
	exerciseDate    string
)

var exerciseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an exercise log",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayOrNow(exerciseDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			id, err := service.SaveExerciseLog(sqldb, p, service.ExerciseLogInput{
				ExerciseKey: exerciseKey,
				Minutes:     exerciseMinutes,
				Memo:        exerciseMemo,
				Day:         day,
			})
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
			fmt.Fprintf(cmd.OutOrStdout(), "Added exercise log %d (+%.0f kcal)\n", id, l.Kcal)
			return nil
		})
	},
}

var (
	exerciseListDate string
	exerciseFromDate string
	exerciseToDate   string
	exerciseLimit    int
)

var exerciseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exercise logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListLogsFilter{
			Date:     exerciseListDate,
			FromDate: exerciseFromDate,
			ToDate:   exerciseToDate,
			Type:     "exercise",
			Limit:    exerciseLimit,
		}
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListLogs(sqldb, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tTYPE\tMIN\tKCAL\tMEMO")
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.0f\t%.0f\t%s\n",
					item.ID, item.LoggedAt.Local().Format("2006-01-02"), item.ExerciseKey,
					item.Minutes, item.Kcal, item.Memo)
			}
			return nil
		})
	},
}

var exerciseUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an exercise log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("exercise id", args[0])
		if err != nil {
			return err
		}
		day, err := parseDayOrNow(exerciseDate)
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
			err = service.UpdateExerciseLog(sqldb, p, service.UpdateExerciseLogInput{
				ID: id,
				ExerciseLogInput: service.ExerciseLogInput{
					ExerciseKey: exerciseKey,
					Minutes:     exerciseMinutes,
					Memo:        exerciseMemo,
					Day:         day,
				},
			})
			if err != nil {
				return err
			}
			from := day
			if old.LoggedAt.Before(from) {
				from = old.LoggedAt
			}
			if err := recalcFrom(sqldb, p, from); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated exercise log %d\n", id)
			return nil
		})
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an exercise log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("exercise id", args[0])
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
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted exercise log %d\n", id)
			return nil
		})
	},
}

var exerciseTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List known exercise types and their intensity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			keys := energy.ExerciseKeys()
			sort.Strings(keys)

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow("TYPE", "METS", "KCAL/30MIN")
			for _, key := range keys {
				mets := energy.METsFor(key)
				tbl.AddRow(key, fmt.Sprintf("%.1f", mets), fmt.Sprintf("%.0f", energy.ExerciseBurn(mets, 30, p)))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exerciseCmd)
	exerciseCmd.AddCommand(exerciseAddCmd, exerciseListCmd, exerciseUpdateCmd, exerciseDeleteCmd, exerciseTypesCmd)

	for _, c := range []*cobra.Command{exerciseAddCmd, exerciseUpdateCmd} {
		c.Flags().StringVar(&exerciseKey, "type", "", "Exercise type (running, cycling, hiit, ...)")
		c.Flags().Float64Var(&exerciseMinutes, "minutes", 0, "Duration in minutes")
		c.Flags().StringVar(&exerciseMemo, "memo", "", "Optional memo")
		c.Flags().StringVar(&exerciseDate, "date", "", "Date YYYY-MM-DD (default today)")
		_ = c.MarkFlagRequired("type")
		_ = c.MarkFlagRequired("minutes")
	}

	exerciseListCmd.Flags().StringVar(&exerciseListDate, "date", "", "Filter by date YYYY-MM-DD")
	exerciseListCmd.Flags().StringVar(&exerciseFromDate, "from", "", "Filter from date YYYY-MM-DD")
	exerciseListCmd.Flags().StringVar(&exerciseToDate, "to", "", "Filter to date YYYY-MM-DD")
	exerciseListCmd.Flags().IntVar(&exerciseLimit, "limit", 50, "Result limit")
}
