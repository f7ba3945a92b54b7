package nomutore

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
	"github.com/ciquab/nomutore/internal/service"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the body profile used for energy formulas",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile and derived rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Weight: %.1f kg\n", p.WeightKg)
			fmt.Fprintf(out, "Height: %.1f cm\n", p.HeightCm)
			fmt.Fprintf(out, "Age:    %d\n", p.AgeYears)
			fmt.Fprintf(out, "Gender: %s\n", p.Gender)
			fmt.Fprintf(out, "BMR:    %.0f kcal/day\n", energy.BMR(p))
			return nil
		})
	},
}

var (
	profileWeight float64
	profileHeight float64
	profileAge    int
	profileGender string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the body profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("weight") {
				p.WeightKg = profileWeight
			}
			if cmd.Flags().Changed("height") {
				p.HeightCm = profileHeight
			}
			if cmd.Flags().Changed("age") {
				p.AgeYears = profileAge
			}
			if cmd.Flags().Changed("gender") {
				p.Gender = model.Gender(profileGender)
			}
			if err := service.SaveProfile(sqldb, p); err != nil {
				return err
			}
			// Burn rates changed, so every stored exercise credit is stale.
			saved, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			logs, err := service.ListLogs(sqldb, service.ListLogsFilter{Ascending: true, Limit: 1})
			if err != nil {
				return err
			}
			if len(logs) > 0 {
				if err := recalcFrom(sqldb, saved, logs[0].LoggedAt); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated")
			return nil
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write raw configuration values",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			value, ok, err := service.GetConfig(sqldb, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("config key %q is not set", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		})
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetConfig(sqldb, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
			return nil
		})
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			all, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, all[k])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd, configCmd)
	profileCmd.AddCommand(profileShowCmd, profileSetCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd, configListCmd)

	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Weight in kg")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "Height in cm")
	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profileSetCmd.Flags().StringVar(&profileGender, "gender", "", "Gender: male or female")
}
