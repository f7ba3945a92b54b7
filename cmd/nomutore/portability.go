package nomutore

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ciquab/nomutore/internal/service"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data as JSON or CSV",
}

var exportOut string

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export a full JSON backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			data, err := service.ExportBackupJSON(sqldb, time.Now())
			if err != nil {
				return err
			}
			if exportOut == "" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(exportOut, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", exportOut, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported backup to %s\n", exportOut)
			return nil
		})
	},
}

var exportCSVKind string

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export logs or checks as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			var out io.Writer = cmd.OutOrStdout()
			var closeFn func() error
			if exportOut != "" {
				f, err := os.Create(exportOut)
				if err != nil {
					return fmt.Errorf("create %s: %w", exportOut, err)
				}
				out = f
				closeFn = f.Close
			}

			var err error
			switch exportCSVKind {
			case "logs":
				err = service.ExportLogsCSV(sqldb, out)
			case "checks":
				err = service.ExportChecksCSV(sqldb, out)
			default:
				err = fmt.Errorf("invalid --kind %q (use logs or checks)", exportCSVKind)
			}
			if closeFn != nil {
				if cerr := closeFn(); err == nil {
					err = cerr
				}
			}
			if err == nil && exportOut != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", exportCSVKind, exportOut)
			}
			return err
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <backup.json>",
	Short: "Import a JSON backup",
	Long: "Merge a JSON backup into the database. Existing records win: logs and\n" +
		"checks already present (matched by timestamp) are skipped.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.LoadProfile(sqldb)
			if err != nil {
				return err
			}
			report, err := service.ImportBackup(sqldb, p, data)
			if err != nil {
				return err
			}
			if err := recalcFrom(sqldb, p, time.Now().AddDate(0, 0, -30)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Imported %d logs (%d skipped), %d checks (%d skipped), %d archives, %d settings\n",
				report.LogsAdded, report.LogsSkipped, report.ChecksAdded, report.ChecksSkipped,
				report.ArchivesAdded, report.SettingsApplied)
			if report.KcalBackfilled > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Recomputed kcal for %d legacy records\n", report.KcalBackfilled)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.AddCommand(exportJSONCmd, exportCSVCmd)

	exportCmd.PersistentFlags().StringVar(&exportOut, "out", "", "Output file (default stdout)")
	exportCSVCmd.Flags().StringVar(&exportCSVKind, "kind", "logs", "What to export: logs or checks")
}
