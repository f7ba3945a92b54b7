package nomutore

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ciquab/nomutore/internal/service"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage database file backups",
}

var backupDir string

func resolveBackupDir() (string, error) {
	if backupDir != "" {
		return backupDir, nil
	}
	path, err := resolveDBPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), "backups"), nil
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a checksummed copy of the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		dir, err := resolveBackupDir()
		if err != nil {
			return err
		}
		dest, err := service.CreateBackup(path, dir, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created backup %s\n", dest)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveBackupDir()
		if err != nil {
			return err
		}
		backups, err := service.ListBackups(dir)
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No backups found.")
			return nil
		}
		for _, b := range backups {
			state := "ok"
			if !b.Verified {
				state = "CORRUPT"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\t%s\t%s\n",
				b.Path, b.SizeBytes, b.ModTime.Format("2006-01-02 15:04"), state)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Restore the database from a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := service.RestoreBackup(args[0], path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored database from %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)
	backupCmd.PersistentFlags().StringVar(&backupDir, "dir", "", "Backup directory (default <db dir>/backups)")
}
