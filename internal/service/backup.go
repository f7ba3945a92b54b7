package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupTimeLayout = "20060102-150405"

// CreateBackup copies the database file into dir with a timestamped
// name and writes a sha256 sidecar next to it. Returns the backup path.
func CreateBackup(dbPath, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := fmt.Sprintf("nomutore-%s.db", now.Format(backupTimeLayout))
	dest := filepath.Join(dir, name)

	sum, err := copyWithChecksum(dbPath, dest)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dest+".sha256", []byte(sum+"  "+name+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write checksum sidecar: %w", err)
	}
	return dest, nil
}

type BackupInfo struct {
	Path      string
	SizeBytes int64
	ModTime   time.Time
	Verified  bool
}

// ListBackups enumerates backups in dir, newest first. Verified is true
// when the sidecar checksum still matches the file.
func ListBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	out := make([]BackupInfo, 0)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".db") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, e.Name())
		out = append(out, BackupInfo{
			Path:      path,
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
			Verified:  verifyChecksum(path) == nil,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
	return out, nil
}

// RestoreBackup replaces the live database file with the given backup
// after verifying its checksum. The caller must hold no open handles on
// the database.
func RestoreBackup(backupPath, dbPath string) error {
	if err := verifyChecksum(backupPath); err != nil {
		return err
	}
	if _, err := copyWithChecksum(backupPath, dbPath); err != nil {
		return err
	}
	return nil
}

func copyWithChecksum(src, dest string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		return "", fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Sync(); err != nil {
		return "", fmt.Errorf("sync %s: %w", dest, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func verifyChecksum(path string) error {
	sidecar, err := os.ReadFile(path + ".sha256")
	if err != nil {
		return fmt.Errorf("read checksum sidecar: %w", err)
	}
	want := strings.Fields(string(sidecar))
	if len(want) == 0 {
		return fmt.Errorf("empty checksum sidecar for %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash %s: %w", path, err)
	}
	got := hex.EncodeToString(h.Sum(nil))
	if got != want[0] {
		return fmt.Errorf("checksum mismatch for %s", path)
	}
	return nil
}

type DoctorIssue struct {
	Kind    string
	Detail  string
	Fixable bool
}

type DoctorReport struct {
	Issues []DoctorIssue
	Fixed  int
}

// RunDoctor scans for internal inconsistencies. With fix set it repairs
// what it safely can: sign violations are corrected by flipping the
// stored kcal, drifted archive totals are recomputed.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	var report DoctorReport

	logs, err := loadAllLogs(db)
	if err != nil {
		return report, err
	}
	for _, l := range logs {
		bad := (l.Type == "beer" && l.Kcal > 0) || (l.Type == "exercise" && l.Kcal < 0)
		if !bad {
			continue
		}
		issue := DoctorIssue{
			Kind:    "kcal_sign",
			Detail:  fmt.Sprintf("log %d (%s) has kcal %.1f with the wrong sign", l.ID, l.Type, l.Kcal),
			Fixable: true,
		}
		if fix {
			if _, err := db.Exec(`UPDATE logs SET kcal = -kcal, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, l.ID); err != nil {
				return report, fmt.Errorf("fix kcal sign for log %d: %w", l.ID, err)
			}
			report.Fixed++
		}
		report.Issues = append(report.Issues, issue)
	}

	rows, err := db.Query(`
SELECT date(checked_at), COUNT(1) FROM checks GROUP BY date(checked_at) HAVING COUNT(1) > 1
`)
	if err != nil {
		return report, fmt.Errorf("scan duplicate checks: %w", err)
	}
	type dupe struct {
		day   string
		count int
	}
	dupes := make([]dupe, 0)
	for rows.Next() {
		var d dupe
		if err := rows.Scan(&d.day, &d.count); err != nil {
			rows.Close()
			return report, fmt.Errorf("scan duplicate check row: %w", err)
		}
		dupes = append(dupes, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return report, fmt.Errorf("iterate duplicate checks: %w", err)
	}
	rows.Close()
	for _, d := range dupes {
		issue := DoctorIssue{
			Kind:    "duplicate_check",
			Detail:  fmt.Sprintf("day %s has %d check rows", d.day, d.count),
			Fixable: true,
		}
		if fix {
			// Keep the newest row for the day, drop the rest.
			_, err := db.Exec(`
DELETE FROM checks WHERE date(checked_at) = ? AND id NOT IN (
  SELECT id FROM checks WHERE date(checked_at) = ? ORDER BY updated_at DESC, id DESC LIMIT 1
)`, d.day, d.day)
			if err != nil {
				return report, fmt.Errorf("fix duplicate checks for %s: %w", d.day, err)
			}
			report.Fixed++
		}
		report.Issues = append(report.Issues, issue)
	}

	checkRows, err := db.Query(`SELECT id, extra_items_json FROM checks WHERE extra_items_json != ''`)
	if err != nil {
		return report, fmt.Errorf("scan extra items: %w", err)
	}
	type badExtra struct{ id int64 }
	badExtras := make([]badExtra, 0)
	for checkRows.Next() {
		var id int64
		var raw string
		if err := checkRows.Scan(&id, &raw); err != nil {
			checkRows.Close()
			return report, fmt.Errorf("scan extra items row: %w", err)
		}
		if _, err := decodeExtraItems(raw); err != nil {
			badExtras = append(badExtras, badExtra{id: id})
		}
	}
	if err := checkRows.Err(); err != nil {
		checkRows.Close()
		return report, fmt.Errorf("iterate extra items: %w", err)
	}
	checkRows.Close()
	for _, b := range badExtras {
		issue := DoctorIssue{
			Kind:    "invalid_extra_items",
			Detail:  fmt.Sprintf("check %d carries unparsable extra items", b.id),
			Fixable: true,
		}
		if fix {
			if _, err := db.Exec(`UPDATE checks SET extra_items_json = '', updated_at = CURRENT_TIMESTAMP WHERE id = ?`, b.id); err != nil {
				return report, fmt.Errorf("fix extra items for check %d: %w", b.id, err)
			}
			report.Fixed++
		}
		report.Issues = append(report.Issues, issue)
	}

	archives, err := loadAllArchives(db)
	if err != nil {
		return report, err
	}
	for _, a := range archives {
		want := sumLogsKcal(a.Logs)
		live, err := sumKcalInRange(db, a.StartDate, a.EndDate)
		if err != nil {
			return report, err
		}
		want += live
		if diff := want - a.TotalBalance; diff > kcalEpsilon || diff < -kcalEpsilon {
			issue := DoctorIssue{
				Kind:    "archive_total_drift",
				Detail:  fmt.Sprintf("archive %d stores %.1f kcal but its logs sum to %.1f", a.ID, a.TotalBalance, want),
				Fixable: true,
			}
			if fix {
				if _, err := db.Exec(`UPDATE period_archives SET total_balance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, want, a.ID); err != nil {
					return report, fmt.Errorf("fix archive total %d: %w", a.ID, err)
				}
				report.Fixed++
			}
			report.Issues = append(report.Issues, issue)
		}
	}

	return report, nil
}
