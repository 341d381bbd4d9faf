package ingest

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// filename prefixes accepted as a month, longest layout first
var monthLayouts = []string{"2006-01", "200601"}

// MonthFromFilename extracts the month a snapshot file belongs to from its
// name, e.g. "2024-01_stock.csv" or "20240131.csv". It returns the canonical
// "YYYY-MM" identifier and the first day of that month.
func MonthFromFilename(name string) (string, time.Time, error) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	for _, layout := range monthLayouts {
		if len(base) < len(layout) {
			continue
		}
		t, err := time.Parse(layout, base[:len(layout)])
		if err != nil {
			continue
		}
		period := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return period.Format("2006-01"), period, nil
	}

	return "", time.Time{}, fmt.Errorf("filename %s does not start with a month (YYYY-MM or YYYYMM)", name)
}

// IsSnapshotFile reports whether name looks like a snapshot export (CSV or XLSX).
func IsSnapshotFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".csv" || ext == ".xlsx"
}
