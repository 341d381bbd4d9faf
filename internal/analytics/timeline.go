package analytics

import (
	"sort"
	"time"

	"github.com/andresuchdata/stock-analytics/internal/domain"
)

// Timeline returns the distinct month identifiers of snapshots in chronological order.
//
// When every month's surviving snapshot carries a Period the months are ordered by it, ties broken
// by identifier. Otherwise identifiers are sorted lexicographically, which assumes
// they are formatted so that string order equals calendar order (e.g. "2024-01").
func Timeline(snapshots []domain.Snapshot) []string {
	// later snapshots replace earlier ones for the same month, as in Consolidate
	periods := make(map[string]time.Time, len(snapshots))
	for _, snap := range snapshots {
		periods[snap.Month] = snap.Period
	}

	explicit := len(periods) > 0
	for _, p := range periods {
		if p.IsZero() {
			explicit = false
			break
		}
	}

	months := make([]string, 0, len(periods))
	for m := range periods {
		months = append(months, m)
	}

	if !explicit {
		sort.Strings(months)
		return months
	}

	sort.Slice(months, func(i, j int) bool {
		pi, pj := periods[months[i]], periods[months[j]]
		if !pi.Equal(pj) {
			return pi.Before(pj)
		}
		return months[i] < months[j]
	})
	return months
}

// SortMonths returns the month keys of records in lexicographic order.
func SortMonths(records MonthlyRecords) []string {
	months := make([]string, 0, len(records))
	for m := range records {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// completeTimeline appends, in lexicographic order, any month of records that
// the given timeline misses, and drops timeline entries with no records.
func completeTimeline(records MonthlyRecords, months []string) []string {
	if len(months) == 0 {
		return SortMonths(records)
	}

	seen := make(map[string]struct{}, len(months))
	out := make([]string, 0, len(records))
	for _, m := range months {
		if _, ok := records[m]; !ok {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}

	if len(out) == len(records) {
		return out
	}

	var missing []string
	for m := range records {
		if _, ok := seen[m]; !ok {
			missing = append(missing, m)
		}
	}
	sort.Strings(missing)
	return append(out, missing...)
}
