package domain

import (
	"fmt"
	"sort"
)

// Validate reports whether the filter's month range is usable.
func (f SnapshotFilter) Validate() error {
	if f.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidFilter)
	}
	if f.FromMonth != "" && f.ToMonth != "" && f.FromMonth > f.ToMonth {
		return fmt.Errorf("%w: from %q is after to %q", ErrInvalidFilter, f.FromMonth, f.ToMonth)
	}
	return nil
}

// Matches reports whether a month identifier passes the range and set conditions.
// Limit is not considered.
func (f SnapshotFilter) Matches(month string) bool {
	if f.FromMonth != "" && month < f.FromMonth {
		return false
	}
	if f.ToMonth != "" && month > f.ToMonth {
		return false
	}
	if len(f.Months) == 0 {
		return true
	}
	for _, m := range f.Months {
		if m == month {
			return true
		}
	}
	return false
}

// Apply filters snapshots in memory the same way the database store does:
// range and set conditions first, then Limit keeps the most recent months.
// The result is ordered by month.
func (f SnapshotFilter) Apply(snapshots []Snapshot) []Snapshot {
	out := make([]Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if f.Matches(s.Month) {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Month < out[j].Month })

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}
