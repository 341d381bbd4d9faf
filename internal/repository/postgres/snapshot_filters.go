package postgres

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/lib/pq"
)

// buildSnapshotFilterClause constructs the WHERE conditions for a snapshot filter.
// Limit is handled by the caller.
func buildSnapshotFilterClause(filter domain.SnapshotFilter, startIndex int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	idx := startIndex

	if filter.FromMonth != "" {
		clauses = append(clauses, fmt.Sprintf("month >= $%d", idx))
		args = append(args, filter.FromMonth)
		idx++
	}

	if filter.ToMonth != "" {
		clauses = append(clauses, fmt.Sprintf("month <= $%d", idx))
		args = append(args, filter.ToMonth)
		idx++
	}

	if len(filter.Months) > 0 {
		clauses = append(clauses, fmt.Sprintf("month = ANY($%d)", idx))
		args = append(args, pq.Array(filter.Months))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}
