package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/andresuchdata/stock-analytics/internal/repository"
	"github.com/rs/zerolog/log"
)

// snapshotRow only maps the columns the analytics need; summary columns such
// as total_stock are never selected.
type snapshotRow struct {
	Month    string         `db:"month"`
	Period   sql.NullTime   `db:"period"`
	Products domain.RawRows `db:"products"`
}

type snapshotRepository struct {
	db *DB
}

func NewSnapshotRepository(db *DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) ListSnapshots(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Snapshot, error) {
	whereClause, args := buildSnapshotFilterClause(filter, 1)

	query := fmt.Sprintf(`
		SELECT month, period, products
		FROM stock_snapshots
		%s
		ORDER BY month
	`, whereClause)

	if filter.Limit > 0 {
		// keep the most recent months, still returned in ascending order
		query = fmt.Sprintf(`
			SELECT month, period, products FROM (
				SELECT month, period, products
				FROM stock_snapshots
				%s
				ORDER BY month DESC
				LIMIT $%d
			) latest
			ORDER BY month
		`, whereClause, len(args)+1)
		args = append(args, filter.Limit)
	}

	var rows []snapshotRow
	err := r.db.WithConn(ctx, func() error {
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("error listing stock snapshots: %w", err)
	}

	snapshots := make([]domain.Snapshot, 0, len(rows))
	for _, row := range rows {
		snap := domain.Snapshot{Month: row.Month, Products: row.Products}
		if snap.Products == nil {
			snap.Products = domain.RawRows{}
		}
		if row.Period.Valid {
			snap.Period = row.Period.Time
		}
		snapshots = append(snapshots, snap)
	}

	log.Debug().Int("snapshots", len(snapshots)).Msg("loaded stock snapshots")
	return snapshots, nil
}
