package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stock-analytics/internal/domain"
)

const snapshotSchema = `
	CREATE TABLE IF NOT EXISTS stock_snapshots (
		month       TEXT PRIMARY KEY,
		period      DATE,
		products    JSONB NOT NULL DEFAULT '[]'::jsonb,
		total_stock DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// IngestRepository writes snapshots through a plain database/sql handle so it
// works with any registered postgres driver.
type IngestRepository struct {
	db *sql.DB
}

func NewIngestRepository(db *sql.DB) *IngestRepository {
	return &IngestRepository{db: db}
}

// EnsureSchema creates the snapshot table if it does not exist yet.
func (r *IngestRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("failed to create stock_snapshots: %w", err)
	}
	return nil
}

// UpsertSnapshot inserts or replaces the row list of a month.
func (r *IngestRepository) UpsertSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	rows := snapshot.Products
	if rows == nil {
		rows = domain.RawRows{}
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", snapshot.Month, err)
	}

	var total float64
	for _, row := range rows {
		total += row.StockStatus
	}

	var period interface{}
	if !snapshot.Period.IsZero() {
		period = snapshot.Period.Format(time.DateOnly)
	}

	query := `
		INSERT INTO stock_snapshots (month, period, products, total_stock, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (month)
		DO UPDATE SET period = EXCLUDED.period, products = EXCLUDED.products,
			total_stock = EXCLUDED.total_stock, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, snapshot.Month, period, string(payload), total); err != nil {
		return fmt.Errorf("failed to upsert snapshot %s: %w", snapshot.Month, err)
	}
	return nil
}

var _ SnapshotWriter = (*IngestRepository)(nil)
