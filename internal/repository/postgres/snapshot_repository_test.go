package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real database when STOCK_ANALYTICS_TEST_DSN is set.
func TestSnapshotRepository_Integration(t *testing.T) {
	dsn := os.Getenv("STOCK_ANALYTICS_TEST_DSN")
	if dsn == "" {
		t.Skip("STOCK_ANALYTICS_TEST_DSN not set")
	}

	raw, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	defer raw.Close()
	// temp tables are per connection
	raw.SetMaxOpenConns(1)

	ctx := context.Background()
	_, err = raw.ExecContext(ctx, `
		CREATE TEMP TABLE stock_snapshots (
			month TEXT PRIMARY KEY,
			period DATE,
			products JSONB,
			total_stock DOUBLE PRECISION
		)`)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `
		INSERT INTO stock_snapshots (month, period, products, total_stock) VALUES
		('2024-01', '2024-01-01', '[{"productId":"A","productName":"Alpha","stockStatus":100}]', 100),
		('2024-02', NULL, '{"not":"a list"}', 0),
		('2024-03', '2024-03-01', NULL, 0)`)
	require.NoError(t, err)

	repo := NewSnapshotRepository(Wrap(raw, 1))

	snapshots, err := repo.ListSnapshots(ctx, domain.SnapshotFilter{})
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Len(t, snapshots[0].Products, 1)
	assert.False(t, snapshots[0].Period.IsZero())
	assert.Empty(t, snapshots[1].Products)
	assert.True(t, snapshots[1].Period.IsZero())
	assert.Empty(t, snapshots[2].Products)

	latest, err := repo.ListSnapshots(ctx, domain.SnapshotFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "2024-03", latest[0].Month)
}
