package repository

import (
	"context"

	"github.com/andresuchdata/stock-analytics/internal/domain"
)

// SnapshotRepository is the read side of a monthly snapshot store.
type SnapshotRepository interface {
	ListSnapshots(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Snapshot, error)
}

// SnapshotWriter stores snapshots, one per month.
type SnapshotWriter interface {
	UpsertSnapshot(ctx context.Context, snapshot domain.Snapshot) error
}
