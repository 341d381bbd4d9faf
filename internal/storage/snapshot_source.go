package storage

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/andresuchdata/stock-analytics/internal/ingest"
	"github.com/rs/zerolog/log"
)

// SnapshotSource reads monthly snapshot exports stored under a bucket prefix.
type SnapshotSource struct {
	store  ObjectStorage
	prefix string
}

func NewSnapshotSource(store ObjectStorage, prefix string) *SnapshotSource {
	return &SnapshotSource{store: store, prefix: prefix}
}

func (s *SnapshotSource) ListSnapshots(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Snapshot, error) {
	objects, err := s.store.ListObjects(ctx, s.prefix)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		if ingest.IsSnapshotFile(obj.Key) {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)

	byMonth := make(map[string]domain.Snapshot, len(keys))
	for _, key := range keys {
		month, period, err := ingest.MonthFromFilename(path.Base(key))
		if err != nil {
			log.Warn().Str("key", key).Msg("skipping snapshot object without month prefix")
			continue
		}
		if !filter.Matches(month) {
			continue
		}

		snap, err := s.readObject(ctx, key, month)
		if err != nil {
			return nil, err
		}
		snap.Period = period
		byMonth[month] = snap
	}

	snapshots := make([]domain.Snapshot, 0, len(byMonth))
	for _, snap := range byMonth {
		snapshots = append(snapshots, snap)
	}

	log.Debug().Str("prefix", s.prefix).Int("snapshots", len(snapshots)).Msg("loaded snapshots from object storage")
	return filter.Apply(snapshots), nil
}

func (s *SnapshotSource) readObject(ctx context.Context, key, month string) (domain.Snapshot, error) {
	body, err := s.store.GetObject(ctx, key)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer body.Close()

	snap, err := ingest.ReadSnapshot(body, key, month)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse %s: %w", key, err)
	}
	return snap, nil
}
