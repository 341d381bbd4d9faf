package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/rs/zerolog/log"
)

// DirSource serves snapshots from a directory holding one CSV or XLSX export per month.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// ListSnapshots reads every snapshot CSV in the directory that passes filter.
// Files whose name carries no month are skipped with a warning. If two files map
// to the same month the one that sorts last wins.
func (s *DirSource) ListSnapshots(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsSnapshotFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	byMonth := make(map[string]domain.Snapshot, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		month, period, err := MonthFromFilename(name)
		if err != nil {
			log.Warn().Str("file", name).Msg("skipping snapshot file without month prefix")
			continue
		}
		if !filter.Matches(month) {
			continue
		}

		snap, err := s.readFile(filepath.Join(s.dir, name), month)
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

	log.Debug().Str("dir", s.dir).Int("snapshots", len(snapshots)).Msg("loaded snapshots from directory")
	return filter.Apply(snapshots), nil
}

func (s *DirSource) readFile(path, month string) (domain.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	snap, err := ReadSnapshot(f, path, month)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return snap, nil
}
