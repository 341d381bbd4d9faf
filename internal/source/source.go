// Package source selects where monthly snapshots are read from.
package source

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/stock-analytics/internal/config"
	"github.com/andresuchdata/stock-analytics/internal/ingest"
	"github.com/andresuchdata/stock-analytics/internal/repository"
	"github.com/andresuchdata/stock-analytics/internal/repository/postgres"
	"github.com/andresuchdata/stock-analytics/internal/storage"
)

const (
	KindDB  = "db"
	KindDir = "dir"
	KindS3  = "s3"
)

// Options overrides the configured location of file based sources.
type Options struct {
	Dir    string
	Prefix string
}

// Open returns the snapshot repository for kind along with a function that
// releases whatever it holds.
func Open(kind string, cfg *config.Config, opts Options) (repository.SnapshotRepository, func(), error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindDB:
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewSnapshotRepository(db), func() { _ = db.Close() }, nil

	case KindDir:
		dir := opts.Dir
		if dir == "" {
			dir = cfg.Analytics.DataDir
		}
		return ingest.NewDirSource(dir), func() {}, nil

	case KindS3:
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		prefix := opts.Prefix
		if prefix == "" {
			prefix = cfg.Storage.Prefix
		}
		return storage.NewSnapshotSource(client, prefix), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown snapshot source %q (want db, dir or s3)", kind)
	}
}
