package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/andresuchdata/stock-analytics/internal/analytics"
	"github.com/andresuchdata/stock-analytics/internal/cache"
	"github.com/andresuchdata/stock-analytics/internal/config"
	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/andresuchdata/stock-analytics/internal/export"
	"github.com/andresuchdata/stock-analytics/internal/ingest"
	"github.com/andresuchdata/stock-analytics/internal/repository"
	"github.com/andresuchdata/stock-analytics/internal/service"
	"github.com/andresuchdata/stock-analytics/internal/source"
	"github.com/andresuchdata/stock-analytics/internal/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func filterFromFlags(c *cli.Context) domain.SnapshotFilter {
	return domain.SnapshotFilter{
		FromMonth: c.String("from"),
		ToMonth:   c.String("to"),
		Months:    c.StringSlice("month"),
		Limit:     c.Int("limit"),
	}
}

// computeFromFlags runs the same service the HTTP API uses, without a cache.
func computeFromFlags(c *cli.Context, cfg *config.Config) ([]domain.ProductAnalytics, error) {
	repo, closeSource, err := source.Open(c.String("source"), cfg, source.Options{
		Dir:    c.String("dir"),
		Prefix: c.String("prefix"),
	})
	if err != nil {
		return nil, err
	}
	defer closeSource()

	svc := service.NewStockAnalyticsService(repo, nil, analytics.Options{
		Workers:      cfg.Analytics.Workers,
		NameFallback: cfg.Analytics.NameFallback,
	})
	return svc.Compute(c.Context, filterFromFlags(c))
}

func runCompute(c *cli.Context, cfg *config.Config) error {
	results, err := computeFromFlags(c, cfg)
	if err != nil {
		return err
	}

	format := c.String("format")
	err = writeOutput(c.String("out"), func(w io.Writer) error {
		return writeResults(w, format, results)
	})
	if err != nil {
		return err
	}

	log.Info().Int("products", len(results)).Str("format", format).Msg("stock analytics written")
	return nil
}

var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeOutput runs write against path, or stdout when path is empty. A failed
// close is reported since buffered data may not have reached the file.
func writeOutput(path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(os.Stdout)
	}

	f, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return write(f)
}

func writeResults(out io.Writer, format string, results []domain.ProductAnalytics) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		return nil
	case "xlsx":
		return export.WriteXLSX(out, results)
	default:
		return fmt.Errorf("unknown format %q (want json or xlsx)", format)
	}
}

func runSeed(c *cli.Context, cfg *config.Config) error {
	dbURL := c.String("db-url")
	if dbURL == "" {
		dbURL = cfg.Database.DSN()
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	repo := repository.NewIngestRepository(db)
	if err := repo.EnsureSchema(c.Context); err != nil {
		return err
	}

	snapshots, err := ingest.NewDirSource(c.String("dir")).ListSnapshots(c.Context, domain.SnapshotFilter{})
	if err != nil {
		return err
	}

	if err := seedSnapshots(c.Context, repo, snapshots); err != nil {
		return err
	}

	// cached reads would otherwise hide the new months until they expire
	snapshotCache, err := cache.NewSnapshotCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("seed: snapshot cache unavailable, skipping invalidation")
		return nil
	}
	if err := snapshotCache.InvalidateAll(c.Context); err != nil {
		log.Warn().Err(err).Msg("seed: snapshot cache invalidation failed")
	}
	return nil
}

func seedSnapshots(ctx context.Context, w repository.SnapshotWriter, snapshots []domain.Snapshot) error {
	for _, snap := range snapshots {
		start := time.Now()
		if err := w.UpsertSnapshot(ctx, snap); err != nil {
			return err
		}
		log.Info().
			Str("month", snap.Month).
			Int("rows", len(snap.Products)).
			Dur("elapsed", time.Since(start)).
			Msg("seeded snapshot")
	}
	log.Info().Int("snapshots", len(snapshots)).Msg("seed complete")
	return nil
}

func runExport(c *cli.Context, cfg *config.Config) error {
	results, err := computeFromFlags(c, cfg)
	if err != nil {
		return err
	}

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}

	return uploadReport(c.Context, client, reportKey(c.String("key"), time.Now()), results)
}

func reportKey(key string, now time.Time) string {
	if key != "" {
		return key
	}
	return fmt.Sprintf("reports/stock_analytics_%s.xlsx", now.Format("20060102_150405"))
}

func uploadReport(ctx context.Context, store storage.ObjectStorage, key string, results []domain.ProductAnalytics) error {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, results); err != nil {
		return err
	}
	if err := store.UploadObject(ctx, key, buf.Bytes(), export.ContentType); err != nil {
		return err
	}

	log.Info().Str("key", key).Int("products", len(results)).Msg("stock analytics report uploaded")
	return nil
}
