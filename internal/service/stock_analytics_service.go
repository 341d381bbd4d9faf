package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stock-analytics/internal/analytics"
	"github.com/andresuchdata/stock-analytics/internal/cache"
	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/andresuchdata/stock-analytics/internal/metrics"
	"github.com/andresuchdata/stock-analytics/internal/repository"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type StockAnalyticsService struct {
	repo  repository.SnapshotRepository
	cache cache.SnapshotCache
	opts  analytics.Options
}

func NewStockAnalyticsService(repo repository.SnapshotRepository, cacheImpl cache.SnapshotCache, opts analytics.Options) *StockAnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSnapshotCache()
	}
	return &StockAnalyticsService{repo: repo, cache: cacheImpl, opts: opts}
}

// Compute fetches the snapshots matching filter once and derives per-product
// analytics from them. Any failure to fetch is logged and reported as
// domain.ErrAnalysisFailure; no partial result is ever returned.
func (s *StockAnalyticsService) Compute(ctx context.Context, filter domain.SnapshotFilter) ([]domain.ProductAnalytics, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	ctx, span := metrics.StartSpan(ctx, "StockAnalyticsService.Compute")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.AnalyticsRunDuration.Observe(time.Since(start).Seconds())
	}()

	snapshots, err := s.fetch(ctx, filter)
	if err != nil {
		log.Error().
			Stack().
			Err(pkgerrors.WithStack(err)).
			Str("from", filter.FromMonth).
			Str("to", filter.ToMonth).
			Strs("months", filter.Months).
			Int("limit", filter.Limit).
			Msg("stock analytics: failed to fetch snapshots")
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot fetch failed")
		metrics.AnalyticsRunsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, domain.ErrAnalysisFailure
	}

	metrics.SnapshotsLoaded.Observe(float64(len(snapshots)))
	span.SetAttributes(attribute.Int("snapshots", len(snapshots)))

	if len(snapshots) == 0 {
		metrics.AnalyticsRunsTotal.WithLabelValues(metrics.ResultEmpty).Inc()
		return []domain.ProductAnalytics{}, nil
	}

	results := analytics.ComputeStockAnalytics(snapshots, s.opts)

	span.SetAttributes(attribute.Int("products", len(results)))
	metrics.ProductsComputed.Add(float64(len(results)))
	metrics.AnalyticsRunsTotal.WithLabelValues(metrics.ResultSuccess).Inc()

	log.Debug().
		Int("snapshots", len(snapshots)).
		Int("products", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("stock analytics computed")

	return results, nil
}

// Query runs Compute and then applies the availability filter and ordering of q.
func (s *StockAnalyticsService) Query(ctx context.Context, q domain.AnalyticsQuery) ([]domain.ProductAnalytics, error) {
	var availability domain.Availability
	if q.Availability != "" {
		a, ok := domain.ParseAvailability(q.Availability)
		if !ok {
			return nil, fmt.Errorf("%w: unknown availability %q", domain.ErrInvalidFilter, q.Availability)
		}
		availability = a
	}

	less, err := comparatorFor(q.SortField, q.SortDir)
	if err != nil {
		return nil, err
	}

	results, err := s.Compute(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	if availability != "" {
		filtered := results[:0]
		for _, r := range results {
			if r.Availability == availability {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	if less != nil {
		sortAnalytics(results, less)
	}

	return results, nil
}

// fetch reads snapshots through the cache. Cache failures never fail a run.
func (s *StockAnalyticsService) fetch(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Snapshot, error) {
	if snapshots, ok, err := s.cache.GetSnapshots(ctx, filter); err == nil && ok {
		metrics.SnapshotCacheTotal.WithLabelValues("hit").Inc()
		return snapshots, nil
	} else if err != nil {
		metrics.SnapshotCacheTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Msg("stock analytics: cache get snapshots failed")
	} else {
		metrics.SnapshotCacheTotal.WithLabelValues("miss").Inc()
	}

	snapshots, err := s.repo.ListSnapshots(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(snapshots) > 0 {
		if err := s.cache.SetSnapshots(ctx, filter, snapshots); err != nil {
			log.Warn().Err(err).Msg("stock analytics: cache set snapshots failed")
		}
	}

	return snapshots, nil
}
