// Package analytics turns a series of monthly stock snapshots into per-product
// sales, leftover and runway figures.
package analytics

import "github.com/andresuchdata/stock-analytics/internal/domain"

// ComputeStockAnalytics consolidates snapshots, orders them chronologically and
// analyzes every product. It has no side effects; an empty input yields an
// empty, non-nil result.
func ComputeStockAnalytics(snapshots []domain.Snapshot, opts Options) []domain.ProductAnalytics {
	if len(snapshots) == 0 {
		return []domain.ProductAnalytics{}
	}

	records := Consolidate(snapshots)
	months := Timeline(snapshots)

	return NewAnalyzer(opts).Analyze(records, months)
}
