package analytics

import (
	"github.com/andresuchdata/stock-analytics/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Options tunes an Analyzer. The zero value is the reference behaviour.
type Options struct {
	// Workers bounds how many products are analyzed concurrently. Values <= 1 run sequentially.
	Workers int

	// NameFallback lets a product that is missing from the first month take its
	// name from the first month it appears in. Off by default.
	NameFallback bool
}

// Analyzer derives per-product analytics from consolidated monthly records.
type Analyzer struct {
	opts Options
}

// NewAnalyzer creates a new series analyzer
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// Analyze walks records in the order given by months and returns one
// ProductAnalytics per distinct product, ordered by first appearance.
// Months present in records but missing from months are appended in
// lexicographic order.
func (a *Analyzer) Analyze(records MonthlyRecords, months []string) []domain.ProductAnalytics {
	months = completeTimeline(records, months)

	// index[i] holds month i's records keyed by product
	index := make([]map[string]domain.ConsolidatedProductRecord, len(months))
	var products []string
	seen := make(map[string]struct{})
	for i, m := range months {
		byID := make(map[string]domain.ConsolidatedProductRecord, len(records[m]))
		for _, rec := range records[m] {
			byID[rec.ProductID] = rec
			if _, ok := seen[rec.ProductID]; !ok {
				seen[rec.ProductID] = struct{}{}
				products = append(products, rec.ProductID)
			}
		}
		index[i] = byID
	}

	result := make([]domain.ProductAnalytics, len(products))

	if a.opts.Workers <= 1 {
		for i, id := range products {
			result[i] = a.analyzeProduct(id, index)
		}
		return result
	}

	var g errgroup.Group
	g.SetLimit(a.opts.Workers)
	for i, id := range products {
		g.Go(func() error {
			result[i] = a.analyzeProduct(id, index)
			return nil
		})
	}
	_ = g.Wait()

	return result
}

func (a *Analyzer) analyzeProduct(id string, index []map[string]domain.ConsolidatedProductRecord) domain.ProductAnalytics {
	var peak float64
	for _, month := range index {
		if rec, ok := month[id]; ok && rec.StockStatus > peak {
			peak = rec.StockStatus
		}
	}

	// The walk starts from the historical peak, not from the first month's value.
	// Restocks move the base without counting as a sales month; absent months
	// leave the base untouched.
	previous := peak
	var totalSales float64
	validMonths := 0
	for i := 1; i < len(index); i++ {
		rec, ok := index[i][id]
		if !ok {
			continue
		}
		if sales := previous - rec.StockStatus; sales > 0 {
			totalSales += sales
			validMonths++
		}
		previous = rec.StockStatus
	}

	// Leftover is never carried forward: absent in the last month means 0.
	var leftOver float64
	if len(index) > 0 {
		if rec, ok := index[len(index)-1][id]; ok {
			leftOver = rec.StockStatus
		}
	}

	var average float64
	if validMonths > 0 {
		average = roundFloat(totalSales/float64(validMonths), 2)
	}

	var enoughForMonths float64
	if average > 0 {
		enoughForMonths = roundFloat(leftOver/average, 2)
	}

	return domain.ProductAnalytics{
		ProductID:       id,
		ProductName:     a.productName(id, index),
		StockStatus:     peak,
		LeftOver:        leftOver,
		Availability:    domain.AvailabilityFor(leftOver),
		Average:         average,
		TotalSales:      totalSales,
		Months:          validMonths,
		EnoughForMonths: enoughForMonths,
	}
}

func (a *Analyzer) productName(id string, index []map[string]domain.ConsolidatedProductRecord) string {
	if len(index) == 0 {
		return ""
	}
	if rec, ok := index[0][id]; ok {
		return rec.ProductName
	}
	if !a.opts.NameFallback {
		return ""
	}
	for _, month := range index[1:] {
		if rec, ok := month[id]; ok {
			return rec.ProductName
		}
	}
	return ""
}
