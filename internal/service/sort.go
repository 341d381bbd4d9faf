package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andresuchdata/stock-analytics/internal/domain"
)

type lessFunc func(a, b domain.ProductAnalytics) bool

var sortFields = map[string]lessFunc{
	"product_id":        func(a, b domain.ProductAnalytics) bool { return a.ProductID < b.ProductID },
	"product_name":      func(a, b domain.ProductAnalytics) bool { return strings.ToLower(a.ProductName) < strings.ToLower(b.ProductName) },
	"stock_status":      func(a, b domain.ProductAnalytics) bool { return a.StockStatus < b.StockStatus },
	"left_over":         func(a, b domain.ProductAnalytics) bool { return a.LeftOver < b.LeftOver },
	"average":           func(a, b domain.ProductAnalytics) bool { return a.Average < b.Average },
	"total_sales":       func(a, b domain.ProductAnalytics) bool { return a.TotalSales < b.TotalSales },
	"months":            func(a, b domain.ProductAnalytics) bool { return a.Months < b.Months },
	"enough_for_months": func(a, b domain.ProductAnalytics) bool { return a.EnoughForMonths < b.EnoughForMonths },
}

// comparatorFor returns nil when no sort field is requested. The direction is
// checked either way.
func comparatorFor(field, direction string) (lessFunc, error) {
	var desc bool
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return nil, fmt.Errorf("%w: unknown sort direction %q", domain.ErrInvalidFilter, direction)
	}

	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return nil, nil
	}

	less, ok := sortFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidFilter, field)
	}

	if desc {
		return func(a, b domain.ProductAnalytics) bool { return less(b, a) }, nil
	}
	return less, nil
}

// sortAnalytics orders items by less, falling back to product id for ties.
func sortAnalytics(items []domain.ProductAnalytics, less lessFunc) {
	sort.SliceStable(items, func(i, j int) bool {
		if less(items[i], items[j]) {
			return true
		}
		if less(items[j], items[i]) {
			return false
		}
		return items[i].ProductID < items[j].ProductID
	})
}
