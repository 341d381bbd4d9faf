package analytics

import (
	"testing"
	"time"

	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(month string, rows ...domain.RawProductRow) domain.Snapshot {
	return domain.Snapshot{Month: month, Products: rows}
}

func row(id string, stock float64) domain.RawProductRow {
	return domain.RawProductRow{ProductID: id, ProductName: "Product " + id, StockStatus: stock}
}

func byID(results []domain.ProductAnalytics) map[string]domain.ProductAnalytics {
	out := make(map[string]domain.ProductAnalytics, len(results))
	for _, r := range results {
		out[r.ProductID] = r
	}
	return out
}

func TestCompute_ReferenceSeries(t *testing.T) {
	results := ComputeStockAnalytics([]domain.Snapshot{
		snap("2024-01", row("A", 100)),
		snap("2024-02", row("A", 60)),
		snap("2024-03", row("A", 60)),
	}, Options{})

	require.Len(t, results, 1)
	a := results[0]
	assert.Equal(t, "A", a.ProductID)
	assert.Equal(t, "Product A", a.ProductName)
	assert.Equal(t, 100.0, a.StockStatus)
	assert.Equal(t, 40.0, a.TotalSales)
	assert.Equal(t, 1, a.Months)
	assert.Equal(t, 40.0, a.Average)
	assert.Equal(t, 60.0, a.LeftOver)
	assert.Equal(t, domain.Available, a.Availability)
	assert.Equal(t, 1.5, a.EnoughForMonths)
}

func TestCompute_EmptyInput(t *testing.T) {
	results := ComputeStockAnalytics(nil, Options{})
	require.NotNil(t, results)
	assert.Empty(t, results)

	results = ComputeStockAnalytics([]domain.Snapshot{}, Options{})
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestCompute_RestockDoesNotCorruptBase(t *testing.T) {
	results := ComputeStockAnalytics([]domain.Snapshot{
		snap("2024-01", row("A", 50)),
		snap("2024-02", row("A", 30)),
		snap("2024-03", row("A", 80)),
		snap("2024-04", row("A", 20)),
	}, Options{})

	require.Len(t, results, 1)
	a := results[0]
	assert.Equal(t, 80.0, a.StockStatus)
	assert.Equal(t, 2, a.Months)
	// 80 -> 30 counts 50, 30 -> 80 is skipped, 80 -> 20 counts 60
	assert.Equal(t, 110.0, a.TotalSales)
	assert.Equal(t, 55.0, a.Average)
	assert.Equal(t, 20.0, a.LeftOver)
	assert.Equal(t, 0.36, a.EnoughForMonths)
}

func TestCompute_StrictlyDecreasing(t *testing.T) {
	stocks := []float64{100, 80, 50, 10}
	snapshots := make([]domain.Snapshot, len(stocks))
	for i, s := range stocks {
		snapshots[i] = snap(time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"), row("A", s))
	}

	a := ComputeStockAnalytics(snapshots, Options{})[0]
	assert.Equal(t, len(stocks)-1, a.Months)
	assert.Equal(t, 100.0-10.0, a.TotalSales)
	assert.Equal(t, 30.0, a.Average)
	assert.Equal(t, 0.33, a.EnoughForMonths)
}

func TestCompute_FlatSeriesHasNoSales(t *testing.T) {
	results := ComputeStockAnalytics([]domain.Snapshot{
		snap("2024-01", row("A", 40), row("B", 10)),
		snap("2024-02", row("A", 40), row("B", 25)),
		snap("2024-03", row("A", 40)),
	}, Options{})

	got := byID(results)
	a := got["A"]
	assert.Equal(t, 0, a.Months)
	assert.Equal(t, 0.0, a.TotalSales)
	assert.Equal(t, 0.0, a.Average)
	assert.Equal(t, 0.0, a.EnoughForMonths)
	assert.Equal(t, 40.0, a.LeftOver)

	// A single increase from the first month never counts: the base is the peak.
	b := got["B"]
	assert.Equal(t, 25.0, b.StockStatus)
	assert.Equal(t, 0, b.Months)
	assert.Equal(t, 0.0, b.Average)
	assert.Equal(t, 0.0, b.EnoughForMonths)
}

func TestCompute_LeftOverResetsWhenAbsentFromLastMonth(t *testing.T) {
	results := ComputeStockAnalytics([]domain.Snapshot{
		snap("2024-01", row("A", 100), row("B", 5)),
		snap("2024-02", row("A", 50), row("B", 5)),
		snap("2024-03", row("B", 5)),
	}, Options{})

	a := byID(results)["A"]
	assert.Equal(t, 0.0, a.LeftOver)
	assert.Equal(t, domain.OutOfStock, a.Availability)
	assert.Equal(t, 1, a.Months)
	assert.Equal(t, 50.0, a.Average)
	assert.Equal(t, 0.0, a.EnoughForMonths)
}

func TestCompute_AbsentMonthCarriesBaseForward(t *testing.T) {
	results := ComputeStockAnalytics([]domain.Snapshot{
		snap("2024-01", row("A", 100), row("B", 1)),
		snap("2024-02", row("B", 1)),
		snap("2024-03", row("A", 40), row("B", 1)),
	}, Options{})

	a := byID(results)["A"]
	assert.Equal(t, 1, a.Months)
	assert.Equal(t, 60.0, a.TotalSales)
	assert.Equal(t, 40.0, a.LeftOver)
	assert.Equal(t, domain.Available, a.Availability)
}

func TestCompute_AvailabilityFollowsLeftOver(t *testing.T) {
	results := ComputeStockAnalytics([]domain.Snapshot{
		snap("2024-01", row("A", 10), row("B", 10), row("C", 10)),
		snap("2024-02", row("A", 0), row("B", 3)),
	}, Options{})

	for _, p := range results {
		if p.LeftOver > 0 {
			assert.Equal(t, domain.Available, p.Availability, p.ProductID)
		} else {
			assert.Equal(t, domain.OutOfStock, p.Availability, p.ProductID)
		}
	}
	assert.Len(t, results, 3)
}

func TestCompute_OnlyObservedProductsAreReturned(t *testing.T) {
	results := ComputeStockAnalytics([]domain.Snapshot{
		snap("2024-02", row("B", 3)),
		snap("2024-01", row("A", 1)),
		snap("2024-03"),
	}, Options{})

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ProductID)
	}
	assert.Equal(t, []string{"A", "B"}, ids)
}

func TestCompute_InputOrderDoesNotMatter(t *testing.T) {
	ordered := []domain.Snapshot{
		snap("2024-01", row("A", 90), row("B", 12)),
		snap("2024-02", row("A", 70), row("B", 4)),
		snap("2024-03", row("A", 75), row("B", 1)),
	}
	shuffled := []domain.Snapshot{ordered[2], ordered[0], ordered[1]}

	assert.Equal(t, ComputeStockAnalytics(ordered, Options{}), ComputeStockAnalytics(shuffled, Options{}))
}

func TestCompute_NameComesFromFirstMonthOnly(t *testing.T) {
	snapshots := []domain.Snapshot{
		snap("2024-01", row("A", 10)),
		snap("2024-02", row("A", 5), domain.RawProductRow{ProductID: "B", ProductName: "Beta", StockStatus: 9}),
	}

	b := byID(ComputeStockAnalytics(snapshots, Options{}))["B"]
	assert.Equal(t, "", b.ProductName)
	assert.Equal(t, 9.0, b.LeftOver)

	b = byID(ComputeStockAnalytics(snapshots, Options{NameFallback: true}))["B"]
	assert.Equal(t, "Beta", b.ProductName)
}

func TestCompute_PeriodOverridesIdentifierOrder(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	snapshots := []domain.Snapshot{
		{Month: "Jan 2024", Period: jan, Products: domain.RawRows{row("A", 100)}},
		{Month: "Feb 2024", Period: jan.AddDate(0, 1, 0), Products: domain.RawRows{row("A", 70)}},
	}

	a := ComputeStockAnalytics(snapshots, Options{})[0]
	assert.Equal(t, 70.0, a.LeftOver)
	assert.Equal(t, 30.0, a.TotalSales)

	// Without periods "Feb 2024" sorts before "Jan 2024".
	snapshots[0].Period, snapshots[1].Period = time.Time{}, time.Time{}
	a = ComputeStockAnalytics(snapshots, Options{})[0]
	assert.Equal(t, 100.0, a.LeftOver)
	assert.Equal(t, 0, a.Months)
}

func TestCompute_WorkersMatchSequential(t *testing.T) {
	var snapshots []domain.Snapshot
	for m := 1; m <= 12; m++ {
		var rows []domain.RawProductRow
		for p := 0; p < 40; p++ {
			if (p+m)%7 == 0 {
				continue
			}
			rows = append(rows, domain.RawProductRow{
				ProductID:   string(rune('A'+p%26)) + string(rune('a'+p/26)),
				ProductName: "item",
				StockStatus: float64((p*31 + m*17) % 97),
			})
		}
		snapshots = append(snapshots, snap(time.Date(2023, time.Month(m), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"), rows...))
	}

	sequential := ComputeStockAnalytics(snapshots, Options{})
	parallel := ComputeStockAnalytics(snapshots, Options{Workers: 8})
	assert.Equal(t, sequential, parallel)
}

func TestAnalyze_CompletesPartialTimeline(t *testing.T) {
	records := MonthlyRecords{
		"2024-01": {{ProductID: "A", ProductName: "Alpha", StockStatus: 10}},
		"2024-02": {{ProductID: "A", ProductName: "Alpha", StockStatus: 4}},
	}

	results := NewAnalyzer(Options{}).Analyze(records, []string{"2024-01", "2023-12"})
	require.Len(t, results, 1)
	assert.Equal(t, 4.0, results[0].LeftOver)
	assert.Equal(t, 6.0, results[0].TotalSales)
}
