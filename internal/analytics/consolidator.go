package analytics

import "github.com/andresuchdata/stock-analytics/internal/domain"

// MonthlyRecords maps a month identifier to the consolidated product records of that month.
type MonthlyRecords map[string][]domain.ConsolidatedProductRecord

// Consolidate merges duplicate product rows within each snapshot by summing
// their stock. The first row of a product decides its name. A later snapshot
// with an already seen month identifier replaces the earlier one.
func Consolidate(snapshots []domain.Snapshot) MonthlyRecords {
	result := make(MonthlyRecords, len(snapshots))
	for _, snap := range snapshots {
		result[snap.Month] = consolidateRows(snap.Products)
	}
	return result
}

func consolidateRows(rows []domain.RawProductRow) []domain.ConsolidatedProductRecord {
	records := make([]domain.ConsolidatedProductRecord, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		if i, ok := index[row.ProductID]; ok {
			records[i].StockStatus += row.StockStatus
			continue
		}
		index[row.ProductID] = len(records)
		records = append(records, domain.ConsolidatedProductRecord{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			StockStatus: row.StockStatus,
		})
	}

	return records
}
