package export

import (
	"fmt"
	"io"

	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Stock Analytics"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []interface{}{
	"Product ID",
	"Product Name",
	"Peak Stock",
	"Total Sales",
	"Sales Months",
	"Average Monthly Sales",
	"Left Over",
	"Availability",
	"Enough For Months",
}

// WriteXLSX writes one header row and one row per product to w.
func WriteXLSX(w io.Writer, items []domain.ProductAnalytics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			item.ProductID,
			item.ProductName,
			item.StockStatus,
			item.TotalSales,
			item.Months,
			item.Average,
			item.LeftOver,
			string(item.Availability),
			item.EnoughForMonths,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
