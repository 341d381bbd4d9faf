// Package ingest reads monthly stock snapshots from CSV exports.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andresuchdata/stock-analytics/internal/domain"
)

var (
	productIDColumns   = []string{"product_id", "productId", "sku", "id"}
	productNameColumns = []string{"product_name", "productName", "nama", "name", "product name"}
	stockColumns       = []string{"stock_status", "stockStatus", "stock", "stok"}
)

// rowReader yields one record per call and io.EOF after the last one.
type rowReader interface {
	Read() ([]string, error)
}

// ReadSnapshotCSV parses one month of product rows. The header decides the
// column positions; rows without a product id are skipped and stock values that
// do not parse are read as 0.
func ReadSnapshotCSV(r io.Reader, month string) (domain.Snapshot, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	return readSnapshot(reader, month)
}

func readSnapshot(reader rowReader, month string) (domain.Snapshot, error) {
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Snapshot{Month: month, Products: domain.RawRows{}}, nil
		}
		return domain.Snapshot{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idxID := colIndex(header, productIDColumns...)
	idxName := colIndex(header, productNameColumns...)
	idxStock := colIndex(header, stockColumns...)
	if idxID < 0 || idxStock < 0 {
		return domain.Snapshot{}, fmt.Errorf("snapshot %s: missing product id or stock column in header %v", month, header)
	}

	rows := make(domain.RawRows, 0)
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return domain.Snapshot{}, fmt.Errorf("read row: %w", err)
		}

		id := field(record, idxID)
		if id == "" {
			continue
		}

		rows = append(rows, domain.RawProductRow{
			ProductID:   id,
			ProductName: field(record, idxName),
			StockStatus: parseStock(field(record, idxStock)),
		})
	}

	return domain.Snapshot{Month: month, Products: rows}, nil
}

// WriteSnapshotCSV writes rows in the canonical column layout read back by ReadSnapshotCSV.
func WriteSnapshotCSV(w io.Writer, snapshot domain.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"product_id", "product_name", "stock_status"}); err != nil {
		return err
	}
	for _, row := range snapshot.Products {
		if err := cw.Write([]string{
			row.ProductID,
			row.ProductName,
			strconv.FormatFloat(row.StockStatus, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func colIndex(header []string, names ...string) int {
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[normalizeColumnName(name)] = struct{}{}
	}
	for i, h := range header {
		if _, ok := targets[normalizeColumnName(h)]; ok {
			return i
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseStock accepts thousands separators ("1,250") and treats anything
// unparsable or negative as 0.
func parseStock(v string) float64 {
	if v == "" {
		return 0
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}
