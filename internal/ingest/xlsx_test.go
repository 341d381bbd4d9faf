package ingest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadSnapshotXLSX(t *testing.T) {
	data := workbook(t, [][]interface{}{
		{"SKU", "Nama", "Stok"},
		{"A-1", "Lipstick", 120},
		{"B-2", "Powder"},
		{"", "Orphan", 3},
	})

	snap, err := ReadSnapshotXLSX(bytes.NewReader(data), "2024-01")
	require.NoError(t, err)
	require.Len(t, snap.Products, 2)
	assert.Equal(t, domain.RawProductRow{ProductID: "A-1", ProductName: "Lipstick", StockStatus: 120}, snap.Products[0])
	assert.Equal(t, 0.0, snap.Products[1].StockStatus)
}

func TestReadSnapshotXLSX_NotAWorkbook(t *testing.T) {
	_, err := ReadSnapshotXLSX(bytes.NewReader([]byte("product_id,stock\n")), "2024-01")
	assert.Error(t, err)
}

func TestDirSource_ReadsWorkbooks(t *testing.T) {
	dir := t.TempDir()
	data := workbook(t, [][]interface{}{
		{"product_id", "product_name", "stock_status"},
		{"A", "Alpha", 100},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-01.xlsx"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-02.csv"), []byte("product_id,stock_status\nA,60\n"), 0o644))

	snapshots, err := NewDirSource(dir).ListSnapshots(context.Background(), domain.SnapshotFilter{})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, 100.0, snapshots[0].Products[0].StockStatus)
	assert.Equal(t, 60.0, snapshots[1].Products[0].StockStatus)
}
