package ingest

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/xuri/excelize/v2"
)

// sheetRows adapts excelize's row iterator to rowReader.
type sheetRows struct {
	rows *excelize.Rows
}

func (s *sheetRows) Read() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return s.rows.Columns()
}

// ReadSnapshotXLSX parses the first sheet of a workbook with the same column
// rules as ReadSnapshotCSV.
func ReadSnapshotXLSX(r io.Reader, month string) (domain.Snapshot, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Snapshot{}, fmt.Errorf("workbook for %s has no sheets", month)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	defer rows.Close()

	return readSnapshot(&sheetRows{rows: rows}, month)
}

// ReadSnapshot picks the parser from the file extension of name.
func ReadSnapshot(r io.Reader, name, month string) (domain.Snapshot, error) {
	if strings.EqualFold(path.Ext(name), ".xlsx") {
		return ReadSnapshotXLSX(r, month)
	}
	return ReadSnapshotCSV(r, month)
}
