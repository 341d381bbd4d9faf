// internal/domain/models.go
package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Snapshot is one month of recorded stock, as returned by the snapshot store.
type Snapshot struct {
	Month    string    `json:"month"`
	Period   time.Time `json:"period"`
	Products RawRows   `json:"products"`
}

var periodLayouts = []string{time.RFC3339Nano, time.DateOnly, "2006-01"}

// UnmarshalJSON implements json.Unmarshaler. Period accepts RFC3339 timestamps,
// plain dates and year-month values; anything else leaves it zero.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Month    string          `json:"month"`
		Period   json.RawMessage `json:"period"`
		Products RawRows         `json:"products"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Month = raw.Month
	s.Period = parsePeriod(raw.Period)
	s.Products = raw.Products
	if s.Products == nil {
		s.Products = RawRows{}
	}
	return nil
}

func parsePeriod(data json.RawMessage) time.Time {
	var v string
	if len(data) == 0 || json.Unmarshal(data, &v) != nil {
		return time.Time{}
	}
	v = strings.TrimSpace(v)
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// RawProductRow is a single, unconsolidated product line inside a snapshot.
type RawProductRow struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	StockStatus float64 `json:"stockStatus"`
}

// RawRows is the row list of a snapshot. Anything that is not a JSON array
// (missing, null, object, scalar) decodes to an empty row set.
type RawRows []RawProductRow

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawRows) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*r = RawRows{}
		return nil
	}

	var rows []RawProductRow
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		*r = RawRows{}
		return nil
	}
	*r = rows
	return nil
}

// Scan implements sql.Scanner so jsonb columns can be read straight into RawRows.
func (r *RawRows) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return r.UnmarshalJSON(v)
	case string:
		return r.UnmarshalJSON([]byte(v))
	default:
		*r = RawRows{}
		return nil
	}
}

// ConsolidatedProductRecord is the per-month, per-product stock after duplicate
// rows within one snapshot have been summed.
type ConsolidatedProductRecord struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	StockStatus float64 `json:"stockStatus"`
}

// ProductAnalytics is the computed result for one product across the series.
type ProductAnalytics struct {
	ProductID       string       `json:"productId"`
	ProductName     string       `json:"productName"`
	StockStatus     float64      `json:"stockStatus"` // peak stock
	LeftOver        float64      `json:"leftOver"`
	Availability    Availability `json:"availability"`
	Average         float64      `json:"average"`
	TotalSales      float64      `json:"totalSales"`
	Months          int          `json:"months"`
	EnoughForMonths float64      `json:"enoughForMonths"`
}

// SnapshotFilter narrows what the snapshot store returns.
type SnapshotFilter struct {
	FromMonth string   `json:"from_month"`
	ToMonth   string   `json:"to_month"`
	Months    []string `json:"months"`
	Limit     int      `json:"limit"`
}

// AnalyticsQuery is a SnapshotFilter plus presentation options applied after computing.
type AnalyticsQuery struct {
	Filter       SnapshotFilter
	Availability string
	SortField    string
	SortDir      string
}
