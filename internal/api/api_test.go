package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andresuchdata/stock-analytics/internal/analytics"
	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/andresuchdata/stock-analytics/internal/export"
	"github.com/andresuchdata/stock-analytics/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubRepo struct {
	snapshots []domain.Snapshot
	err       error
	lastQuery domain.SnapshotFilter
}

func (s *stubRepo) ListSnapshots(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Snapshot, error) {
	s.lastQuery = filter
	return s.snapshots, s.err
}

type listResponse struct {
	Items []domain.ProductAnalytics `json:"items"`
	Total int                       `json:"total"`
}

func newTestRouter(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewStockAnalyticsService(repo, nil, analytics.Options{})
	return NewRouter(&Services{StockAnalyticsService: svc}, []string{"*"})
}

func testSnapshots() []domain.Snapshot {
	return []domain.Snapshot{
		{Month: "2024-01", Products: domain.RawRows{{ProductID: "A", ProductName: "Alpha", StockStatus: 100}, {ProductID: "B", ProductName: "Beta", StockStatus: 8}}},
		{Month: "2024-02", Products: domain.RawRows{{ProductID: "A", ProductName: "Alpha", StockStatus: 60}, {ProductID: "B", ProductName: "Beta", StockStatus: 2}}},
		{Month: "2024-03", Products: domain.RawRows{{ProductID: "A", ProductName: "Alpha", StockStatus: 60}}},
	}
}

func serve(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetStockAnalytics(t *testing.T) {
	repo := &stubRepo{snapshots: testSnapshots()}
	router := newTestRouter(repo)

	w := serve(router, "/api/v1/analytics/stock?from=2024-01&months=2024-01,2024-02&months=2024-03&limit=12")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "A", resp.Items[0].ProductID)
	assert.Equal(t, 1.5, resp.Items[0].EnoughForMonths)
	assert.Equal(t, domain.OutOfStock, resp.Items[1].Availability)

	assert.Equal(t, "2024-01", repo.lastQuery.FromMonth)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, repo.lastQuery.Months)
	assert.Equal(t, 12, repo.lastQuery.Limit)
}

func TestGetStockAnalytics_JSONFieldNames(t *testing.T) {
	router := newTestRouter(&stubRepo{snapshots: testSnapshots()})

	w := serve(router, "/api/v1/analytics/stock")
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	item := raw["items"][0]
	for _, key := range []string{"productId", "productName", "stockStatus", "leftOver", "availability", "average", "totalSales", "months", "enoughForMonths"} {
		assert.Contains(t, item, key)
	}
}

func TestGetStockAnalytics_SortAndFilter(t *testing.T) {
	router := newTestRouter(&stubRepo{snapshots: testSnapshots()})

	w := serve(router, "/api/v1/analytics/stock?sort_field=average&sort_direction=asc")
	require.Equal(t, http.StatusOK, w.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "B", resp.Items[0].ProductID)

	w = serve(router, "/api/v1/analytics/stock?availability=available")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestGetStockAnalytics_EmptyStore(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	w := serve(router, "/api/v1/analytics/stock")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
}

func TestGetStockAnalytics_Failure(t *testing.T) {
	router := newTestRouter(&stubRepo{err: errors.New("pq: password authentication failed")})

	w := serve(router, "/api/v1/analytics/stock")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to compute stock analytics"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetStockAnalytics_BadRequest(t *testing.T) {
	router := newTestRouter(&stubRepo{snapshots: testSnapshots()})

	w := serve(router, "/api/v1/analytics/stock?from=2024-06&to=2024-01")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, "/api/v1/analytics/stock?sort_field=price")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, query := range []string{
		"limit=-1",
		"limit=abc",
		"limit=2.5",
		"sort_field=average&sort_direction=sideways",
		"sort_direction=sideways",
		"availability=backordered",
	} {
		w = serve(router, "/api/v1/analytics/stock?"+query)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
		assert.Contains(t, w.Body.String(), "invalid query", query)

		w = serve(router, "/api/v1/analytics/stock/export?"+query)
		assert.Equal(t, http.StatusBadRequest, w.Code, "export "+query)
	}
}

func TestGetStockAnalytics_LimitAndDirectionPassThrough(t *testing.T) {
	router := newTestRouter(&stubRepo{snapshots: testSnapshots()})

	w := serve(router, "/api/v1/analytics/stock?limit=0&sort_field=product_id&sort_direction=DESC")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "B", resp.Items[0].ProductID)
	assert.Equal(t, "A", resp.Items[1].ProductID)
}

func TestExportStockAnalytics(t *testing.T) {
	router := newTestRouter(&stubRepo{snapshots: testSnapshots()})

	w := serve(router, "/api/v1/analytics/stock/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	w := serve(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	serve(router, "/api/v1/analytics/stock")
	w = serve(router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	assert.False(t, all)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, origins)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}
