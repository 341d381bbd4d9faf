package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stock-analytics/internal/domain"
	"github.com/andresuchdata/stock-analytics/internal/export"
	"github.com/andresuchdata/stock-analytics/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type StockAnalyticsHandler struct {
	service *service.StockAnalyticsService
}

func NewStockAnalyticsHandler(service *service.StockAnalyticsService) *StockAnalyticsHandler {
	return &StockAnalyticsHandler{service: service}
}

func (h *StockAnalyticsHandler) parseQuery(c *gin.Context) (domain.AnalyticsQuery, error) {
	var q domain.AnalyticsQuery

	if from := strings.TrimSpace(c.Query("from")); from != "" {
		q.Filter.FromMonth = from
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		q.Filter.ToMonth = to
	}

	// ?months=2024-01&months=2024-02 and ?months=2024-01,2024-02 are both accepted
	seen := make(map[string]struct{})
	for _, raw := range c.QueryArray("months") {
		for _, m := range strings.Split(raw, ",") {
			m = strings.TrimSpace(m)
			if m == "" {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			q.Filter.Months = append(q.Filter.Months, m)
		}
	}

	// negative values are left for SnapshotFilter.Validate to reject
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("%w: limit %q is not a number", domain.ErrInvalidFilter, raw)
		}
		q.Filter.Limit = limit
	}

	if availability := strings.TrimSpace(c.Query("availability")); availability != "" {
		q.Availability = availability
	}

	if sortField := strings.TrimSpace(c.Query("sort_field")); sortField != "" {
		q.SortField = strings.ToLower(sortField)
	}

	q.SortDir = strings.ToLower(strings.TrimSpace(c.Query("sort_direction")))

	return q, nil
}

func (h *StockAnalyticsHandler) GetStockAnalytics(c *gin.Context) {
	q, err := h.parseQuery(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items, err := h.service.Query(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (h *StockAnalyticsHandler) ExportStockAnalytics(c *gin.Context) {
	q, err := h.parseQuery(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items, err := h.service.Query(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, items); err != nil {
		log.Error().Err(err).Msg("stock analytics: xlsx export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export stock analytics"})
		return
	}

	filename := fmt.Sprintf("stock_analytics_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *StockAnalyticsHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}
	// the underlying cause has already been logged by the service
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stock analytics"})
}
