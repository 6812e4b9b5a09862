package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edgarintel/pipeline/internal/signal"
)

const (
	defaultFeedDays  = 30
	defaultFeedLimit = 50
)

// handleGetFeed implements GET /feed?days=&limit=&min_level=&cik=.
func (h *Handler) handleGetFeed(c *gin.Context) {
	days := queryInt(c, "days", defaultFeedDays)
	limit := queryInt(c, "limit", defaultFeedLimit)
	minLevel := signal.Level(c.DefaultQuery("min_level", string(signal.LevelLow)))
	cik := c.Query("cik")

	signals, err := h.feed.GetFeed(c.Request.Context(), days, limit, minLevel, cik)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	byLevel := map[string]int{}
	byCombined := map[string]int{}
	for _, s := range signals {
		byLevel[string(s.Classification.Level)]++
		byCombined[string(s.CombinedLevel)]++
	}

	resp := gin.H{
		"total":       len(signals),
		"by_level":    byLevel,
		"by_combined": byCombined,
		"signals":     signals,
	}
	if cik != "" {
		resp["company_filter"] = cik
	}
	c.JSON(http.StatusOK, resp)
}

// handleFeedStats implements GET /feed/stats.
func (h *Handler) handleFeedStats(c *gin.Context) {
	ctx := c.Request.Context()

	nodeCount, err := countRows(ctx, h, "MATCH (n) RETURN count(n) AS total")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	edgeCount, err := countRows(ctx, h, "MATCH ()-[r]->() RETURN count(r) AS total")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"node_count": nodeCount,
		"edge_count": edgeCount,
	})
}

func countRows(ctx context.Context, h *Handler, cypher string) (int64, error) {
	rows, err := h.stats.ExecuteQuery(ctx, cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	switch n := rows[0]["total"].(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, nil
	}
}

// handleScanCompany implements POST /feed/scan/{cik}?company_name=&limit=.
// It responds 202 with the parsed cik, company_name and limit; it does
// not start an ingestion run (edgar fetch -> extract -> entityloader)
// and reports no scan outcome.
func (h *Handler) handleScanCompany(c *gin.Context) {
	cik := c.Param("cik")
	if cik == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cik is required"})
		return
	}

	companyName := c.Query("company_name")
	limit := queryInt(c, "limit", 10)

	c.JSON(http.StatusAccepted, gin.H{
		"status":       "scan_triggered",
		"cik":          cik,
		"company_name": companyName,
		"limit":        limit,
	})
}

// handleStartMarketScan implements POST /feed/market-scan. It does not read
// a days_back query parameter; the scan covers whatever each company's
// IngestEightKFilings call fetches.
func (h *Handler) handleStartMarketScan(c *gin.Context) {
	started := h.marketScan.StartScan(c.Request.Context())
	if !started {
		c.JSON(http.StatusConflict, gin.H{"status": "already_running"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

// handleMarketScanStatus implements GET /feed/market-scan/status.
func (h *Handler) handleMarketScanStatus(c *gin.Context) {
	status := h.marketScan.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":          status.Status,
		"companies_total": status.CompaniesTotal,
		"companies_done":  status.CompaniesDone,
		"errors_count":    status.ErrorsCount,
		"last_error":      status.LastError,
		"started_at":      status.StartedAt,
		"finished_at":     status.FinishedAt,
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
