// Package api exposes the core-facing HTTP endpoints of spec.md §6.1
// over gin, following the teacher-pack's gin wiring style
// (leanlp-BTC-coinjoin's internal/api/routes.go: one APIHandler struct
// holding every collaborator, grouped routes, gin.H JSON responses).
package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edgarintel/pipeline/internal/citations"
	"github.com/edgarintel/pipeline/internal/connections"
	"github.com/edgarintel/pipeline/internal/graphstore"
	"github.com/edgarintel/pipeline/internal/risk"
	"github.com/edgarintel/pipeline/internal/sanctions"
	"github.com/edgarintel/pipeline/internal/scheduler"
	"github.com/edgarintel/pipeline/internal/signal"
)

// Handler holds every collaborator the HTTP surface depends on.
type Handler struct {
	feed        *signal.Feed
	connections *connections.Service
	risk        *risk.Engine
	sanctionsEn *sanctions.Engine
	citations   *citations.Service
	scanner     *scheduler.Form4Scanner
	marketScan  *scheduler.ScanCoordinator
	stats       *graphstore.Store
	sdnSearch   SDNSearcher
}

// WithSDNSearcher attaches the /sanctions/list/search backend. Left
// unset, that endpoint reports 503 rather than panicking.
func (h *Handler) WithSDNSearcher(searcher SDNSearcher) *Handler {
	h.sdnSearch = searcher
	return h
}

// NewHandler wires a Handler from its collaborators.
func NewHandler(feed *signal.Feed, conns *connections.Service, riskEngine *risk.Engine, sanctionsEngine *sanctions.Engine, citationService *citations.Service, scanner *scheduler.Form4Scanner, marketScan *scheduler.ScanCoordinator, store *graphstore.Store) *Handler {
	return &Handler{
		feed:        feed,
		connections: conns,
		risk:        riskEngine,
		sanctionsEn: sanctionsEngine,
		citations:   citationService,
		scanner:     scanner,
		marketScan:  marketScan,
		stats:       store,
	}
}

// SetupRouter builds the gin.Engine exposing spec.md §6.1's endpoints.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	api := r.Group("/")
	{
		api.GET("/feed", h.handleGetFeed)
		api.GET("/feed/stats", h.handleFeedStats)
		api.POST("/feed/scan/:cik", h.handleScanCompany)
		api.POST("/feed/market-scan", h.handleStartMarketScan)
		api.GET("/feed/market-scan/status", h.handleMarketScanStatus)

		api.GET("/connections/find", h.handleConnectionsFind)
		api.GET("/connections/shared", h.handleConnectionsShared)
		api.GET("/connections/multi-layer", h.handleConnectionsMultiLayer)
		api.GET("/connections/risk/:id", h.handleConnectionsRisk)

		api.GET("/sanctions/check/:id", h.handleSanctionsCheck)
		api.GET("/sanctions/exposure/:id", h.handleSanctionsExposure)
		api.GET("/sanctions/list/search", h.handleSanctionsSearch)

		api.GET("/citations/entity/:id", h.handleCitationsEntity)
		api.GET("/citations/relationship/:type/:from/:to", h.handleCitationsRelationship)
		api.GET("/citations/filing/:accession", h.handleCitationsFiling)
	}

	return r
}

// corsMiddleware mirrors the teacher's ALLOWED_ORIGINS-driven CORS
// handling in leanlp-BTC-coinjoin/internal/api/routes.go.
func corsMiddleware() gin.HandlerFunc {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
