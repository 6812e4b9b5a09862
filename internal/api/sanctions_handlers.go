package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edgarintel/pipeline/internal/extract"
	"github.com/edgarintel/pipeline/internal/ofac"
)

const defaultSanctionsMaxHops = 3

// handleSanctionsCheck implements GET /sanctions/check/{id}. It passes
// maxHops 0, which CheckExposure replaces with its default of 3, so the
// response is the full exposure check (direct, owners, directors/officers
// and N-hop matches up to 3 hops); there is no direct-only mode.
func (h *Handler) handleSanctionsCheck(c *gin.Context) {
	id := c.Param("id")

	exposure, err := h.sanctionsEn.CheckExposure(c.Request.Context(), id, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, exposure)
}

// handleSanctionsExposure implements
// GET /sanctions/exposure/{id}?max_hops=.
func (h *Handler) handleSanctionsExposure(c *gin.Context) {
	id := c.Param("id")
	maxHops := queryInt(c, "max_hops", defaultSanctionsMaxHops)

	exposure, err := h.sanctionsEn.CheckExposure(c.Request.Context(), id, maxHops)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, exposure)
}

// SDNSearcher resolves cached SDN records for the search endpoint,
// decoupled from the ofac.Client/extract.OFAC concrete pipeline so this
// handler is testable without the network or a cache directory.
type SDNSearcher interface {
	Search(ctx context.Context, q, entityType string) ([]extract.OFACRecord, error)
}

// CachedSDNSearcher loads the cached SDN list via ofac.Client and filters
// in-process, per spec.md §6.1's /sanctions/list/search.
type CachedSDNSearcher struct {
	Client *ofac.Client
}

// Search downloads (or reuses the 7-day cache of) the SDN list, parses it,
// and filters by name substring q and optional entity_type.
func (s CachedSDNSearcher) Search(ctx context.Context, q, entityType string) ([]extract.OFACRecord, error) {
	raw, err := s.Client.GetSDNList(ctx)
	if err != nil {
		return nil, err
	}
	result, err := extract.OFAC(ctx, raw, "", "")
	if err != nil {
		return nil, err
	}

	q = strings.ToLower(q)
	var matches []extract.OFACRecord
	for _, rec := range result.Records {
		if entityType != "" && !strings.EqualFold(rec.EntityType, entityType) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(rec.Name), q) {
			continue
		}
		matches = append(matches, rec)
	}
	return matches, nil
}

// handleSanctionsSearch implements
// GET /sanctions/list/search?q=&entity_type=.
func (h *Handler) handleSanctionsSearch(c *gin.Context) {
	if h.sdnSearch == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "SDN list not configured"})
		return
	}

	q := c.Query("q")
	entityType := c.Query("entity_type")

	matches, err := h.sdnSearch.Search(c.Request.Context(), q, entityType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(matches), "matches": matches})
}
