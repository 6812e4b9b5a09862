package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const defaultMaxHops = 4

// handleConnectionsFind implements
// GET /connections/find?entity_a=&entity_b=&max_hops=&by_name={0|1}.
func (h *Handler) handleConnectionsFind(c *gin.Context) {
	a := c.Query("entity_a")
	b := c.Query("entity_b")
	if a == "" || b == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_a and entity_b are required"})
		return
	}
	maxHops := queryInt(c, "max_hops", defaultMaxHops)

	chain, err := h.connections.FindConnectionWithEvidence(c.Request.Context(), a, b, maxHops)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if chain == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no connection found"})
		return
	}
	c.JSON(http.StatusOK, chain)
}

// handleConnectionsShared implements
// GET /connections/shared?entity_a=&entity_b=&limit=.
func (h *Handler) handleConnectionsShared(c *gin.Context) {
	a := c.Query("entity_a")
	b := c.Query("entity_b")
	if a == "" || b == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_a and entity_b are required"})
		return
	}
	limit := queryInt(c, "limit", 20)

	shared, err := h.connections.FindSharedConnections(c.Request.Context(), a, b, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shared": shared})
}

// handleConnectionsMultiLayer implements
// GET /connections/multi-layer?name_a=&name_b=.
func (h *Handler) handleConnectionsMultiLayer(c *gin.Context) {
	nameA := c.Query("name_a")
	nameB := c.Query("name_b")
	if nameA == "" || nameB == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name_a and name_b are required"})
		return
	}

	summary, err := h.connections.FindMultiLayerConnections(c.Request.Context(), nameA, nameB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// handleConnectionsRisk implements GET /connections/risk/{id}.
func (h *Handler) handleConnectionsRisk(c *gin.Context) {
	id := c.Param("id")

	assessment, err := h.risk.Assess(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assessment)
}
