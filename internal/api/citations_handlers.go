package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleCitationsEntity implements GET /citations/entity/{id}.
func (h *Handler) handleCitationsEntity(c *gin.Context) {
	id := c.Param("id")

	result, err := h.citations.ForEntity(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"citations": result})
}

// handleCitationsRelationship implements
// GET /citations/relationship/{type}/{from}/{to}.
func (h *Handler) handleCitationsRelationship(c *gin.Context) {
	relType := c.Param("type")
	from := c.Param("from")
	to := c.Param("to")

	result, err := h.citations.ForRelationship(c.Request.Context(), relType, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"citations": result})
}

// handleCitationsFiling implements GET /citations/filing/{accession}.
func (h *Handler) handleCitationsFiling(c *gin.Context) {
	accession := c.Param("accession")

	result, err := h.citations.ForFiling(c.Request.Context(), accession)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"citations": result})
}
