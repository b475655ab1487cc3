package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStats handles GET /api/stats.
func (h *Handler) GetStats(c *gin.Context) {
	result, err := h.svc.Stats.Compute(c.Request.Context(), c.Query("role"), c.Query("customer_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
