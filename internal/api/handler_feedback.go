package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-service-backend/internal/feedback"
	"laundry-service-backend/internal/model"
)

type submitFeedbackRequest struct {
	CustomerID string                 `json:"customer_id"`
	OrderID    string                 `json:"order_id"`
	Rating     int                    `json:"rating"`
	Comment    string                 `json:"comment"`
	Category   model.FeedbackCategory `json:"category"`
}

// SubmitFeedback handles POST /api/feedback.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	fb, err := h.svc.Feedback.Submit(c.Request.Context(), feedback.SubmitRequest(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Feedback submitted successfully", "feedback": fb})
}

// ListFeedback handles GET /api/feedback.
func (h *Handler) ListFeedback(c *gin.Context) {
	list, err := h.svc.Feedback.List(c.Request.Context(), c.Query("customer_id"), c.Query("order_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": list})
}
