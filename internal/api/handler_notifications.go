package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListNotifications handles GET /api/notifications.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID required"})
		return
	}

	list, err := h.svc.Notifications.List(c.Request.Context(), uint(userID))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

type markReadRequest struct {
	NotificationID uint `json:"notification_id" binding:"required"`
}

// MarkNotificationRead handles PATCH /api/notifications.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.svc.Notifications.MarkRead(c.Request.Context(), req.NotificationID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
