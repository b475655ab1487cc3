package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-service-backend/internal/order"
)

type createOrderRequest struct {
	CustomerID  string  `json:"customer_id"`
	WeightKg    float64 `json:"weight_kg" binding:"gte=0"`
	CycleType   string  `json:"cycle_type"`
	TempSetting string  `json:"temp_setting"`
	SpinSpeed   int     `json:"spin_speed" binding:"gte=0"`
	Notes       string  `json:"notes"`
}

// CreateOrder handles POST /api/orders.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	o, err := h.svc.Orders.Create(c.Request.Context(), order.CreateRequest(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "order_id": o.Code, "order": o})
}

// ListOrders handles GET /api/orders.
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.svc.Orders.List(c.Request.Context(), order.ListFilter{
		CustomerID: c.Query("customer_id"),
		OrderID:    c.Query("order_id"),
		Status:     c.Query("status"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// TrackOrder handles GET /api/orders/track. order_id wins over customer_id.
func (h *Handler) TrackOrder(c *gin.Context) {
	orderID := c.Query("order_id")
	customerID := c.Query("customer_id")

	switch {
	case orderID != "":
		detail, err := h.svc.Orders.TrackOrder(c.Request.Context(), orderID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	case customerID != "":
		orders, err := h.svc.Orders.TrackCustomer(c.Request.Context(), customerID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID or Customer ID required"})
	}
}

// GetOrder handles GET /api/orders/:orderId.
func (h *Handler) GetOrder(c *gin.Context) {
	detail, err := h.svc.Orders.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updateOrderRequest struct {
	Status     string `json:"status" binding:"required,orderstatus"`
	MachineID  *uint  `json:"machine_id"`
	EmployeeID string `json:"employee_id"`
	Notes      string `json:"notes"`
}

// UpdateOrder handles PATCH /api/orders/:orderId.
func (h *Handler) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	o, err := h.svc.Orders.Transition(c.Request.Context(), order.TransitionRequest{
		OrderID:    c.Param("orderId"),
		Status:     req.Status,
		MachineID:  req.MachineID,
		EmployeeID: req.EmployeeID,
		Notes:      req.Notes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": o})
}
