package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laundry-service-backend/internal/machine"
	"laundry-service-backend/internal/model"
)

// ListMachines handles GET /api/machines.
func (h *Handler) ListMachines(c *gin.Context) {
	machines, err := h.svc.Machines.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"machines": machines})
}

type createMachineRequest struct {
	Name       string            `json:"machine_name" binding:"required"`
	Type       model.MachineType `json:"machine_type" binding:"required"`
	CapacityKg float64           `json:"capacity_kg" binding:"gte=0"`
	Location   string            `json:"location"`
}

// CreateMachine handles POST /api/machines.
func (h *Handler) CreateMachine(c *gin.Context) {
	var req createMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	m, err := h.svc.Machines.Create(c.Request.Context(), machine.CreateRequest(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "machine": m})
}

type updateMachineRequest struct {
	Status string `json:"status" binding:"required,machinestatus"`
}

// UpdateMachine handles PATCH /api/machines/:machineId.
func (h *Handler) UpdateMachine(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("machineId"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid machine ID"})
		return
	}

	var req updateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	m, err := h.svc.Machines.SetStatus(c.Request.Context(), uint(id), model.MachineStatus(req.Status))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "machine": m})
}
