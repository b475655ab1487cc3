package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-service-backend/internal/account"
	"laundry-service-backend/internal/model"
)

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.Accounts.List(c.Request.Context(), model.Role(c.Query("role")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type registerRequest struct {
	Email    string     `json:"email" binding:"omitempty,email"`
	Password string     `json:"password"`
	FullName string     `json:"full_name"`
	Role     model.Role `json:"role"`
	Phone    string     `json:"phone"`
}

// RegisterUser handles POST /api/users.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.svc.Accounts.Register(c.Request.Context(), account.RegisterRequest(req))
	if err != nil {
		h.writeError(c, err)
		return
	}

	message := "Employee registered successfully"
	switch user.Role {
	case model.RoleCustomer:
		message = "Customer registered successfully"
	case model.RoleAdmin:
		message = "Admin registered successfully"
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
		"code":    user.Code,
		"message": message,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.svc.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
