package admin

import (
	"errors"

	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest updates the signed-in admin's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// AdminLogin signs an admin in and returns a JWT.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "invalid username or password", nil)
		default:
			respondError(c, response.CodeInternal, "login failed", err)
		}
		return
	}
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}

// UpdateAdminPassword changes the signed-in admin's password.
func (h *Handler) UpdateAdminPassword(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	if err := h.AuthService.ChangePassword(adminID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeBadRequest, "password rejected", nil)
		case errors.Is(err, service.ErrAdminNotFound):
			respondError(c, response.CodeUnauthorized, "unauthorized", nil)
		default:
			respondError(c, response.CodeInternal, "password change failed", err)
		}
		return
	}
	response.Success(c, gin.H{"changed": true})
}
