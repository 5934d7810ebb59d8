package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dgarrido/wedding-server/config"
	"github.com/dgarrido/wedding-server/middleware"
	"github.com/dgarrido/wedding-server/models"
	"github.com/dgarrido/wedding-server/services"
	"github.com/dgarrido/wedding-server/utils"
)

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates with email + password. On first login the password is
// the invite code the admin handed out.
func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var identity models.Identity
	if err := config.DB.Where("email = ?", req.Email).First(&identity).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	if !utils.CheckPassword(identity.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := utils.GenerateToken(fmt.Sprintf("%d", identity.ID), identity.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to issue session"})
		return
	}

	// a fresh session must never see a stale bundle
	services.Cache.Invalidate(identity.ID)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"identity": gin.H{
			"id":    identity.ID,
			"email": identity.Email,
		},
	})
}

type ChangePasswordReq struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword lets a guest replace the one-time invite code.
func ChangePassword(c *gin.Context) {
	identity := c.MustGet(middleware.CtxIdentity).(models.Identity)

	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	if !utils.CheckPassword(identity.PasswordHash, req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Current password is incorrect"})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to update password"})
		return
	}
	if err := config.DB.Model(&models.Identity{}).Where("id = ?", identity.ID).
		Update("password_hash", hash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to update password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// Me returns the authenticated identity plus the guest bundle when one
// exists. Admin accounts legitimately have no bundle.
func Me(c *gin.Context) {
	identity := c.MustGet(middleware.CtxIdentity).(models.Identity)

	var adminCount int64
	if err := config.DB.Model(&models.AdminUser{}).Where("email = ?", identity.Email).
		Count(&adminCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to verify admin access"})
		return
	}

	resp := gin.H{
		"identity": gin.H{
			"id":    identity.ID,
			"email": identity.Email,
		},
		"is_admin": adminCount > 0,
		"guest":    nil,
	}

	data, err := services.Cache.Load(config.DB, identity.ID)
	switch {
	case err == nil:
		resp["guest"] = data
	case errors.Is(err, services.ErrNoGuestRecord):
		// not an error: admins have no guest row
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Unable to load guest information",
			"retryable": true,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
