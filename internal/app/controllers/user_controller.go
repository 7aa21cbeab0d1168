package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/app/services"
	"github.com/yigit/tripplanner/internal/middleware"
)

// UserController serves the caller's own travel preferences
type UserController struct {
	preferenceService services.PreferenceService
}

// NewUserController creates a new UserController
func NewUserController(preferenceService services.PreferenceService) *UserController {
	return &UserController{preferenceService: preferenceService}
}

// GetPreferences handles GET /me/preferences
func (c *UserController) GetPreferences(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	pref, err := c.preferenceService.GetPreferences(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, pref, "")
}

// UpdatePreferences handles PUT /me/preferences
func (c *UserController) UpdatePreferences(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePreferenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	pref, err := c.preferenceService.UpdatePreferences(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, pref, "Preferences updated successfully")
}
