package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/app/services"
	"github.com/yigit/tripplanner/internal/middleware"
)

// FeedbackController serves likes and check-ins. Each handler is bound to one target type
// so the same code serves /destinations and /events.
type FeedbackController struct {
	feedbackService services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

// ToggleLike handles POST /{destinations|events}/:id/like
func (c *FeedbackController) ToggleLike(target models.TargetType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		id, ok := parseIDParam(ctx, "id", string(target))
		if !ok {
			return
		}

		resp, err := c.feedbackService.ToggleLike(ctx.Request.Context(), userID, target, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, resp, "")
	}
}

// CheckIn handles POST /{destinations|events}/:id/checkin. The body is optional.
func (c *FeedbackController) CheckIn(target models.TargetType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		id, ok := parseIDParam(ctx, "id", string(target))
		if !ok {
			return
		}

		var req dto.CheckinRequest
		if ctx.Request.ContentLength > 0 {
			if err := ctx.ShouldBindJSON(&req); err != nil {
				middleware.HandleBindError(ctx, err)
				return
			}
		}

		resp, err := c.feedbackService.CheckIn(ctx.Request.Context(), userID, target, id, &req)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondCreated(ctx, resp, "Checked in successfully")
	}
}

// Status handles GET /me/{destinations|events}/feedback
func (c *FeedbackController) Status(target models.TargetType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}

		resp, err := c.feedbackService.Status(ctx.Request.Context(), userID, target)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, resp, "")
	}
}
