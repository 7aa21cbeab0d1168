package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/app/services"
	"github.com/yigit/tripplanner/internal/middleware"
	"github.com/yigit/tripplanner/internal/pkg/helpers"
)

// ReviewController handles reviews and helpful votes
type ReviewController struct {
	reviewService services.ReviewService
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService services.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// ListReviews handles GET /{destinations|events}/:id/reviews, newest first
func (c *ReviewController) ListReviews(target models.TargetType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := parseIDParam(ctx, "id", string(target))
		if !ok {
			return
		}
		page, limit := helpers.ParsePaginationParams(ctx)

		resp, err := c.reviewService.ListReviews(ctx.Request.Context(), target, id, page, limit)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, resp, "")
	}
}

// CreateReview handles POST /reviews
func (c *ReviewController) CreateReview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	review, err := c.reviewService.CreateReview(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, review, "Review created successfully")
}

// UpdateReview handles PUT /reviews/:id
func (c *ReviewController) UpdateReview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "Review")
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	review, err := c.reviewService.UpdateReview(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, review, "Review updated successfully")
}

// DeleteReview handles DELETE /reviews/:id
func (c *ReviewController) DeleteReview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "Review")
	if !ok {
		return
	}

	if err := c.reviewService.DeleteReview(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Review deleted successfully")
}

// MarkHelpful handles POST /reviews/:id/helpful
func (c *ReviewController) MarkHelpful(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "Review")
	if !ok {
		return
	}

	resp, err := c.reviewService.MarkHelpful(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}
