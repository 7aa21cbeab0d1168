package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/app/services"
	"github.com/yigit/tripplanner/internal/middleware"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

// DestinationController handles destination listing, lookup and admin writes
type DestinationController struct {
	destinationService services.DestinationService
}

// NewDestinationController creates a new DestinationController
func NewDestinationController(destinationService services.DestinationService) *DestinationController {
	return &DestinationController{destinationService: destinationService}
}

// SearchDestinations handles GET /destinations with the search, filter, sort and page query parameters
func (c *DestinationController) SearchDestinations(ctx *gin.Context) {
	var opts search.Options
	if err := ctx.ShouldBindQuery(&opts); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.destinationService.SearchDestinations(ctx.Request.Context(), opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// NearbyDestinations handles GET /destinations/nearby?lat=&lng=&radius=
func (c *DestinationController) NearbyDestinations(ctx *gin.Context) {
	var req dto.NearbyRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	items, err := c.destinationService.NearbyDestinations(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, items, "")
}

// FeaturedDestinations handles GET /destinations/featured
func (c *DestinationController) FeaturedDestinations(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	items, err := c.destinationService.FeaturedDestinations(ctx.Request.Context(), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, items, "")
}

// GetDestination handles GET /destinations/:id
func (c *DestinationController) GetDestination(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Destination")
	if !ok {
		return
	}

	d, err := c.destinationService.GetDestination(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, d, "")
}

// CreateDestination handles POST /admin/destinations
func (c *DestinationController) CreateDestination(ctx *gin.Context) {
	var req dto.DestinationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	d, err := c.destinationService.CreateDestination(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, d, "Destination created successfully")
}

// UpdateDestination handles PUT /admin/destinations/:id
func (c *DestinationController) UpdateDestination(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Destination")
	if !ok {
		return
	}

	var req dto.DestinationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	d, err := c.destinationService.UpdateDestination(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, d, "Destination updated successfully")
}

// DeactivateDestination handles DELETE /admin/destinations/:id. The row is kept, only hidden.
func (c *DestinationController) DeactivateDestination(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Destination")
	if !ok {
		return
	}

	if err := c.destinationService.DeactivateDestination(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Destination deactivated successfully")
}
