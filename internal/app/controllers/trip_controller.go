package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/app/services"
	"github.com/yigit/tripplanner/internal/middleware"
)

// TripController handles trips and their stops
type TripController struct {
	tripService services.TripService
}

// NewTripController creates a new TripController
func NewTripController(tripService services.TripService) *TripController {
	return &TripController{tripService: tripService}
}

// CreateTrip handles POST /trips
func (c *TripController) CreateTrip(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	trip, err := c.tripService.CreateTrip(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, trip, "Trip created successfully")
}

// ListMyTrips handles GET /trips?status=&page=&limit=
func (c *TripController) ListMyTrips(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.TripListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.tripService.ListMyTrips(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// GetTrip handles GET /trips/:id
func (c *TripController) GetTrip(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	tripID, ok := parseIDParam(ctx, "id", "Trip")
	if !ok {
		return
	}

	trip, err := c.tripService.GetTrip(ctx.Request.Context(), userID, tripID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, trip, "")
}

// UpdateTrip handles PUT /trips/:id
func (c *TripController) UpdateTrip(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	tripID, ok := parseIDParam(ctx, "id", "Trip")
	if !ok {
		return
	}

	var req dto.UpdateTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	trip, err := c.tripService.UpdateTrip(ctx.Request.Context(), userID, tripID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, trip, "Trip updated successfully")
}

// UpdateStatus handles PATCH /trips/:id/status
func (c *TripController) UpdateStatus(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	tripID, ok := parseIDParam(ctx, "id", "Trip")
	if !ok {
		return
	}

	var req dto.UpdateTripStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	trip, err := c.tripService.UpdateStatus(ctx.Request.Context(), userID, tripID, models.TripStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, trip, "Trip status updated successfully")
}

// DeleteTrip handles DELETE /trips/:id
func (c *TripController) DeleteTrip(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	tripID, ok := parseIDParam(ctx, "id", "Trip")
	if !ok {
		return
	}

	if err := c.tripService.DeleteTrip(ctx.Request.Context(), userID, tripID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Trip deleted successfully")
}

// AddStop handles POST /trips/:id/{destinations|events}
func (c *TripController) AddStop(kind models.StopKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		tripID, ok := parseIDParam(ctx, "id", "Trip")
		if !ok {
			return
		}

		var req dto.AddStopRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}

		stop, err := c.tripService.AddStop(ctx.Request.Context(), userID, tripID, kind, &req)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondCreated(ctx, stop, "Stop added successfully")
	}
}

// RemoveStop handles DELETE /trips/:id/{destinations|events}/:targetId
func (c *TripController) RemoveStop(kind models.StopKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		tripID, ok := parseIDParam(ctx, "id", "Trip")
		if !ok {
			return
		}
		targetID, ok := parseIDParam(ctx, "targetId", string(kind))
		if !ok {
			return
		}

		if err := c.tripService.RemoveStop(ctx.Request.Context(), userID, tripID, kind, targetID); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, nil, "Stop removed successfully")
	}
}

// ReorderStops handles PUT /trips/:id/{destinations|events}/reorder
func (c *TripController) ReorderStops(kind models.StopKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		tripID, ok := parseIDParam(ctx, "id", "Trip")
		if !ok {
			return
		}

		var req dto.ReorderStopsRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}

		stops, err := c.tripService.ReorderStops(ctx.Request.Context(), userID, tripID, kind, req.Orders)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, stops, "Stops reordered successfully")
	}
}

// UpdateStop handles PATCH /trips/:id/{destinations|events}/:targetId
func (c *TripController) UpdateStop(kind models.StopKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		tripID, ok := parseIDParam(ctx, "id", "Trip")
		if !ok {
			return
		}
		targetID, ok := parseIDParam(ctx, "targetId", string(kind))
		if !ok {
			return
		}

		var req dto.UpdateStopRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			middleware.HandleBindError(ctx, err)
			return
		}

		stop, err := c.tripService.UpdateStop(ctx.Request.Context(), userID, tripID, kind, targetID, &req)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, stop, "Stop updated successfully")
	}
}
