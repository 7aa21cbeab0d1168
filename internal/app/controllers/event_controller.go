package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/app/services"
	"github.com/yigit/tripplanner/internal/middleware"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

// EventController handles event listing, lookup and admin writes
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// SearchEvents handles GET /events
func (c *EventController) SearchEvents(ctx *gin.Context) {
	var opts search.Options
	if err := ctx.ShouldBindQuery(&opts); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.eventService.SearchEvents(ctx.Request.Context(), opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// NearbyEvents handles GET /events/nearby
func (c *EventController) NearbyEvents(ctx *gin.Context) {
	var req dto.NearbyRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	items, err := c.eventService.NearbyEvents(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, items, "")
}

// UpcomingEvents handles GET /events/upcoming?days=
func (c *EventController) UpcomingEvents(ctx *gin.Context) {
	var req dto.UpcomingEventsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.eventService.UpcomingEvents(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp, "")
}

// GetEvent handles GET /events/:id
func (c *EventController) GetEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	e, err := c.eventService.GetEvent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, e, "")
}

// CreateEvent handles POST /admin/events
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	e, err := c.eventService.CreateEvent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, e, "Event created successfully")
}

// UpdateEvent handles PUT /admin/events/:id
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	var req dto.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	e, err := c.eventService.UpdateEvent(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, e, "Event updated successfully")
}

// DeactivateEvent handles DELETE /admin/events/:id
func (c *EventController) DeactivateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	if err := c.eventService.DeactivateEvent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, nil, "Event deactivated successfully")
}
