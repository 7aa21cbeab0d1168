package dto

import (
	"time"

	"github.com/yigit/tripplanner/internal/app/models"
)

// CategoryFilterRequest filters the category list
type CategoryFilterRequest struct {
	TravelStyle string `form:"travelStyle"`
	Context     string `form:"context"`
}

// NearbyRequest is the query of the nearby endpoints
type NearbyRequest struct {
	Lat    *float64 `form:"lat" binding:"required"`
	Lng    *float64 `form:"lng" binding:"required"`
	Radius *float64 `form:"radius"`
	Limit  int      `form:"limit"`
}

// DestinationRequest is the admin create and update payload of a destination
type DestinationRequest struct {
	CategoryID          int64             `json:"categoryId" binding:"required,gt=0"`
	Name                string            `json:"name" binding:"required,max=200"`
	Description         string            `json:"description"`
	Address             string            `json:"address"`
	Latitude            *float64          `json:"latitude"`
	Longitude           *float64          `json:"longitude"`
	AverageCost         float64           `json:"averageCost" binding:"gte=0"`
	Tags                []string          `json:"tags"`
	OpeningHours        map[string]string `json:"openingHours" binding:"omitempty,dive,hours"`
	IsHiddenGem         bool              `json:"isHiddenGem"`
	IsVerified          bool              `json:"isVerified"`
	IsFeatured          bool              `json:"isFeatured"`
	RecommendedDuration int               `json:"recommendedDuration" binding:"required,gt=0"`
}

// ToModel copies the payload onto d
func (r *DestinationRequest) ToModel(d *models.Destination) {
	d.CategoryID = r.CategoryID
	d.Name = r.Name
	d.Description = r.Description
	d.Address = r.Address
	d.Latitude = r.Latitude
	d.Longitude = r.Longitude
	d.AverageCost = r.AverageCost
	d.Tags = r.Tags
	d.OpeningHours = models.OpeningHours(r.OpeningHours)
	d.IsHiddenGem = r.IsHiddenGem
	d.IsVerified = r.IsVerified
	d.IsFeatured = r.IsFeatured
	d.RecommendedDuration = r.RecommendedDuration
	if d.Tags == nil {
		d.Tags = []string{}
	}
}

// EventRequest is the admin create and update payload of an event
type EventRequest struct {
	CategoryID    *int64    `json:"categoryId" binding:"omitempty,gt=0"`
	DestinationID *int64    `json:"destinationId" binding:"omitempty,gt=0"`
	Name          string    `json:"name" binding:"required,max=200"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	EventStart    time.Time `json:"eventStart" binding:"required"`
	EventEnd      time.Time `json:"eventEnd" binding:"required"`
	TicketPrice   float64   `json:"ticketPrice" binding:"gte=0"`
	Capacity      *int      `json:"capacity" binding:"omitempty,gt=0"`
	Tags          []string  `json:"tags"`
	IsFeatured    bool      `json:"isFeatured"`
}

// ToModel copies the payload onto e
func (r *EventRequest) ToModel(e *models.Event) {
	e.CategoryID = r.CategoryID
	e.DestinationID = r.DestinationID
	e.Name = r.Name
	e.Description = r.Description
	e.Address = r.Address
	e.Latitude = r.Latitude
	e.Longitude = r.Longitude
	e.EventStart = r.EventStart
	e.EventEnd = r.EventEnd
	e.TicketPrice = r.TicketPrice
	e.Capacity = r.Capacity
	e.Tags = r.Tags
	e.IsFeatured = r.IsFeatured
	if e.Tags == nil {
		e.Tags = []string{}
	}
}

// UpcomingEventsRequest pages through events that have not ended
type UpcomingEventsRequest struct {
	PageRequest
	Days int `form:"days"`
}
