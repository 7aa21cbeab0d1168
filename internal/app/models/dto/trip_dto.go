package dto

import (
	"time"

	"github.com/yigit/tripplanner/internal/app/models"
)

// CreateTripRequest creates a draft trip for the caller
type CreateTripRequest struct {
	Title            string     `json:"title" binding:"required,max=200"`
	Description      string     `json:"description"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	Budget           float64    `json:"budget" binding:"gte=0"`
	TransportMode    string     `json:"transportMode" binding:"omitempty,oneof=walking bicycle motorbike car bus train plane mixed"`
	TripType         *string    `json:"tripType" binding:"omitempty,oneof=solo couple family friends group"`
	ParticipantCount *int       `json:"participantCount"`
	Visibility       string     `json:"visibility" binding:"omitempty,oneof=private friends public"`
}

// UpdateTripRequest changes the supplied fields only
type UpdateTripRequest struct {
	Title            *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description      *string    `json:"description"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	Budget           *float64   `json:"budget" binding:"omitempty,gte=0"`
	ActualCost       *float64   `json:"actualCost" binding:"omitempty,gte=0"`
	TransportMode    *string    `json:"transportMode" binding:"omitempty,oneof=walking bicycle motorbike car bus train plane mixed"`
	TripType         *string    `json:"tripType" binding:"omitempty,oneof=solo couple family friends group"`
	ParticipantCount *int       `json:"participantCount"`
	Visibility       *string    `json:"visibility" binding:"omitempty,oneof=private friends public"`
}

// UpdateTripStatusRequest moves a trip through its lifecycle
type UpdateTripStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft active completed cancelled"`
}

// TripListRequest pages through the caller's trips
type TripListRequest struct {
	PageRequest
	Status string `form:"status" binding:"omitempty,oneof=draft active completed cancelled"`
}

// AddStopRequest adds a destination or event to a trip. VisitOrder defaults to the end of the list.
type AddStopRequest struct {
	TargetID          int64      `json:"targetId" binding:"required,gt=0"`
	VisitOrder        *int       `json:"visitOrder" binding:"omitempty,gt=0"`
	EstimatedDuration *int       `json:"estimatedDuration" binding:"omitempty,gt=0"`
	VisitDate         *time.Time `json:"visitDate"`
	StartTime         *string    `json:"startTime"`
	Notes             *string    `json:"notes"`
}

// UpdateStopRequest edits the planning fields of a stop
type UpdateStopRequest struct {
	EstimatedDuration *int       `json:"estimatedDuration" binding:"omitempty,gt=0"`
	ActualDuration    *int       `json:"actualDuration" binding:"omitempty,gt=0"`
	VisitDate         *time.Time `json:"visitDate"`
	StartTime         *string    `json:"startTime"`
	Notes             *string    `json:"notes"`
	IsCompleted       *bool      `json:"isCompleted"`
}

// ReorderStopsRequest rewrites the visit order of the listed stops
type ReorderStopsRequest struct {
	Orders []models.StopOrder `json:"orders" binding:"required,min=1,dive"`
}

// TripResponse is a trip with its stops and aggregates
type TripResponse struct {
	*models.Trip
	EstimatedCost float64  `json:"estimatedCost"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	StopCount     int      `json:"stopCount"`
}

// StopResponse is returned by add and update stop
type StopResponse struct {
	*models.TripStop
}

// LikeResponse is the state after a like toggle
type LikeResponse struct {
	Liked      bool `json:"liked"`
	TotalLikes int  `json:"totalLikes"`
}

// CheckinRequest optionally carries where the user checked in from
type CheckinRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// CheckinResponse is the state after a check-in
type CheckinResponse struct {
	CheckedIn     bool      `json:"checkedIn"`
	TotalCheckins int       `json:"totalCheckins"`
	CheckedInAt   time.Time `json:"checkedInAt"`
}

// FeedbackStatusResponse lists the targets of one kind the caller liked or checked in to
type FeedbackStatusResponse struct {
	TargetType models.TargetType `json:"targetType"`
	Liked      []int64           `json:"liked"`
	CheckedIn  []int64           `json:"checkedIn"`
}
