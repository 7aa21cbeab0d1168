package models

import (
	"time"

	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/geo"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

// Event is a time-bounded happening, optionally hosted at a destination
type Event struct {
	ID             int64     `json:"id" db:"id"`
	CategoryID     *int64    `json:"categoryId,omitempty" db:"category_id"`
	DestinationID  *int64    `json:"destinationId,omitempty" db:"destination_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	Address        string    `json:"address" db:"address"`
	Latitude       *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude      *float64  `json:"longitude,omitempty" db:"longitude"`
	EventStart     time.Time `json:"eventStart" db:"event_start"`
	EventEnd       time.Time `json:"eventEnd" db:"event_end"`
	TicketPrice    float64   `json:"ticketPrice" db:"event_ticket_price"`
	Capacity       *int      `json:"capacity,omitempty" db:"event_capacity"`
	TotalAttendees int       `json:"totalAttendees" db:"total_attendees"`
	TotalLikes     int       `json:"totalLikes" db:"total_likes"`
	TotalCheckins  int       `json:"totalCheckins" db:"total_checkins"`
	Rating         float64   `json:"rating" db:"rating"`
	TotalReviews   int       `json:"totalReviews" db:"total_reviews"`
	Tags           []string  `json:"tags" db:"tags"`
	IsFeatured     bool      `json:"isFeatured" db:"is_featured"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Populated by listing queries
	Category       *Category `json:"category,omitempty"`
	VenueHiddenGem bool      `json:"-"`
	DistanceMeters *float64  `json:"distanceMeters,omitempty"`
}

// Point returns the stored coordinates, nil when the event has none
func (e *Event) Point() *geo.Point {
	if e.Latitude == nil || e.Longitude == nil {
		return nil
	}
	return &geo.Point{Lat: *e.Latitude, Lng: *e.Longitude}
}

// IsOpenAt reports whether t falls inside the event window
func (e *Event) IsOpenAt(t time.Time) bool {
	return !t.Before(e.EventStart) && !t.After(e.EventEnd)
}

// Validate checks the invariants an admin write must keep
func (e *Event) Validate() error {
	if e.Name == "" {
		return apperrors.InvalidField("name", "name is required")
	}
	if !e.EventStart.Before(e.EventEnd) {
		return apperrors.InvalidField("eventEnd", "eventStart must be before eventEnd")
	}
	if _, err := geo.PointFromPair(e.Latitude, e.Longitude); err != nil {
		return err
	}
	if e.TicketPrice < 0 {
		return apperrors.InvalidField("ticketPrice", "ticketPrice must not be negative")
	}
	if e.Capacity != nil && *e.Capacity <= 0 {
		return apperrors.InvalidField("capacity", "capacity must be a positive integer")
	}
	return nil
}

// SearchRecord exposes the event to in-memory search evaluation
func (e *Event) SearchRecord() search.Record {
	r := search.Record{
		ID:           e.ID,
		Name:         e.Name,
		CategoryID:   e.CategoryID,
		Price:        e.TicketPrice,
		Point:        e.Point(),
		Rating:       e.Rating,
		TotalReviews: e.TotalReviews,
		Popularity:   []int64{int64(e.TotalAttendees), int64(e.TotalCheckins)},
		CreatedAt:    e.CreatedAt,
		HiddenGem:    e.VenueHiddenGem,
		OpenAt:       e.IsOpenAt,
	}
	if e.Category != nil {
		r.ContextTags = e.Category.ContextTags
	}
	return r
}
