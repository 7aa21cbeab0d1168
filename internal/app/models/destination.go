package models

import (
	"time"

	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/geo"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

// Destination is a place travellers can visit. Rating and the total_* counters are
// derived and only change through reviews and feedback.
type Destination struct {
	ID                  int64        `json:"id" db:"id"`
	CategoryID          int64        `json:"categoryId" db:"category_id"`
	Name                string       `json:"name" db:"name"`
	Description         string       `json:"description" db:"description"`
	Address             string       `json:"address" db:"address"`
	Latitude            *float64     `json:"latitude,omitempty" db:"latitude"`
	Longitude           *float64     `json:"longitude,omitempty" db:"longitude"`
	AverageCost         float64      `json:"averageCost" db:"average_cost"`
	Rating              float64      `json:"rating" db:"rating"`
	TotalReviews        int          `json:"totalReviews" db:"total_reviews"`
	TotalLikes          int          `json:"totalLikes" db:"total_likes"`
	TotalCheckins       int          `json:"totalCheckins" db:"total_checkins"`
	Tags                []string     `json:"tags" db:"tags"`
	OpeningHours        OpeningHours `json:"openingHours,omitempty" db:"opening_hours"`
	IsHiddenGem         bool         `json:"isHiddenGem" db:"is_hidden_gem"`
	IsVerified          bool         `json:"isVerified" db:"is_verified"`
	IsFeatured          bool         `json:"isFeatured" db:"is_featured"`
	IsActive            bool         `json:"isActive" db:"is_active"`
	RecommendedDuration int          `json:"recommendedDuration" db:"recommended_duration"` // minutes
	CreatedAt           time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time    `json:"updatedAt" db:"updated_at"`

	// Populated by listing queries
	Category       *Category `json:"category,omitempty"`
	DistanceMeters *float64  `json:"distanceMeters,omitempty"`
}

// Point returns the stored coordinates, nil when the destination has none
func (d *Destination) Point() *geo.Point {
	if d.Latitude == nil || d.Longitude == nil {
		return nil
	}
	return &geo.Point{Lat: *d.Latitude, Lng: *d.Longitude}
}

// Validate checks the invariants an admin write must keep
func (d *Destination) Validate() error {
	if d.CategoryID <= 0 {
		return apperrors.InvalidField("categoryId", "categoryId is required")
	}
	if d.Name == "" {
		return apperrors.InvalidField("name", "name is required")
	}
	if _, err := geo.PointFromPair(d.Latitude, d.Longitude); err != nil {
		return err
	}
	if d.AverageCost < 0 {
		return apperrors.InvalidField("averageCost", "averageCost must not be negative")
	}
	if d.RecommendedDuration <= 0 {
		return apperrors.InvalidField("recommendedDuration", "recommendedDuration must be a positive number of minutes")
	}
	if err := d.OpeningHours.Validate(); err != nil {
		return apperrors.InvalidField("openingHours", "%s", err.Error())
	}
	return nil
}

// SearchRecord exposes the destination to in-memory search evaluation
func (d *Destination) SearchRecord() search.Record {
	categoryID := d.CategoryID
	r := search.Record{
		ID:           d.ID,
		Name:         d.Name,
		CategoryID:   &categoryID,
		Price:        d.AverageCost,
		Point:        d.Point(),
		Rating:       d.Rating,
		TotalReviews: d.TotalReviews,
		Popularity:   []int64{int64(d.TotalLikes), int64(d.TotalCheckins)},
		CreatedAt:    d.CreatedAt,
		HiddenGem:    d.IsHiddenGem,
		OpenAt:       d.OpeningHours.IsOpenAt,
	}
	if d.Category != nil {
		r.ContextTags = d.Category.ContextTags
	}
	return r
}
