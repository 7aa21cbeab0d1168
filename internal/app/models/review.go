package models

import (
	"time"

	"github.com/yigit/tripplanner/internal/pkg/apperrors"
)

// Review is a rated comment on exactly one destination or event
type Review struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"userId" db:"user_id"`
	DestinationID *int64    `json:"destinationId,omitempty" db:"destination_id"`
	EventID       *int64    `json:"eventId,omitempty" db:"event_id"`
	Rating        int       `json:"rating" db:"rating"`
	Comment       string    `json:"comment" db:"comment"`
	Sentiment     string    `json:"sentiment" db:"sentiment"`
	HelpfulCount  int       `json:"helpfulCount" db:"helpful_count"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	User *User `json:"user,omitempty"`
}

// Target returns the kind and id of the reviewed entity
func (r *Review) Target() (TargetType, int64) {
	if r.DestinationID != nil {
		return TargetDestination, *r.DestinationID
	}
	if r.EventID != nil {
		return TargetEvent, *r.EventID
	}
	return "", 0
}

// ValidateReviewTarget requires exactly one of destination and event
func ValidateReviewTarget(destinationID, eventID *int64) error {
	if (destinationID == nil) == (eventID == nil) {
		return apperrors.InvalidField("destinationId", "exactly one of destinationId and eventId must be set")
	}
	if destinationID != nil && *destinationID <= 0 {
		return apperrors.InvalidField("destinationId", "destinationId must be a positive integer")
	}
	if eventID != nil && *eventID <= 0 {
		return apperrors.InvalidField("eventId", "eventId must be a positive integer")
	}
	return nil
}

// ValidateRating requires an integer rating from 1 to 5
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.InvalidField("rating", "rating must be between 1 and 5")
	}
	return nil
}

// RatingSummary is the aggregate of the active reviews of one target
type RatingSummary struct {
	Average float64
	Count   int
}
