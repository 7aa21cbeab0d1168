package models

import (
	"sort"
	"time"

	"github.com/yigit/tripplanner/internal/pkg/apperrors"
)

// TripStatus is the lifecycle state of a trip
type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusDraft:  {TripStatusActive, TripStatusCancelled},
	TripStatusActive: {TripStatusCompleted, TripStatusCancelled},
}

// IsValid reports whether s is a known status
func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusDraft, TripStatusActive, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// CanTransition reports whether a trip in s may move to next.
// Staying in the same status is always allowed.
func (s TripStatus) CanTransition(next TripStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range tripTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TripType describes who travels together
type TripType string

const (
	TripTypeSolo    TripType = "solo"
	TripTypeCouple  TripType = "couple"
	TripTypeFamily  TripType = "family"
	TripTypeFriends TripType = "friends"
	TripTypeGroup   TripType = "group"
)

// participantRule is the inclusive participant range of a trip type; max 0 means unbounded
type participantRule struct {
	min, max int
	fallback int
}

var participantRules = map[TripType]participantRule{
	TripTypeSolo:    {min: 1, max: 1, fallback: 1},
	TripTypeCouple:  {min: 2, max: 2, fallback: 2},
	TripTypeFamily:  {min: 3, fallback: 3},
	TripTypeFriends: {min: 2, fallback: 2},
	TripTypeGroup:   {min: 3, fallback: 3},
}

// IsValid reports whether t is a known trip type
func (t TripType) IsValid() bool {
	_, ok := participantRules[t]
	return ok
}

// Visibility controls who can read a trip
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityFriends Visibility = "friends"
	VisibilityPublic  Visibility = "public"
)

// IsValid reports whether v is a known visibility
func (v Visibility) IsValid() bool {
	return v == VisibilityPrivate || v == VisibilityFriends || v == VisibilityPublic
}

// ValidateTripTypeAndParticipantCount checks count against the range allowed for tripType:
// solo 1, couple 2, family 3+, friends 2+, group 3+.
func ValidateTripTypeAndParticipantCount(tripType TripType, count int) error {
	rule, ok := participantRules[tripType]
	if !ok {
		return apperrors.InvalidField("trip_type", "trip_type must be one of solo, couple, family, friends, group")
	}
	if count <= 0 {
		return apperrors.InvalidField("participant_count", "participant_count must be a positive integer")
	}

	switch {
	case rule.max != 0 && rule.min == rule.max && count != rule.min:
		return apperrors.InvalidField("participant_count",
			"participant_count for a %s trip must be exactly %d, got %d", tripType, rule.min, count)
	case count < rule.min:
		return apperrors.InvalidField("participant_count",
			"participant_count for a %s trip must be at least %d, got %d", tripType, rule.min, count)
	}
	return nil
}

// DefaultParticipantCount is the count assumed when only the trip type is given
func DefaultParticipantCount(tripType TripType) int {
	return participantRules[tripType].fallback
}

// DefaultTripType is the trip type assumed when only the participant count is given
func DefaultTripType(count int) TripType {
	switch {
	case count <= 1:
		return TripTypeSolo
	case count == 2:
		return TripTypeCouple
	default:
		return TripTypeGroup
	}
}

// ResolveTripTypeAndParticipantCount fills in whichever of the two is missing and
// validates the pair. Neither given means a solo trip for one.
func ResolveTripTypeAndParticipantCount(tripType *TripType, count *int) (TripType, int, error) {
	switch {
	case tripType == nil && count == nil:
		return TripTypeSolo, 1, nil
	case tripType == nil:
		if *count <= 0 {
			return "", 0, apperrors.InvalidField("participant_count", "participant_count must be a positive integer")
		}
		return DefaultTripType(*count), *count, nil
	case count == nil:
		if !tripType.IsValid() {
			return "", 0, apperrors.InvalidField("trip_type", "trip_type must be one of solo, couple, family, friends, group")
		}
		return *tripType, DefaultParticipantCount(*tripType), nil
	default:
		if err := ValidateTripTypeAndParticipantCount(*tripType, *count); err != nil {
			return "", 0, err
		}
		return *tripType, *count, nil
	}
}

// Trip is a user's travel plan made of ordered stops
type Trip struct {
	ID               int64         `json:"id" db:"id"`
	UserID           int64         `json:"userId" db:"user_id"`
	Title            string        `json:"title" db:"title"`
	Description      string        `json:"description" db:"description"`
	StartDate        *time.Time    `json:"startDate,omitempty" db:"start_date"`
	EndDate          *time.Time    `json:"endDate,omitempty" db:"end_date"`
	Budget           float64       `json:"budget" db:"budget"`
	ActualCost       float64       `json:"actualCost" db:"actual_cost"`
	Status           TripStatus    `json:"status" db:"status"`
	TransportMode    TransportMode `json:"transportMode" db:"transport_mode"`
	TripType         TripType      `json:"tripType" db:"trip_type"`
	ParticipantCount int           `json:"participantCount" db:"participant_count"`
	Visibility       Visibility    `json:"visibility" db:"visibility"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time     `json:"updatedAt" db:"updated_at"`

	Stops []*TripStop `json:"stops,omitempty"`
}

// Validate checks the field level invariants of a trip
func (t *Trip) Validate() error {
	if t.Title == "" {
		return apperrors.InvalidField("title", "title is required")
	}
	if t.StartDate != nil && t.EndDate != nil && t.StartDate.After(*t.EndDate) {
		return apperrors.InvalidField("end_date", "end_date must not be before start_date")
	}
	if t.Budget < 0 {
		return apperrors.InvalidField("budget", "budget must not be negative")
	}
	if t.ActualCost < 0 {
		return apperrors.InvalidField("actual_cost", "actual_cost must not be negative")
	}
	if !t.TransportMode.IsValid() {
		return apperrors.InvalidField("transport_mode", "transport_mode must be one of walking, bicycle, motorbike, car, bus, train, plane, mixed")
	}
	if !t.Visibility.IsValid() {
		return apperrors.InvalidField("visibility", "visibility must be one of private, friends, public")
	}
	return ValidateTripTypeAndParticipantCount(t.TripType, t.ParticipantCount)
}

// StopKind tells which table a trip stop lives in
type StopKind string

const (
	StopDestination StopKind = "destination"
	StopEvent       StopKind = "event"
)

// IsValid reports whether k is destination or event
func (k StopKind) IsValid() bool {
	return k == StopDestination || k == StopEvent
}

// TripStop is one destination or event in a trip (trip_destinations / trip_events)
type TripStop struct {
	TripID            int64      `json:"tripId" db:"trip_id"`
	Kind              StopKind   `json:"kind"`
	TargetID          int64      `json:"targetId"`
	VisitOrder        int        `json:"visitOrder" db:"visit_order"`
	EstimatedDuration *int       `json:"estimatedDuration,omitempty" db:"estimated_duration"`
	ActualDuration    *int       `json:"actualDuration,omitempty" db:"actual_duration"`
	VisitDate         *time.Time `json:"visitDate,omitempty" db:"visit_date"`
	StartTime         *string    `json:"startTime,omitempty" db:"start_time"`
	Notes             *string    `json:"notes,omitempty" db:"notes"`
	IsCompleted       bool       `json:"isCompleted" db:"is_completed"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`

	Destination *Destination `json:"destination,omitempty"`
	Event       *Event       `json:"event,omitempty"`
}

// SortStops orders stops by visit order, then destinations before events, then target id
func SortStops(stops []*TripStop) {
	sort.SliceStable(stops, func(i, j int) bool {
		a, b := stops[i], stops[j]
		if a.VisitOrder != b.VisitOrder {
			return a.VisitOrder < b.VisitOrder
		}
		if a.Kind != b.Kind {
			return a.Kind == StopDestination
		}
		return a.TargetID < b.TargetID
	})
}

// StopOrder is one entry of a reorder request
type StopOrder struct {
	TargetID   int64 `json:"targetId"`
	VisitOrder int   `json:"visitOrder"`
}
