package models

import "time"

// Category is seeded reference data; every destination belongs to exactly one
type Category struct {
	ID                   int64       `json:"id" db:"id"`
	Name                 string      `json:"name" db:"name"`
	Icon                 string      `json:"icon" db:"icon"`
	TravelStyle          TravelStyle `json:"travelStyle" db:"travel_style"`
	ContextTags          []string    `json:"contextTags" db:"context_tags"`
	PopularityScore      int         `json:"popularityScore" db:"popularity_score"`
	AverageVisitDuration int         `json:"averageVisitDuration" db:"average_visit_duration"` // minutes
	CreatedAt            time.Time   `json:"createdAt" db:"created_at"`
}
