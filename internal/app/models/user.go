package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"traveler@example.com"`
	Password  string    `json:"-" db:"password"` // bcrypt hash
	FullName  string    `json:"fullName" db:"full_name" example:"Nguyen Van A"`
	Role      UserRole  `json:"role" db:"role" example:"user"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserPreference holds the travel preferences of one user
type UserPreference struct {
	UserID             int64         `json:"userId" db:"user_id"`
	TravelStyles       []string      `json:"travelStyles" db:"travel_styles"`
	PreferredContexts  []string      `json:"preferredContexts" db:"preferred_contexts"`
	BudgetMin          *float64      `json:"budgetMin,omitempty" db:"budget_min"`
	BudgetMax          *float64      `json:"budgetMax,omitempty" db:"budget_max"`
	PreferredTransport TransportMode `json:"preferredTransport,omitempty" db:"preferred_transport"`
	HomeLatitude       *float64      `json:"homeLatitude,omitempty" db:"home_latitude"`
	HomeLongitude      *float64      `json:"homeLongitude,omitempty" db:"home_longitude"`
	UpdatedAt          time.Time     `json:"updatedAt" db:"updated_at"`
}
