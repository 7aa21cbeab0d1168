package dto

import (
	"time"

	"github.com/yigit/tripplanner/internal/app/models"
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,password,max=72"`
	FullName string `json:"fullName" binding:"required,min=2,max=100"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  *UserResponse  `json:"user"`
	Token *TokenResponse `json:"token"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        int64           `json:"id"`
	Email     string          `json:"email"`
	FullName  string          `json:"fullName"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewUserResponse converts a user model
func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// UpdatePreferenceRequest replaces the caller's travel preferences
type UpdatePreferenceRequest struct {
	TravelStyles       []string `json:"travelStyles" binding:"omitempty,dive,oneof=adventure relaxation culture food nature nightlife shopping"`
	PreferredContexts  []string `json:"preferredContexts" binding:"omitempty,dive,oneof=solo couple family friends"`
	BudgetMin          *float64 `json:"budgetMin" binding:"omitempty,gte=0"`
	BudgetMax          *float64 `json:"budgetMax" binding:"omitempty,gte=0"`
	PreferredTransport string   `json:"preferredTransport" binding:"omitempty,oneof=walking bicycle motorbike car bus train plane mixed"`
	HomeLatitude       *float64 `json:"homeLatitude"`
	HomeLongitude      *float64 `json:"homeLongitude"`
}
