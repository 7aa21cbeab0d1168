package dto

import (
	"time"

	"github.com/yigit/tripplanner/internal/pkg/helpers"
)

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewErrorAPIResponse wraps an error detail in a failed envelope
func NewErrorAPIResponse(detail *ErrorDetail) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     detail,
		Timestamp: time.Now(),
	}
}

// PaginationInfo is the page block returned with every listing
type PaginationInfo = helpers.PaginationInfo

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// NewPaginatedResponse builds a PaginatedResponse, never returning a nil item list
func NewPaginatedResponse[T any](items []T, pagination PaginationInfo) PaginatedResponse {
	if items == nil {
		items = []T{}
	}
	return PaginatedResponse{Items: items, Pagination: pagination}
}

// PageRequest carries the page and limit query parameters
type PageRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
