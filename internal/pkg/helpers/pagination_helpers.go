package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

// PaginationInfo describes one page of a listing
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// NormalizePage clamps page and size to the supported range.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	page, size = NormalizePage(page, size)
	return uint64((page - 1) * size), uint64(size)
}

// TotalPages returns ceil(totalItems/size); zero items give zero pages.
func TotalPages(totalItems int64, size int) int {
	if size <= 0 || totalItems <= 0 {
		return 0
	}
	return int((totalItems + int64(size) - 1) / int64(size))
}

// NewPaginationInfo creates the pagination block returned with every listing.
// page is 1-based and is reported as requested, even past the last page.
func NewPaginationInfo(totalItems int64, page, size int) PaginationInfo {
	page, size = NormalizePage(page, size)
	return PaginationInfo{
		CurrentPage: page,
		TotalPages:  TotalPages(totalItems, size),
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams extracts page and limit query parameters. "size" is accepted as
// an alias of "limit".
func ParsePaginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = DefaultPage
	}

	limitStr := c.Query("limit")
	if limitStr == "" {
		limitStr = c.DefaultQuery("size", strconv.Itoa(DefaultPageSize))
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil {
		limit = DefaultPageSize
	}

	return NormalizePage(page, limit)
}
