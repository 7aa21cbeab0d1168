package helpers

import (
	"testing"
	"time"
)

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name           string
		total          int64
		page, size     int
		wantPage       int
		wantSize       int
		wantTotalPages int
	}{
		{"25 rows page 2", 25, 2, 10, 2, 10, 3},
		{"exact multiple", 30, 1, 10, 1, 10, 3},
		{"empty", 0, 1, 10, 1, 10, 0},
		{"defaults", 5, 0, 0, 1, DefaultPageSize, 1},
		{"size capped", 250, 1, 1000, 1, MaxPageSize, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPaginationInfo(tt.total, tt.page, tt.size)
			if got.CurrentPage != tt.wantPage || got.PageSize != tt.wantSize || got.TotalPages != tt.wantTotalPages {
				t.Errorf("NewPaginationInfo() = %+v", got)
			}
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(2, 10)
	if offset != 10 || limit != 10 {
		t.Errorf("CalculateOffsetLimit(2, 10) = %d, %d", offset, limit)
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("90s", time.Minute); got != 90*time.Second {
		t.Errorf("ParseDuration(90s) = %v", got)
	}
	if got := ParseDuration("soon", time.Minute); got != time.Minute {
		t.Errorf("invalid input should fall back to the default, got %v", got)
	}
}
