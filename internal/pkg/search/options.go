// Package search composes listing filters and sort orders for destinations and
// events. A Query is built once from request Options and can then be rendered
// to squirrel SQL against a Schema or evaluated in memory against Records.
package search

import (
	"math"
	"strings"
	"time"

	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/geo"
	"github.com/yigit/tripplanner/internal/pkg/helpers"
)

// SortBy names a sort strategy
type SortBy string

const (
	SortDistance   SortBy = "distance"
	SortRating     SortBy = "rating"
	SortPriceAsc   SortBy = "price_asc"
	SortPriceDesc  SortBy = "price_desc"
	SortPopularity SortBy = "popularity"
	SortRecency    SortBy = "recency"
)

// ParseSortBy accepts the known sort names, case-insensitively
func ParseSortBy(value string) (SortBy, error) {
	switch s := SortBy(strings.ToLower(strings.TrimSpace(value))); s {
	case SortDistance, SortRating, SortPriceAsc, SortPriceDesc, SortPopularity, SortRecency:
		return s, nil
	default:
		return "", apperrors.InvalidField("sortBy",
			"sortBy must be one of distance, rating, price_asc, price_desc, popularity, recency")
	}
}

// ContextTags are the travel contexts a category can be suited for
var ContextTags = []string{"solo", "couple", "family", "friends"}

// IsContextTag reports whether tag is a known context tag
func IsContextTag(tag string) bool {
	for _, t := range ContextTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Options is the raw listing configuration parsed from a request
type Options struct {
	Search         string   `form:"search"`
	CategoryID     *int64   `form:"categoryId"`
	MinPrice       *float64 `form:"minPrice"`
	MaxPrice       *float64 `form:"maxPrice"`
	IsOpenNow      bool     `form:"isOpenNow"`
	Context        string   `form:"context"`
	HiddenGemsOnly bool     `form:"hiddenGemsOnly"`
	Lat            *float64 `form:"lat"`
	Lng            *float64 `form:"lng"`
	Radius         *float64 `form:"radius"`
	SortBy         string   `form:"sortBy"`
	Page           int      `form:"page"`
	Limit          int      `form:"limit"`
}

// Query is a validated, storage independent listing request
type Query struct {
	Filters []Filter
	Sort    SortBy
	Center  *geo.Point
	Page    int
	Limit   int
}

// Build validates opts and turns them into a Query. defaultRadius applies when a
// center is given without a radius; now is the instant open-now is evaluated at.
func Build(opts Options, defaultRadius float64, now time.Time) (*Query, error) {
	q := &Query{}
	q.Page, q.Limit = helpers.NormalizePage(opts.Page, opts.Limit)

	center, err := geo.PointFromPair(opts.Lat, opts.Lng)
	if err != nil {
		return nil, err
	}
	if opts.Radius != nil {
		if err := geo.ValidateRadius(*opts.Radius); err != nil {
			return nil, err
		}
	}
	if center != nil {
		radius := defaultRadius
		if opts.Radius != nil {
			radius = *opts.Radius
		}
		rf, err := geo.NewRadiusFilter(*center, radius)
		if err != nil {
			return nil, err
		}
		q.Center = center
		q.Filters = append(q.Filters, GeoFilter{Radius: *rf})
	}

	if term := strings.TrimSpace(opts.Search); term != "" {
		q.Filters = append(q.Filters, TextFilter{Term: term})
	}

	if opts.CategoryID != nil {
		if *opts.CategoryID <= 0 {
			return nil, apperrors.InvalidField("categoryId", "categoryId must be a positive integer")
		}
		q.Filters = append(q.Filters, CategoryFilter{CategoryID: *opts.CategoryID})
	}

	if err := validatePrice("minPrice", opts.MinPrice); err != nil {
		return nil, err
	}
	if err := validatePrice("maxPrice", opts.MaxPrice); err != nil {
		return nil, err
	}
	if opts.MinPrice != nil && opts.MaxPrice != nil && *opts.MinPrice > *opts.MaxPrice {
		return nil, apperrors.InvalidField("minPrice", "minPrice must not exceed maxPrice")
	}
	if opts.MinPrice != nil || opts.MaxPrice != nil {
		q.Filters = append(q.Filters, PriceFilter{Min: opts.MinPrice, Max: opts.MaxPrice})
	}

	if opts.IsOpenNow {
		q.Filters = append(q.Filters, OpenNowFilter{At: now})
	}

	if ctxTag := strings.ToLower(strings.TrimSpace(opts.Context)); ctxTag != "" {
		if !IsContextTag(ctxTag) {
			return nil, apperrors.InvalidField("context", "context must be one of solo, couple, family, friends")
		}
		q.Filters = append(q.Filters, ContextFilter{Tag: ctxTag})
	}

	if opts.HiddenGemsOnly {
		q.Filters = append(q.Filters, HiddenGemFilter{})
	}

	switch {
	case opts.SortBy != "":
		s, err := ParseSortBy(opts.SortBy)
		if err != nil {
			return nil, err
		}
		if s == SortDistance && center == nil {
			return nil, apperrors.InvalidField("sortBy", "sortBy=distance requires lat and lng")
		}
		q.Sort = s
	case center != nil:
		q.Sort = SortDistance
	default:
		q.Sort = SortRecency
	}

	return q, nil
}

func validatePrice(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return apperrors.InvalidField(field, "%s must be a non-negative number", field)
	}
	return nil
}

// Offset returns the row offset of the requested page
func (q *Query) Offset() uint64 {
	offset, _ := helpers.CalculateOffsetLimit(q.Page, q.Limit)
	return offset
}

// Pagination describes the requested page over total matching rows
func (q *Query) Pagination(total int64) helpers.PaginationInfo {
	return helpers.NewPaginationInfo(total, q.Page, q.Limit)
}
