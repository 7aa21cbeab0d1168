package search

import (
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tripplanner/internal/pkg/geo"
)

// Record is the in-memory view of a listable entity that filters and sorts read
type Record struct {
	ID           int64
	Name         string
	CategoryID   *int64
	Price        float64
	Point        *geo.Point
	Rating       float64
	TotalReviews int
	Popularity   []int64
	CreatedAt    time.Time
	HiddenGem    bool
	ContextTags  []string
	OpenAt       func(time.Time) bool
}

// Schema maps the filterable attributes onto the columns of one listing query
type Schema struct {
	ID           string
	Name         string
	Category     string
	Price        string
	Point        geo.Columns
	Rating       string
	TotalReviews string
	Popularity   []string
	CreatedAt    string
	HiddenGem    string
	ContextTags  string
	OpenNow      func(at time.Time) squirrel.Sqlizer
}

// Filter is a single predicate of a listing query
type Filter interface {
	SQL(s Schema) squirrel.Sqlizer
	Match(r Record) bool
}

// TextFilter matches a case-insensitive substring of the name
type TextFilter struct {
	Term string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f TextFilter) SQL(s Schema) squirrel.Sqlizer {
	return squirrel.ILike{s.Name: "%" + likeEscaper.Replace(f.Term) + "%"}
}

func (f TextFilter) Match(r Record) bool {
	return strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.Term))
}

// CategoryFilter matches an exact category
type CategoryFilter struct {
	CategoryID int64
}

func (f CategoryFilter) SQL(s Schema) squirrel.Sqlizer {
	return squirrel.Eq{s.Category: f.CategoryID}
}

func (f CategoryFilter) Match(r Record) bool {
	return r.CategoryID != nil && *r.CategoryID == f.CategoryID
}

// PriceFilter bounds the price inclusively; a nil bound is open
type PriceFilter struct {
	Min *float64
	Max *float64
}

func (f PriceFilter) SQL(s Schema) squirrel.Sqlizer {
	clause := squirrel.And{}
	if f.Min != nil {
		clause = append(clause, squirrel.GtOrEq{s.Price: *f.Min})
	}
	if f.Max != nil {
		clause = append(clause, squirrel.LtOrEq{s.Price: *f.Max})
	}
	return clause
}

func (f PriceFilter) Match(r Record) bool {
	if f.Min != nil && r.Price < *f.Min {
		return false
	}
	if f.Max != nil && r.Price > *f.Max {
		return false
	}
	return true
}

// OpenNowFilter matches entities open at the given instant
type OpenNowFilter struct {
	At time.Time
}

func (f OpenNowFilter) SQL(s Schema) squirrel.Sqlizer {
	return s.OpenNow(f.At)
}

func (f OpenNowFilter) Match(r Record) bool {
	return r.OpenAt != nil && r.OpenAt(f.At)
}

// ContextFilter matches entities whose category lists the context tag
type ContextFilter struct {
	Tag string
}

func (f ContextFilter) SQL(s Schema) squirrel.Sqlizer {
	return squirrel.Expr("? = ANY("+s.ContextTags+")", f.Tag)
}

func (f ContextFilter) Match(r Record) bool {
	for _, t := range r.ContextTags {
		if t == f.Tag {
			return true
		}
	}
	return false
}

// HiddenGemFilter matches hidden gems only
type HiddenGemFilter struct{}

func (HiddenGemFilter) SQL(s Schema) squirrel.Sqlizer {
	return squirrel.Expr(s.HiddenGem + " = TRUE")
}

func (HiddenGemFilter) Match(r Record) bool {
	return r.HiddenGem
}

// GeoFilter restricts to a radius around a center
type GeoFilter struct {
	Radius geo.RadiusFilter
}

func (f GeoFilter) SQL(s Schema) squirrel.Sqlizer {
	return f.Radius.SQL(s.Point)
}

func (f GeoFilter) Match(r Record) bool {
	return f.Radius.Contains(r.Point)
}
