// Package geo provides radius filtering and distance ordering for geo-tagged
// entities. The same filter evaluates in memory with the haversine formula and
// renders to PostGIS geography SQL for the repositories.
package geo

import (
	"fmt"
	"math"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
)

// EarthRadiusMeters is the mean earth radius used by Haversine
const EarthRadiusMeters = 6371008.8

const (
	DefaultRadiusMeters = 5000.0
	NearbyRadiusMeters  = 2000.0
)

// Point is a WGS84 coordinate pair
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects non-finite and out of range coordinates
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return apperrors.InvalidField("lat", "lat must be a finite number between -90 and 90")
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) || p.Lng < -180 || p.Lng > 180 {
		return apperrors.InvalidField("lng", "lng must be a finite number between -180 and 180")
	}
	return nil
}

// PointFromPair builds a point from optional coordinates. Both or neither must be set;
// neither yields a nil point.
func PointFromPair(lat, lng *float64) (*Point, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, apperrors.InvalidField("lat", "lat and lng must be supplied together")
	}

	p := Point{Lat: *lat, Lng: *lng}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Haversine returns the great-circle distance between a and b in meters
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// ValidateRadius rejects non-positive and non-finite radii
func ValidateRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return apperrors.InvalidField("radius", "radius must be a positive number of meters")
	}
	return nil
}

// RadiusFilter selects points within RadiusMeters of Center, boundary included
type RadiusFilter struct {
	Center       Point
	RadiusMeters float64
}

// NewRadiusFilter validates the center and radius
func NewRadiusFilter(center Point, radiusMeters float64) (*RadiusFilter, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateRadius(radiusMeters); err != nil {
		return nil, err
	}
	return &RadiusFilter{Center: center, RadiusMeters: radiusMeters}, nil
}

// Contains reports whether p lies inside the radius. Entities without a point never match.
func (f RadiusFilter) Contains(p *Point) bool {
	if p == nil {
		return false
	}
	return Haversine(f.Center, *p) <= f.RadiusMeters
}

// Distance returns the distance from the center, or +Inf for entities without a point
func (f RadiusFilter) Distance(p *Point) float64 {
	return DistanceFrom(f.Center, p)
}

// DistanceFrom returns the distance from center to p, +Inf when p is nil
func DistanceFrom(center Point, p *Point) float64 {
	if p == nil {
		return math.Inf(1)
	}
	return Haversine(center, *p)
}

// Columns names the latitude and longitude columns of a geo-tagged table
type Columns struct {
	Lat string
	Lng string
}

// Geography renders the column pair as a PostGIS geography value
func (c Columns) Geography() string {
	return fmt.Sprintf("ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography", c.Lng, c.Lat)
}

// centerGeography is the bound-parameter counterpart of Columns.Geography
const centerGeography = "ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography"

// SQL renders the filter as an ST_DWithin predicate on the given columns
func (f RadiusFilter) SQL(cols Columns) squirrel.Sqlizer {
	return squirrel.Expr(
		fmt.Sprintf("%s IS NOT NULL AND %s IS NOT NULL AND ST_DWithin(%s, %s, ?)",
			cols.Lat, cols.Lng, cols.Geography(), centerGeography),
		f.Center.Lng, f.Center.Lat, f.RadiusMeters,
	)
}

// DistanceSQL renders the distance in meters from center to the columns
func DistanceSQL(center Point, cols Columns) (string, []interface{}) {
	return fmt.Sprintf("ST_Distance(%s, %s)", cols.Geography(), centerGeography),
		[]interface{}{center.Lng, center.Lat}
}
