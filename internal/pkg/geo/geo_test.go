package geo

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
)

func TestHaversine(t *testing.T) {
	hanoi := Point{Lat: 21.0285, Lng: 105.8542}
	hcmc := Point{Lat: 10.8231, Lng: 106.6297}

	d := Haversine(hanoi, hcmc)
	if d < 1130000 || d > 1145000 {
		t.Errorf("Haversine(hanoi, hcmc) = %.0f, want about 1137 km", d)
	}

	if got := Haversine(hanoi, hanoi); got != 0 {
		t.Errorf("Haversine(p, p) = %v, want 0", got)
	}
}

func TestPointValidate(t *testing.T) {
	tests := []struct {
		name    string
		point   Point
		wantErr bool
	}{
		{"valid", Point{Lat: 16.0544, Lng: 108.2022}, false},
		{"poles and antimeridian", Point{Lat: -90, Lng: 180}, false},
		{"lat too large", Point{Lat: 90.0001, Lng: 0}, true},
		{"lng too small", Point{Lat: 0, Lng: -180.5}, true},
		{"nan", Point{Lat: math.NaN(), Lng: 0}, true},
		{"inf", Point{Lat: 0, Lng: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.point.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperrors.ErrInvalidArgument) {
				t.Errorf("Validate() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestPointFromPair(t *testing.T) {
	lat, lng := 21.0, 105.8

	p, err := PointFromPair(nil, nil)
	if err != nil || p != nil {
		t.Fatalf("PointFromPair(nil, nil) = %v, %v; want nil, nil", p, err)
	}

	if _, err := PointFromPair(&lat, nil); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("PointFromPair(lat only) error = %v, want ErrInvalidArgument", err)
	}

	p, err = PointFromPair(&lat, &lng)
	if err != nil {
		t.Fatalf("PointFromPair() error = %v", err)
	}
	if p.Lat != lat || p.Lng != lng {
		t.Errorf("PointFromPair() = %+v", p)
	}
}

func TestRadiusFilterBoundaryInclusive(t *testing.T) {
	center := Point{Lat: 21.0285, Lng: 105.8542}
	edge := Point{Lat: 21.0385, Lng: 105.8642}
	radius := Haversine(center, edge)

	f, err := NewRadiusFilter(center, radius)
	if err != nil {
		t.Fatalf("NewRadiusFilter() error = %v", err)
	}

	if !f.Contains(&edge) {
		t.Error("point exactly at the radius must be included")
	}

	outside := Point{Lat: 21.0486, Lng: 105.8642}
	if f.Contains(&outside) {
		t.Error("point beyond the radius must be excluded")
	}

	if f.Contains(nil) {
		t.Error("entity without a point must be excluded")
	}
}

func TestNewRadiusFilterRejectsBadRadius(t *testing.T) {
	center := Point{Lat: 0, Lng: 0}
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewRadiusFilter(center, r); !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Errorf("NewRadiusFilter(radius=%v) error = %v, want ErrInvalidArgument", r, err)
		}
	}
}

func TestRadiusFilterSQL(t *testing.T) {
	f := RadiusFilter{Center: Point{Lat: 21, Lng: 105}, RadiusMeters: 5000}

	sql, args, err := f.SQL(Columns{Lat: "d.latitude", Lng: "d.longitude"}).ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}
	if !strings.Contains(sql, "ST_DWithin(ST_SetSRID(ST_MakePoint(d.longitude, d.latitude), 4326)::geography") {
		t.Errorf("unexpected SQL: %s", sql)
	}
	if len(args) != 3 || args[0] != 105.0 || args[1] != 21.0 || args[2] != 5000.0 {
		t.Errorf("unexpected args: %v", args)
	}

	// placeholders must survive dollar rewriting inside a larger statement
	q, _, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id").From("destinations d").Where(squirrel.Eq{"d.is_active": true}).Where(f.SQL(Columns{Lat: "d.latitude", Lng: "d.longitude"})).
		ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}
	if !strings.Contains(q, "$4)") {
		t.Errorf("expected four positional parameters, got %s", q)
	}
}
