package search

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/geo"
)

var testSchema = Schema{
	ID:           "d.id",
	Name:         "d.name",
	Category:     "d.category_id",
	Price:        "d.average_cost",
	Point:        geo.Columns{Lat: "d.latitude", Lng: "d.longitude"},
	Rating:       "d.rating",
	TotalReviews: "d.total_reviews",
	Popularity:   []string{"d.total_likes", "d.total_checkins"},
	CreatedAt:    "d.created_at",
	HiddenGem:    "d.is_hidden_gem",
	ContextTags:  "c.context_tags",
	OpenNow: func(at time.Time) squirrel.Sqlizer {
		return squirrel.Expr("is_open_at(d.opening_hours, ?, ?::time)", "monday", at.Format("15:04"))
	},
}

func ptr[T any](v T) *T { return &v }

func mustBuild(t *testing.T, opts Options) *Query {
	t.Helper()
	q, err := Build(opts, geo.DefaultRadiusMeters, time.Now())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return q
}

func TestBuildDefaults(t *testing.T) {
	q := mustBuild(t, Options{})
	if q.Sort != SortRecency {
		t.Errorf("default sort = %s, want recency", q.Sort)
	}
	if q.Page != 1 || q.Limit != 10 {
		t.Errorf("default page/limit = %d/%d, want 1/10", q.Page, q.Limit)
	}

	q = mustBuild(t, Options{Lat: ptr(21.0), Lng: ptr(105.8)})
	if q.Sort != SortDistance {
		t.Errorf("sort with center = %s, want distance", q.Sort)
	}

	q = mustBuild(t, Options{Limit: 500})
	if q.Limit != 100 {
		t.Errorf("limit = %d, want capped at 100", q.Limit)
	}
}

func TestBuildRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		field string
	}{
		{"lat without lng", Options{Lat: ptr(21.0)}, "lat"},
		{"lat out of range", Options{Lat: ptr(91.0), Lng: ptr(0.0)}, "lat"},
		{"zero radius", Options{Lat: ptr(21.0), Lng: ptr(105.0), Radius: ptr(0.0)}, "radius"},
		{"distance without center", Options{SortBy: "distance"}, "sortBy"},
		{"unknown sort", Options{SortBy: "cheapest"}, "sortBy"},
		{"negative price", Options{MinPrice: ptr(-1.0)}, "minPrice"},
		{"inverted price range", Options{MinPrice: ptr(10.0), MaxPrice: ptr(5.0)}, "minPrice"},
		{"unknown context", Options{Context: "business"}, "context"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.opts, geo.DefaultRadiusMeters, time.Now())
			if !errors.Is(err, apperrors.ErrInvalidArgument) {
				t.Fatalf("Build() error = %v, want ErrInvalidArgument", err)
			}
			if field := apperrors.DetailsOf(err)["field"]; field != tt.field {
				t.Errorf("field = %v, want %s", field, tt.field)
			}
		})
	}
}

func TestApplyPagination(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]Record, 25)
	for i := range records {
		records[i] = Record{ID: int64(i + 1), Name: "Place", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
	}

	q := mustBuild(t, Options{Page: 2, Limit: 10})
	page, total := q.Apply(records)
	if len(page) != 10 {
		t.Fatalf("page rows = %d, want 10", len(page))
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}

	info := q.Pagination(total)
	if info.CurrentPage != 2 || info.TotalPages != 3 {
		t.Errorf("pagination = %+v, want currentPage 2 totalPages 3", info)
	}

	// recency: newest first, page 2 starts at the 11th newest
	if got := records[page[0]].ID; got != 15 {
		t.Errorf("first row of page 2 = %d, want 15", got)
	}

	q = mustBuild(t, Options{Page: 4, Limit: 10})
	page, _ = q.Apply(records)
	if len(page) != 0 {
		t.Errorf("page past the end returned %d rows", len(page))
	}
}

func TestApplyFilters(t *testing.T) {
	center := geo.Point{Lat: 21.0285, Lng: 105.8542}
	cat1, cat2 := int64(1), int64(2)

	records := []Record{
		{ID: 1, Name: "Hoan Kiem Lake", CategoryID: &cat1, Price: 0, Point: &center, ContextTags: []string{"solo", "couple"}},
		{ID: 2, Name: "Old Quarter Food Tour", CategoryID: &cat2, Price: 25, Point: &geo.Point{Lat: 21.0340, Lng: 105.8500}, HiddenGem: true, ContextTags: []string{"friends"}},
		{ID: 3, Name: "Ha Long Bay", CategoryID: &cat1, Price: 120, Point: &geo.Point{Lat: 20.9101, Lng: 107.1839}},
		{ID: 4, Name: "Unmapped lake cafe", CategoryID: &cat2, Price: 5},
	}

	tests := []struct {
		name string
		opts Options
		want []int64
	}{
		{"search is case-insensitive", Options{Search: "LAKE"}, []int64{4, 1}},
		{"category", Options{CategoryID: &cat2}, []int64{4, 2}},
		{"price range inclusive", Options{MinPrice: ptr(5.0), MaxPrice: ptr(25.0)}, []int64{4, 2}},
		{"radius excludes far and unmapped", Options{Lat: &center.Lat, Lng: &center.Lng}, []int64{1, 2}},
		{"hidden gems", Options{HiddenGemsOnly: true}, []int64{2}},
		{"context", Options{Context: "couple"}, []int64{1}},
		{"price desc", Options{SortBy: "price_desc", Limit: 2}, []int64{3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustBuild(t, tt.opts)
			page, _ := q.Apply(records)
			if len(page) != len(tt.want) {
				t.Fatalf("got %d rows, want %v", len(page), tt.want)
			}
			for i, idx := range page {
				if records[idx].ID != tt.want[i] {
					t.Errorf("row %d = %d, want %d", i, records[idx].ID, tt.want[i])
				}
			}
		})
	}
}

func TestApplyOpenNow(t *testing.T) {
	records := []Record{
		{ID: 1, Name: "open", OpenAt: func(time.Time) bool { return true }},
		{ID: 2, Name: "closed", OpenAt: func(time.Time) bool { return false }},
		{ID: 3, Name: "no hours"},
	}

	q := mustBuild(t, Options{IsOpenNow: true})
	page, total := q.Apply(records)
	if total != 1 || records[page[0]].ID != 1 {
		t.Errorf("open now matched %d rows", total)
	}
}

func TestSortTieBreaks(t *testing.T) {
	a := Record{ID: 1, Rating: 4.5, TotalReviews: 10, Popularity: []int64{5, 1}}
	b := Record{ID: 2, Rating: 4.5, TotalReviews: 20, Popularity: []int64{5, 3}}

	q := &Query{Sort: SortRating}
	if !q.Less(b, a) {
		t.Error("rating tie must break on total reviews descending")
	}

	q = &Query{Sort: SortPopularity}
	if !q.Less(b, a) {
		t.Error("popularity tie must break on the secondary counter descending")
	}
	liked := Record{ID: 3, Popularity: []int64{9, 3}}
	visited := Record{ID: 4, Popularity: []int64{1, 30}}
	if !q.Less(liked, visited) || q.Less(visited, liked) {
		t.Error("popularity must order on the primary counter before the secondary")
	}

	q = &Query{Sort: SortPriceAsc}
	if !q.Less(a, b) {
		t.Error("equal prices must break on id")
	}
}

func TestQuerySQL(t *testing.T) {
	center := geo.Point{Lat: 21.0, Lng: 105.0}
	q := mustBuild(t, Options{
		Search:     "pho_",
		CategoryID: ptr(int64(3)),
		MinPrice:   ptr(1.0),
		Context:    "family",
		IsOpenNow:  true,
		Lat:        &center.Lat,
		Lng:        &center.Lng,
		Radius:     ptr(1500.0),
		Page:       2,
	})

	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("d.id").
		From("destinations d").
		Where(q.Where(testSchema))
	sb = q.Paginate(q.Order(sb, testSchema))

	sql, args, err := sb.ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}

	for _, fragment := range []string{
		"ST_DWithin(",
		"d.name ILIKE",
		"d.category_id = ",
		"d.average_cost >= ",
		"= ANY(c.context_tags)",
		"is_open_at(d.opening_hours",
		"ORDER BY ST_Distance(",
		"d.id ASC",
		"LIMIT 10 OFFSET 10",
	} {
		if !strings.Contains(sql, fragment) {
			t.Errorf("SQL missing %q: %s", fragment, sql)
		}
	}

	var escaped bool
	for _, a := range args {
		if a == `%pho\_%` {
			escaped = true
		}
	}
	if !escaped {
		t.Errorf("search term not escaped in args: %v", args)
	}
}
