package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

var testGeo = GeoDefaults{ListRadius: 5000, NearbyRadius: 2000}

func TestSearchDestinationsPagination(t *testing.T) {
	store := &fakeDestinations{}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 25; i++ {
		store.rows = append(store.rows, &models.Destination{
			ID:        int64(i),
			Name:      "Place",
			IsActive:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	svc := NewDestinationService(store, testGeo, nopLogger)

	resp, err := svc.SearchDestinations(context.Background(), search.Options{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("SearchDestinations: %v", err)
	}
	items := resp.Items.([]*models.Destination)
	if len(items) != 10 {
		t.Errorf("items = %d, want 10", len(items))
	}
	if resp.Pagination.CurrentPage != 2 || resp.Pagination.TotalPages != 3 || resp.Pagination.TotalItems != 25 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}
	// recency order: page 2 starts at the 11th newest
	if items[0].ID != 15 {
		t.Errorf("first item = %d, want 15", items[0].ID)
	}
}

func TestNearbyDestinations(t *testing.T) {
	store := &fakeDestinations{rows: []*models.Destination{
		{ID: 1, Name: "Far", IsActive: true, Latitude: ptr(10.80), Longitude: ptr(106.70)},
		{ID: 2, Name: "Near", IsActive: true, Latitude: ptr(10.7770), Longitude: ptr(106.7010)},
		{ID: 3, Name: "Nearest", IsActive: true, Latitude: ptr(10.7760), Longitude: ptr(106.7000)},
		{ID: 4, Name: "Nowhere", IsActive: true},
	}}
	svc := NewDestinationService(store, testGeo, nopLogger)

	items, err := svc.NearbyDestinations(context.Background(), &dto.NearbyRequest{Lat: ptr(10.7760), Lng: ptr(106.7000)})
	if err != nil {
		t.Fatalf("NearbyDestinations: %v", err)
	}
	if len(items) != 2 || items[0].ID != 3 || items[1].ID != 2 {
		t.Errorf("nearby = %v", items)
	}

	_, err = svc.NearbyDestinations(context.Background(), &dto.NearbyRequest{Lat: ptr(10.0), Lng: ptr(106.0), Radius: ptr(-1.0)})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("negative radius err = %v, want InvalidArgument", err)
	}
}

func TestDestinationAdmin(t *testing.T) {
	store := &fakeDestinations{}
	svc := NewDestinationService(store, testGeo, nopLogger)
	ctx := context.Background()

	_, err := svc.CreateDestination(ctx, &dto.DestinationRequest{CategoryID: 1, Name: "Bay", Latitude: ptr(20.9), RecommendedDuration: 60})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("half point err = %v, want InvalidArgument", err)
	}

	d, err := svc.CreateDestination(ctx, &dto.DestinationRequest{
		CategoryID: 1, Name: "Bay", Latitude: ptr(20.9), Longitude: ptr(107.1), AverageCost: 30, RecommendedDuration: 240,
	})
	if err != nil {
		t.Fatalf("CreateDestination: %v", err)
	}
	if !d.IsActive || d.Tags == nil {
		t.Errorf("created destination = %+v", d)
	}

	if err := svc.DeactivateDestination(ctx, d.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetDestination(ctx, d.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("deactivated get err = %v, want NotFound", err)
	}
}

func TestSearchRejectsBadOptions(t *testing.T) {
	svc := NewDestinationService(&fakeDestinations{}, testGeo, nopLogger)

	for name, opts := range map[string]search.Options{
		"distance without center": {SortBy: "distance"},
		"unknown sort":            {SortBy: "cheapest"},
		"lat only":                {Lat: ptr(10.0)},
		"unknown context":         {Context: "business"},
	} {
		if _, err := svc.SearchDestinations(context.Background(), opts); !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Errorf("%s: err = %v, want InvalidArgument", name, err)
		}
	}
}

func TestUpcomingEventsDays(t *testing.T) {
	svc := NewEventService(nil, testGeo, nopLogger)
	for _, days := range []int{-1, 400} {
		_, err := svc.UpcomingEvents(context.Background(), &dto.UpcomingEventsRequest{Days: days})
		if !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Errorf("days=%d err = %v, want InvalidArgument", days, err)
		}
	}
}

type fakeCategories struct {
	rows map[string]*models.Category
}

func (f *fakeCategories) List(_ context.Context, style models.TravelStyle, contextTag string) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range f.rows {
		if style == "" || c.TravelStyle == style {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) GetByID(_ context.Context, id int64) (*models.Category, error) {
	for _, c := range f.rows {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.NotFound("category %d not found", id)
}

func (f *fakeCategories) CreateIfNotExists(_ context.Context, c *models.Category) (bool, error) {
	if _, ok := f.rows[c.Name]; ok {
		return false, nil
	}
	c.ID = int64(len(f.rows) + 1)
	f.rows[c.Name] = c
	return true, nil
}

func TestSeedCategoriesIsIdempotent(t *testing.T) {
	store := &fakeCategories{rows: map[string]*models.Category{}}
	svc := NewCategoryService(store, nopLogger)
	defaults := []*models.Category{
		{Name: "Beaches", TravelStyle: models.StyleRelaxation},
		{Name: "Museums", TravelStyle: models.StyleCulture},
	}

	for i, want := range []int{2, 0} {
		added, err := svc.SeedDefaults(context.Background(), defaults)
		if err != nil {
			t.Fatal(err)
		}
		if added != want {
			t.Errorf("run %d added %d, want %d", i+1, added, want)
		}
	}

	if _, err := svc.ListCategories(context.Background(), &dto.CategoryFilterRequest{TravelStyle: "sleeping"}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("unknown style err = %v, want InvalidArgument", err)
	}
	got, err := svc.ListCategories(context.Background(), &dto.CategoryFilterRequest{TravelStyle: "culture"})
	if err != nil || len(got) != 1 {
		t.Errorf("culture categories = %v, %v", got, err)
	}
}

func TestPreferences(t *testing.T) {
	store := &fakePreferences{rows: map[int64]*models.UserPreference{}}
	svc := NewPreferenceService(store, nopLogger)
	ctx := context.Background()

	pref, err := svc.GetPreferences(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if pref.UserID != 5 || pref.TravelStyles == nil || len(pref.TravelStyles) != 0 {
		t.Errorf("default preferences = %+v", pref)
	}

	tests := []struct {
		name string
		req  *dto.UpdatePreferenceRequest
	}{
		{"unknown style", &dto.UpdatePreferenceRequest{TravelStyles: []string{"sleeping"}}},
		{"unknown context", &dto.UpdatePreferenceRequest{PreferredContexts: []string{"business"}}},
		{"budget inverted", &dto.UpdatePreferenceRequest{BudgetMin: ptr(500.0), BudgetMax: ptr(100.0)}},
		{"half home point", &dto.UpdatePreferenceRequest{HomeLatitude: ptr(10.0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.UpdatePreferences(ctx, 5, tt.req); !errors.Is(err, apperrors.ErrInvalidArgument) {
				t.Errorf("err = %v, want InvalidArgument", err)
			}
		})
	}

	saved, err := svc.UpdatePreferences(ctx, 5, &dto.UpdatePreferenceRequest{
		TravelStyles: []string{"food", "nature", "food"},
		BudgetMin:    ptr(100.0),
		BudgetMax:    ptr(500.0),
	})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if len(saved.TravelStyles) != 2 {
		t.Errorf("styles = %v, want duplicates dropped", saved.TravelStyles)
	}
}

type fakePreferences struct {
	rows map[int64]*models.UserPreference
}

func (f *fakePreferences) GetByUserID(_ context.Context, userID int64) (*models.UserPreference, error) {
	p, ok := f.rows[userID]
	if !ok {
		return nil, apperrors.NotFound("preferences not found")
	}
	return p, nil
}

func (f *fakePreferences) Upsert(_ context.Context, pref *models.UserPreference) error {
	f.rows[pref.UserID] = pref
	return nil
}

func TestNotifications(t *testing.T) {
	store := &fakeNotifications{}
	svc := NewNotificationService(store, nopLogger)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = store.Create(ctx, &models.Notification{UserID: 1, Type: models.NotificationTripShared})
	}
	_ = store.Create(ctx, &models.Notification{UserID: 2, Type: models.NotificationTripShared})

	if err := svc.MarkRead(ctx, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.MarkRead(ctx, 1, 4); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("other user's notification err = %v, want NotFound", err)
	}

	count, _ := svc.UnreadCount(ctx, 1)
	if count.Unread != 2 {
		t.Errorf("unread = %d, want 2", count.Unread)
	}
	resp, _ := svc.ListNotifications(ctx, 1, &dto.NotificationListRequest{UnreadOnly: true})
	if resp.Pagination.TotalItems != 2 {
		t.Errorf("unread listing total = %d, want 2", resp.Pagination.TotalItems)
	}

	n, err := svc.MarkAllRead(ctx, 1)
	if err != nil || n != 2 {
		t.Errorf("MarkAllRead = %d, %v", n, err)
	}
}
