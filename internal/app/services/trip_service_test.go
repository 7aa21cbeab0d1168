package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
)

const (
	owner    int64 = 1
	stranger int64 = 2
)

type tripFixture struct {
	svc     TripService
	trips   *fakeTrips
	targets *fakeTargets
	groups  *fakeGroups
}

func newTripFixture() *tripFixture {
	f := &tripFixture{
		trips:   newFakeTrips(),
		targets: newFakeTargets(),
		groups:  newFakeGroups(),
	}
	f.svc = NewTripService(fakeTx{}, f.trips, f.targets, newTestAuthz(f.groups), nopLogger)

	for id, cost := range map[int64]float64{1: 100, 2: 50} {
		f.targets.add(models.TargetDestination, id)
		f.trips.destinations[id] = &models.Destination{ID: id, Name: "D", AverageCost: cost, Rating: float64(id + 2), TotalReviews: 5}
	}
	// not reviewed yet
	f.targets.add(models.TargetDestination, 3)
	f.trips.destinations[3] = &models.Destination{ID: 3, Name: "D"}
	f.targets.add(models.TargetEvent, 10)
	f.trips.events[10] = &models.Event{ID: 10, Name: "E", TicketPrice: 25, Rating: 4, TotalReviews: 2}
	return f
}

func (f *tripFixture) createTrip(t *testing.T, req *dto.CreateTripRequest) *dto.TripResponse {
	t.Helper()
	trip, err := f.svc.CreateTrip(context.Background(), owner, req)
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	return trip
}

func (f *tripFixture) addStop(t *testing.T, tripID int64, kind models.StopKind, target int64) *dto.StopResponse {
	t.Helper()
	stop, err := f.svc.AddStop(context.Background(), owner, tripID, kind, &dto.AddStopRequest{TargetID: target})
	if err != nil {
		t.Fatalf("AddStop(%s %d): %v", kind, target, err)
	}
	return stop
}

func TestCreateTripTypeAndParticipants(t *testing.T) {
	tests := []struct {
		name      string
		tripType  *string
		count     *int
		wantType  models.TripType
		wantCount int
		wantField string
	}{
		{name: "neither", wantType: models.TripTypeSolo, wantCount: 1},
		{name: "solo only", tripType: ptr("solo"), wantType: models.TripTypeSolo, wantCount: 1},
		{name: "couple only", tripType: ptr("couple"), wantType: models.TripTypeCouple, wantCount: 2},
		{name: "family only", tripType: ptr("family"), wantType: models.TripTypeFamily, wantCount: 3},
		{name: "friends only", tripType: ptr("friends"), wantType: models.TripTypeFriends, wantCount: 2},
		{name: "group only", tripType: ptr("group"), wantType: models.TripTypeGroup, wantCount: 3},
		{name: "count 1", count: ptr(1), wantType: models.TripTypeSolo, wantCount: 1},
		{name: "count 2", count: ptr(2), wantType: models.TripTypeCouple, wantCount: 2},
		{name: "count 7", count: ptr(7), wantType: models.TripTypeGroup, wantCount: 7},
		{name: "family of 5", tripType: ptr("family"), count: ptr(5), wantType: models.TripTypeFamily, wantCount: 5},
		{name: "solo of 2", tripType: ptr("solo"), count: ptr(2), wantField: "participant_count"},
		{name: "couple of 3", tripType: ptr("couple"), count: ptr(3), wantField: "participant_count"},
		{name: "family of 2", tripType: ptr("family"), count: ptr(2), wantField: "participant_count"},
		{name: "friends of 1", tripType: ptr("friends"), count: ptr(1), wantField: "participant_count"},
		{name: "group of 2", tripType: ptr("group"), count: ptr(2), wantField: "participant_count"},
		{name: "zero count", count: ptr(0), wantField: "participant_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTripFixture()
			resp, err := f.svc.CreateTrip(context.Background(), owner, &dto.CreateTripRequest{
				Title:            "Trip",
				TripType:         tt.tripType,
				ParticipantCount: tt.count,
			})

			if tt.wantField != "" {
				if !errors.Is(err, apperrors.ErrInvalidArgument) {
					t.Fatalf("err = %v, want InvalidArgument", err)
				}
				if !strings.Contains(apperrors.Message(err), tt.wantField) {
					t.Errorf("message %q does not mention %s", apperrors.Message(err), tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.TripType != tt.wantType || resp.ParticipantCount != tt.wantCount {
				t.Errorf("got %s/%d, want %s/%d", resp.TripType, resp.ParticipantCount, tt.wantType, tt.wantCount)
			}
			if resp.Status != models.TripStatusDraft {
				t.Errorf("status = %s, want draft", resp.Status)
			}
		})
	}
}

func TestTripScenario(t *testing.T) {
	f := newTripFixture()
	ctx := context.Background()

	_, err := f.svc.CreateTrip(ctx, owner, &dto.CreateTripRequest{Title: "Bad", TripType: ptr("solo"), ParticipantCount: ptr(2)})
	if !errors.Is(err, apperrors.ErrInvalidArgument) || !strings.Contains(apperrors.Message(err), "participant_count") {
		t.Fatalf("solo/2: err = %v, want InvalidArgument naming participant_count", err)
	}

	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Weekend", TripType: ptr("solo"), ParticipantCount: ptr(1)})

	if s := f.addStop(t, trip.ID, models.StopDestination, 1); s.VisitOrder != 1 {
		t.Errorf("D1 order = %d, want 1", s.VisitOrder)
	}
	if s := f.addStop(t, trip.ID, models.StopDestination, 2); s.VisitOrder != 2 {
		t.Errorf("D2 order = %d, want 2", s.VisitOrder)
	}

	stops, err := f.svc.ReorderStops(ctx, owner, trip.ID, models.StopDestination, []models.StopOrder{
		{TargetID: 1, VisitOrder: 2},
		{TargetID: 2, VisitOrder: 1},
	})
	if err != nil {
		t.Fatalf("ReorderStops: %v", err)
	}
	if len(stops) != 2 || stops[0].TargetID != 2 || stops[1].TargetID != 1 {
		t.Fatalf("order after reorder = %s, want D2 then D1", stopIDs(stops))
	}

	got, err := f.svc.GetTrip(ctx, owner, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if ids := stopIDs(got.Stops); ids != "2,1" {
		t.Errorf("GetTrip stops = %s, want 2,1", ids)
	}
}

func TestAddStopDuplicate(t *testing.T) {
	f := newTripFixture()
	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip"})
	f.addStop(t, trip.ID, models.StopDestination, 1)

	_, err := f.svc.AddStop(context.Background(), owner, trip.ID, models.StopDestination, &dto.AddStopRequest{TargetID: 1})
	if !errors.Is(err, apperrors.ErrDuplicateStop) {
		t.Fatalf("err = %v, want DuplicateStop", err)
	}

	stops, _ := f.trips.ListStops(context.Background(), trip.ID)
	if len(stops) != 1 {
		t.Errorf("stop rows = %d, want 1", len(stops))
	}
}

func TestAddStopExplicitOrderCollision(t *testing.T) {
	f := newTripFixture()
	ctx := context.Background()
	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip"})
	f.addStop(t, trip.ID, models.StopDestination, 1)

	_, err := f.svc.AddStop(ctx, owner, trip.ID, models.StopDestination, &dto.AddStopRequest{TargetID: 2, VisitOrder: ptr(1)})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want InvalidArgument", err)
	}
	stops, _ := f.trips.ListStops(ctx, trip.ID)
	if len(stops) != 1 {
		t.Fatalf("stop rows = %d, want 1", len(stops))
	}

	// orders are per kind
	if _, err := f.svc.AddStop(ctx, owner, trip.ID, models.StopEvent, &dto.AddStopRequest{TargetID: 10, VisitOrder: ptr(1)}); err != nil {
		t.Fatalf("event at order 1: %v", err)
	}
	s, err := f.svc.AddStop(ctx, owner, trip.ID, models.StopDestination, &dto.AddStopRequest{TargetID: 2, VisitOrder: ptr(3)})
	if err != nil {
		t.Fatalf("free order: %v", err)
	}
	if s.VisitOrder != 3 {
		t.Errorf("VisitOrder = %d, want 3", s.VisitOrder)
	}
}

func TestAddStopChecks(t *testing.T) {
	f := newTripFixture()
	ctx := context.Background()
	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip"})

	f.targets.rows[targetKey{models.TargetDestination, 3}].active = false

	tests := []struct {
		name   string
		userID int64
		tripID int64
		kind   models.StopKind
		req    *dto.AddStopRequest
		want   error
	}{
		{"unknown trip", owner, 99, models.StopDestination, &dto.AddStopRequest{TargetID: 1}, apperrors.ErrResourceNotFound},
		{"not owner", stranger, trip.ID, models.StopDestination, &dto.AddStopRequest{TargetID: 1}, apperrors.ErrPermissionDenied},
		{"unknown target", owner, trip.ID, models.StopDestination, &dto.AddStopRequest{TargetID: 42}, apperrors.ErrResourceNotFound},
		{"inactive target", owner, trip.ID, models.StopDestination, &dto.AddStopRequest{TargetID: 3}, apperrors.ErrResourceNotFound},
		{"bad start time", owner, trip.ID, models.StopDestination, &dto.AddStopRequest{TargetID: 1, StartTime: ptr("25:00")}, apperrors.ErrInvalidArgument},
		{"zero order", owner, trip.ID, models.StopDestination, &dto.AddStopRequest{TargetID: 1, VisitOrder: ptr(0)}, apperrors.ErrInvalidArgument},
		{"unknown kind", owner, trip.ID, models.StopKind("hotel"), &dto.AddStopRequest{TargetID: 1}, apperrors.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddStop(ctx, tt.userID, tt.tripID, tt.kind, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestVisitOrderPerKind(t *testing.T) {
	f := newTripFixture()
	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip"})

	f.addStop(t, trip.ID, models.StopDestination, 1)
	f.addStop(t, trip.ID, models.StopDestination, 2)
	if s := f.addStop(t, trip.ID, models.StopEvent, 10); s.VisitOrder != 1 {
		t.Errorf("first event order = %d, want 1", s.VisitOrder)
	}

	stops, _ := f.trips.ListStops(context.Background(), trip.ID)
	if stops[0].Kind != models.StopDestination || stops[1].Kind != models.StopEvent {
		t.Errorf("destination should sort before event on equal order, got %s then %s", stops[0].Kind, stops[1].Kind)
	}
}

func TestRemoveStop(t *testing.T) {
	f := newTripFixture()
	ctx := context.Background()
	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip"})
	f.addStop(t, trip.ID, models.StopDestination, 1)
	f.addStop(t, trip.ID, models.StopDestination, 2)

	if err := f.svc.RemoveStop(ctx, owner, trip.ID, models.StopDestination, 1); err != nil {
		t.Fatalf("RemoveStop: %v", err)
	}
	if err := f.svc.RemoveStop(ctx, owner, trip.ID, models.StopDestination, 1); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("second remove err = %v, want NotFound", err)
	}

	stop, _ := f.trips.GetStop(ctx, trip.ID, models.StopDestination, 2)
	if stop.VisitOrder != 2 {
		t.Errorf("remaining stop renumbered to %d", stop.VisitOrder)
	}
}

func TestReorderValidation(t *testing.T) {
	f := newTripFixture()
	ctx := context.Background()
	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip"})
	f.addStop(t, trip.ID, models.StopDestination, 1)
	f.addStop(t, trip.ID, models.StopDestination, 2)

	tests := []struct {
		name   string
		orders []models.StopOrder
		want   error
	}{
		{"empty", nil, apperrors.ErrInvalidArgument},
		{"zero order", []models.StopOrder{{TargetID: 1, VisitOrder: 0}}, apperrors.ErrInvalidArgument},
		{"repeated target", []models.StopOrder{{TargetID: 1, VisitOrder: 1}, {TargetID: 1, VisitOrder: 2}}, apperrors.ErrInvalidArgument},
		{"repeated order", []models.StopOrder{{TargetID: 1, VisitOrder: 1}, {TargetID: 2, VisitOrder: 1}}, apperrors.ErrInvalidArgument},
		{"not a stop", []models.StopOrder{{TargetID: 3, VisitOrder: 5}}, apperrors.ErrResourceNotFound},
		{"collides with unlisted stop", []models.StopOrder{{TargetID: 1, VisitOrder: 2}}, apperrors.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ReorderStops(ctx, owner, trip.ID, models.StopDestination, tt.orders)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := f.svc.ReorderStops(ctx, stranger, trip.ID, models.StopDestination, []models.StopOrder{{TargetID: 1, VisitOrder: 3}})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("stranger reorder err = %v, want PermissionDenied", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name  string
		steps []models.TripStatus
		fail  bool
	}{
		{"draft to active to completed", []models.TripStatus{models.TripStatusActive, models.TripStatusCompleted}, false},
		{"draft to cancelled", []models.TripStatus{models.TripStatusCancelled}, false},
		{"same status is a no-op", []models.TripStatus{models.TripStatusDraft}, false},
		{"draft to completed", []models.TripStatus{models.TripStatusCompleted}, true},
		{"out of completed", []models.TripStatus{models.TripStatusActive, models.TripStatusCompleted, models.TripStatusActive}, true},
		{"out of cancelled", []models.TripStatus{models.TripStatusCancelled, models.TripStatusDraft}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTripFixture()
			trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip"})

			var err error
			for _, s := range tt.steps {
				if _, err = f.svc.UpdateStatus(context.Background(), owner, trip.ID, s); err != nil {
					break
				}
			}
			if tt.fail {
				if !errors.Is(err, apperrors.ErrInvalidState) {
					t.Errorf("err = %v, want InvalidState", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := f.trips.trips[trip.ID].Status; got != tt.steps[len(tt.steps)-1] {
				t.Errorf("status = %s, want %s", got, tt.steps[len(tt.steps)-1])
			}
		})
	}
}

func TestGetTripAggregatesAndAccess(t *testing.T) {
	f := newTripFixture()
	ctx := context.Background()
	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip", TripType: ptr("friends"), ParticipantCount: ptr(4)})
	f.addStop(t, trip.ID, models.StopDestination, 1)
	f.addStop(t, trip.ID, models.StopDestination, 2)
	f.addStop(t, trip.ID, models.StopEvent, 10)

	got, err := f.svc.GetTrip(ctx, owner, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	// (100 + 50 + 25) per person, 4 people
	if got.EstimatedCost != 700 {
		t.Errorf("EstimatedCost = %v, want 700", got.EstimatedCost)
	}
	// destination ratings 3 and 4, event rating 4
	if got.AverageRating == nil || *got.AverageRating != 3.67 {
		t.Errorf("AverageRating = %v, want 3.67", got.AverageRating)
	}
	if got.StopCount != 3 {
		t.Errorf("StopCount = %d, want 3", got.StopCount)
	}

	if _, err := f.svc.GetTrip(ctx, stranger, trip.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("private trip err = %v, want PermissionDenied", err)
	}

	f.groups.members[[2]int64{7, stranger}] = &models.GroupMember{GroupID: 7, UserID: stranger}
	f.groups.shares[[2]int64{7, trip.ID}] = &models.TripShare{GroupID: 7, TripID: trip.ID}
	if _, err := f.svc.GetTrip(ctx, stranger, trip.ID); err != nil {
		t.Errorf("shared trip err = %v", err)
	}

	empty := f.createTrip(t, &dto.CreateTripRequest{Title: "Empty", Visibility: "public"})
	got, err = f.svc.GetTrip(ctx, stranger, empty.ID)
	if err != nil {
		t.Fatalf("public trip: %v", err)
	}
	if got.AverageRating != nil || got.EstimatedCost != 0 {
		t.Errorf("empty trip aggregates = %v/%v", got.EstimatedCost, got.AverageRating)
	}
}

func TestAverageRatingSkipsUnreviewedTargets(t *testing.T) {
	f := newTripFixture()
	ctx := context.Background()
	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip"})
	f.addStop(t, trip.ID, models.StopDestination, 2)
	f.addStop(t, trip.ID, models.StopDestination, 3)

	got, err := f.svc.GetTrip(ctx, owner, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got.AverageRating == nil || *got.AverageRating != 4 {
		t.Errorf("AverageRating = %v, want 4", got.AverageRating)
	}
	if got.StopCount != 2 {
		t.Errorf("StopCount = %d, want 2", got.StopCount)
	}

	only := f.createTrip(t, &dto.CreateTripRequest{Title: "Unreviewed"})
	f.addStop(t, only.ID, models.StopDestination, 3)
	got, err = f.svc.GetTrip(ctx, owner, only.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got.AverageRating != nil {
		t.Errorf("AverageRating = %v, want none", *got.AverageRating)
	}
}

func TestUpdateTrip(t *testing.T) {
	f := newTripFixture()
	ctx := context.Background()
	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip", TripType: ptr("couple")})

	_, err := f.svc.UpdateTrip(ctx, owner, trip.ID, &dto.UpdateTripRequest{ParticipantCount: ptr(3)})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("couple of 3 err = %v, want InvalidArgument", err)
	}

	got, err := f.svc.UpdateTrip(ctx, owner, trip.ID, &dto.UpdateTripRequest{
		TripType:         ptr("family"),
		ParticipantCount: ptr(4),
		Title:            ptr("Family trip"),
	})
	if err != nil {
		t.Fatalf("UpdateTrip: %v", err)
	}
	if got.Title != "Family trip" || got.TripType != models.TripTypeFamily || got.ParticipantCount != 4 {
		t.Errorf("got %q %s/%d", got.Title, got.TripType, got.ParticipantCount)
	}

	if _, err := f.svc.UpdateTrip(ctx, stranger, trip.ID, &dto.UpdateTripRequest{Title: ptr("x")}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("stranger update err = %v, want PermissionDenied", err)
	}
}

func TestListAndDeleteTrips(t *testing.T) {
	f := newTripFixture()
	ctx := context.Background()
	first := f.createTrip(t, &dto.CreateTripRequest{Title: "One"})
	f.createTrip(t, &dto.CreateTripRequest{Title: "Two"})
	if _, err := f.svc.UpdateStatus(ctx, owner, first.ID, models.TripStatusActive); err != nil {
		t.Fatal(err)
	}

	resp, err := f.svc.ListMyTrips(ctx, owner, &dto.TripListRequest{Status: "active"})
	if err != nil {
		t.Fatalf("ListMyTrips: %v", err)
	}
	if resp.Pagination.TotalItems != 1 {
		t.Errorf("active trips = %d, want 1", resp.Pagination.TotalItems)
	}

	if err := f.svc.DeleteTrip(ctx, stranger, first.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("stranger delete err = %v", err)
	}
	if err := f.svc.DeleteTrip(ctx, owner, first.ID); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	if _, err := f.svc.GetTrip(ctx, owner, first.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("deleted trip err = %v, want NotFound", err)
	}
}

func TestUpdateStop(t *testing.T) {
	f := newTripFixture()
	ctx := context.Background()
	trip := f.createTrip(t, &dto.CreateTripRequest{Title: "Trip"})
	f.addStop(t, trip.ID, models.StopDestination, 1)

	got, err := f.svc.UpdateStop(ctx, owner, trip.ID, models.StopDestination, 1, &dto.UpdateStopRequest{
		Notes:       ptr("bring water"),
		StartTime:   ptr("08:30"),
		IsCompleted: ptr(true),
	})
	if err != nil {
		t.Fatalf("UpdateStop: %v", err)
	}
	if *got.Notes != "bring water" || *got.StartTime != "08:30" || !got.IsCompleted {
		t.Errorf("stop not updated: %+v", got.TripStop)
	}

	_, err = f.svc.UpdateStop(ctx, owner, trip.ID, models.StopDestination, 2, &dto.UpdateStopRequest{})
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("missing stop err = %v, want NotFound", err)
	}
}

func stopIDs(stops []*models.TripStop) string {
	ids := make([]string, len(stops))
	for i, s := range stops {
		ids[i] = strconv.FormatInt(s.TargetID, 10)
	}
	return strings.Join(ids, ",")
}
