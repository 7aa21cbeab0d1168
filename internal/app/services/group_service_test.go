package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
)

const (
	creator int64 = 1
	alice   int64 = 2
	bob     int64 = 3
)

type groupFixture struct {
	svc           GroupService
	groups        *fakeGroups
	trips         *fakeTrips
	notifications *fakeNotifications
}

func newGroupFixture(t *testing.T) (*groupFixture, *models.Group) {
	t.Helper()
	users := newFakeUsers()
	for _, email := range []string{"creator@example.com", "alice@example.com", "bob@example.com"} {
		if err := users.Create(context.Background(), &models.User{Email: email, IsActive: true}); err != nil {
			t.Fatal(err)
		}
	}

	f := &groupFixture{
		groups:        newFakeGroups(),
		trips:         newFakeTrips(),
		notifications: &fakeNotifications{},
	}
	f.svc = NewGroupService(fakeTx{}, f.groups, users, f.trips, f.notifications, newTestAuthz(f.groups), nopLogger)

	group, err := f.svc.CreateGroup(context.Background(), creator, &dto.CreateGroupRequest{Name: "Hikers"})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	return f, group
}

func TestCreateGroupMakesCreatorAdmin(t *testing.T) {
	f, group := newGroupFixture(t)

	m, err := f.groups.GetMember(context.Background(), group.ID, creator)
	if err != nil {
		t.Fatalf("creator membership: %v", err)
	}
	if m.Role != models.GroupRoleAdmin {
		t.Errorf("creator role = %s, want admin", m.Role)
	}
	if group.MemberCount != 1 {
		t.Errorf("MemberCount = %d, want 1", group.MemberCount)
	}
}

func TestAddMember(t *testing.T) {
	f, group := newGroupFixture(t)
	ctx := context.Background()

	if _, err := f.svc.AddMember(ctx, creator, group.ID, &dto.AddMemberRequest{UserID: alice}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if got := f.notifications.forUser(alice); len(got) != 1 || got[0].Type != models.NotificationGroupMemberAdded {
		t.Errorf("alice notifications = %v", got)
	}

	tests := []struct {
		name   string
		caller int64
		req    *dto.AddMemberRequest
		want   error
	}{
		{"already a member", creator, &dto.AddMemberRequest{UserID: alice}, apperrors.ErrConflict},
		{"unknown user", creator, &dto.AddMemberRequest{UserID: 99}, apperrors.ErrResourceNotFound},
		{"member is not admin", alice, &dto.AddMemberRequest{UserID: bob}, apperrors.ErrPermissionDenied},
		{"outsider", bob, &dto.AddMemberRequest{UserID: bob}, apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.AddMember(ctx, tt.caller, group.ID, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMemberRemovalAndRoles(t *testing.T) {
	f, group := newGroupFixture(t)
	ctx := context.Background()
	for _, id := range []int64{alice, bob} {
		if _, err := f.svc.AddMember(ctx, creator, group.ID, &dto.AddMemberRequest{UserID: id}); err != nil {
			t.Fatal(err)
		}
	}

	if err := f.svc.UpdateMemberRole(ctx, alice, group.ID, bob, models.GroupRoleAdmin); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("non-creator role change err = %v, want PermissionDenied", err)
	}
	if err := f.svc.UpdateMemberRole(ctx, creator, group.ID, alice, models.GroupRoleAdmin); err != nil {
		t.Fatalf("UpdateMemberRole: %v", err)
	}
	if err := f.svc.UpdateMemberRole(ctx, creator, group.ID, creator, models.GroupRoleMember); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("creator demotion err = %v, want InvalidArgument", err)
	}

	if err := f.svc.RemoveMember(ctx, alice, group.ID, creator); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("removing creator err = %v, want InvalidArgument", err)
	}
	if err := f.svc.RemoveMember(ctx, alice, group.ID, bob); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if _, err := f.svc.GetGroup(ctx, bob, group.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("removed member GetGroup err = %v, want PermissionDenied", err)
	}

	if err := f.svc.LeaveGroup(ctx, creator, group.ID); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("creator leave err = %v, want InvalidArgument", err)
	}
	if err := f.svc.LeaveGroup(ctx, alice, group.ID); err != nil {
		t.Errorf("LeaveGroup: %v", err)
	}
}

func TestShareTripAndComments(t *testing.T) {
	f, group := newGroupFixture(t)
	ctx := context.Background()
	for _, id := range []int64{alice, bob} {
		if _, err := f.svc.AddMember(ctx, creator, group.ID, &dto.AddMemberRequest{UserID: id}); err != nil {
			t.Fatal(err)
		}
	}
	trip := &models.Trip{UserID: alice, Title: "Coast road"}
	if err := f.trips.Create(ctx, trip); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.ShareTrip(ctx, bob, group.ID, &dto.ShareTripRequest{TripID: trip.ID}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("sharing someone else's trip err = %v, want PermissionDenied", err)
	}
	if _, err := f.svc.ShareTrip(ctx, alice, group.ID, &dto.ShareTripRequest{TripID: trip.ID}); err != nil {
		t.Fatalf("ShareTrip: %v", err)
	}
	if _, err := f.svc.ShareTrip(ctx, alice, group.ID, &dto.ShareTripRequest{TripID: trip.ID}); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("second share err = %v, want Conflict", err)
	}
	for _, id := range []int64{creator, bob} {
		if got := f.notifications.forUser(id); len(got) == 0 || got[len(got)-1].Type != models.NotificationTripShared {
			t.Errorf("user %d was not notified of the share", id)
		}
	}

	top, err := f.svc.AddComment(ctx, bob, group.ID, trip.ID, &dto.CreateCommentRequest{Content: "Nice route"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	reply, err := f.svc.AddComment(ctx, alice, group.ID, trip.ID, &dto.CreateCommentRequest{Content: "Thanks", ParentID: &top.ID})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	bobNotes := f.notifications.forUser(bob)
	if bobNotes[len(bobNotes)-1].Type != models.NotificationCommentReply {
		t.Errorf("bob was not notified of the reply")
	}

	_, err = f.svc.AddComment(ctx, bob, group.ID, trip.ID, &dto.CreateCommentRequest{Content: "Nested", ParentID: &reply.ID})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("reply to reply err = %v, want InvalidArgument", err)
	}

	threads, err := f.svc.ListComments(ctx, creator, group.ID, trip.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(threads) != 1 || len(threads[0].Replies) != 1 || threads[0].Replies[0].ID != reply.ID {
		t.Errorf("threads = %+v", threads)
	}

	if err := f.svc.DeleteComment(ctx, alice, group.ID, top.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("member deleting another's comment err = %v, want PermissionDenied", err)
	}
	if err := f.svc.DeleteComment(ctx, creator, group.ID, top.ID); err != nil {
		t.Errorf("admin delete comment: %v", err)
	}

	if err := f.svc.UnshareTrip(ctx, bob, group.ID, trip.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("bob unshare err = %v, want PermissionDenied", err)
	}
	if err := f.svc.UnshareTrip(ctx, alice, group.ID, trip.ID); err != nil {
		t.Fatalf("UnshareTrip: %v", err)
	}
	if _, err := f.svc.ListComments(ctx, creator, group.ID, trip.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("comments on unshared trip err = %v, want NotFound", err)
	}
}
