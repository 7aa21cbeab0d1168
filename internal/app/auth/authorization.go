package auth

import (
	"context"
	"errors"

	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/logger"
)

// AccessStore answers the membership and sharing questions authorization needs
type AccessStore interface {
	GetMember(ctx context.Context, groupID, userID int64) (*models.GroupMember, error)
	IsTripSharedWithUser(ctx context.Context, tripID, userID int64) (bool, error)
}

// AuthorizationService handles authorization operations on trips and groups
type AuthorizationService struct {
	store AccessStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(store AccessStore) *AuthorizationService {
	return &AuthorizationService{store: store}
}

// EnsureTripOwner returns a permission error unless userID owns the trip
func (s *AuthorizationService) EnsureTripOwner(trip *models.Trip, userID int64) error {
	if trip.UserID != userID {
		return apperrors.Forbidden("you don't own trip %d", trip.ID)
	}
	return nil
}

// CanViewTrip reports whether userID may read the trip: the owner, anyone for a
// public trip, and members of a group the trip is shared to
func (s *AuthorizationService) CanViewTrip(ctx context.Context, trip *models.Trip, userID int64) (bool, error) {
	if trip.UserID == userID || trip.Visibility == models.VisibilityPublic {
		return true, nil
	}
	if userID == 0 {
		return false, nil
	}

	shared, err := s.store.IsTripSharedWithUser(ctx, trip.ID, userID)
	if err != nil {
		logger.Error().Err(err).Int64("tripID", trip.ID).Int64("userID", userID).Msg("Error checking trip access")
		return false, err
	}
	return shared, nil
}

// EnsureCanViewTrip returns a permission error unless CanViewTrip holds
func (s *AuthorizationService) EnsureCanViewTrip(ctx context.Context, trip *models.Trip, userID int64) error {
	ok, err := s.CanViewTrip(ctx, trip, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden("you don't have access to trip %d", trip.ID)
	}
	return nil
}

// Membership returns the caller's membership or a permission error for non-members
func (s *AuthorizationService) Membership(ctx context.Context, groupID, userID int64) (*models.GroupMember, error) {
	member, err := s.store.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.Forbidden("you are not a member of group %d", groupID)
		}
		return nil, err
	}
	return member, nil
}

// EnsureGroupAdmin returns a permission error unless userID is an admin of the group
func (s *AuthorizationService) EnsureGroupAdmin(ctx context.Context, groupID, userID int64) (*models.GroupMember, error) {
	member, err := s.Membership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != models.GroupRoleAdmin {
		return nil, apperrors.Forbidden("only group admins can do this")
	}
	return member, nil
}
