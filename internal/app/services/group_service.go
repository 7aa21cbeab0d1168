package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/auth"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
)

// GroupService handles groups, their members and the trips shared to them
type GroupService interface {
	CreateGroup(ctx context.Context, userID int64, req *dto.CreateGroupRequest) (*models.Group, error)
	GetGroup(ctx context.Context, userID, groupID int64) (*models.Group, error)
	ListMyGroups(ctx context.Context, userID int64) ([]*models.Group, error)

	AddMember(ctx context.Context, userID, groupID int64, req *dto.AddMemberRequest) (*models.GroupMember, error)
	RemoveMember(ctx context.Context, userID, groupID, memberID int64) error
	LeaveGroup(ctx context.Context, userID, groupID int64) error
	UpdateMemberRole(ctx context.Context, userID, groupID, memberID int64, role models.GroupRole) error

	ShareTrip(ctx context.Context, userID, groupID int64, req *dto.ShareTripRequest) (*models.TripShare, error)
	ListSharedTrips(ctx context.Context, userID, groupID int64) ([]*models.TripShare, error)
	UnshareTrip(ctx context.Context, userID, groupID, tripID int64) error

	AddComment(ctx context.Context, userID, groupID, tripID int64, req *dto.CreateCommentRequest) (*models.GroupComment, error)
	ListComments(ctx context.Context, userID, groupID, tripID int64) ([]*models.GroupComment, error)
	DeleteComment(ctx context.Context, userID, groupID, commentID int64) error
}

type groupServiceImpl struct {
	tx            Transactor
	groups        GroupStore
	users         UserStore
	trips         TripStore
	notifications NotificationStore
	authz         *auth.AuthorizationService
	logger        zerolog.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	tx Transactor,
	groups GroupStore,
	users UserStore,
	trips TripStore,
	notifications NotificationStore,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) GroupService {
	return &groupServiceImpl{
		tx:            tx,
		groups:        groups,
		users:         users,
		trips:         trips,
		notifications: notifications,
		authz:         authz,
		logger:        logger,
	}
}

func (s *groupServiceImpl) CreateGroup(ctx context.Context, userID int64, req *dto.CreateGroupRequest) (*models.Group, error) {
	group := &models.Group{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatorID:   userID,
	}
	if group.Name == "" {
		return nil, apperrors.InvalidField("name", "name is required")
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.groups.Create(ctx, group); err != nil {
			return err
		}
		return s.groups.AddMember(ctx, &models.GroupMember{
			GroupID: group.ID,
			UserID:  userID,
			Role:    models.GroupRoleAdmin,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error creating group: %w", err)
	}
	group.MemberCount = 1

	s.logger.Info().Int64("groupID", group.ID).Int64("creatorID", userID).Msg("Group created")
	return group, nil
}

func (s *groupServiceImpl) GetGroup(ctx context.Context, userID, groupID int64) (*models.Group, error) {
	if _, err := s.authz.Membership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Members, err = s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	return group, nil
}

func (s *groupServiceImpl) ListMyGroups(ctx context.Context, userID int64) ([]*models.Group, error) {
	groups, err := s.groups.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing groups: %w", err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	return groups, nil
}

func (s *groupServiceImpl) AddMember(ctx context.Context, userID, groupID int64, req *dto.AddMemberRequest) (*models.GroupMember, error) {
	if _, err := s.authz.EnsureGroupAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}

	role := models.GroupRole(req.Role)
	if role == "" {
		role = models.GroupRoleMember
	}
	if !role.IsValid() {
		return nil, apperrors.InvalidField("role", "role must be admin or member")
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	member := &models.GroupMember{GroupID: groupID, UserID: req.UserID, Role: role}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.groups.AddMember(ctx, member); err != nil {
			return err
		}
		return s.notify(ctx, req.UserID, models.NotificationGroupMemberAdded,
			"Added to a group",
			fmt.Sprintf("You were added to the group %q", group.Name),
			"group", groupID)
	})
	if err != nil {
		return nil, fmt.Errorf("error adding member: %w", err)
	}
	member.User = user

	s.logger.Info().Int64("groupID", groupID).Int64("memberID", req.UserID).Str("role", string(role)).Msg("Member added")
	return member, nil
}

func (s *groupServiceImpl) RemoveMember(ctx context.Context, userID, groupID, memberID int64) error {
	if _, err := s.authz.EnsureGroupAdmin(ctx, groupID, userID); err != nil {
		return err
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if memberID == group.CreatorID {
		return apperrors.InvalidArgument("the group creator cannot be removed")
	}

	if err := s.groups.RemoveMember(ctx, groupID, memberID); err != nil {
		return fmt.Errorf("error removing member: %w", err)
	}
	s.logger.Info().Int64("groupID", groupID).Int64("memberID", memberID).Int64("by", userID).Msg("Member removed")
	return nil
}

func (s *groupServiceImpl) LeaveGroup(ctx context.Context, userID, groupID int64) error {
	if _, err := s.authz.Membership(ctx, groupID, userID); err != nil {
		return err
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if userID == group.CreatorID {
		return apperrors.InvalidArgument("the group creator cannot leave the group")
	}

	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return fmt.Errorf("error leaving group: %w", err)
	}
	return nil
}

// UpdateMemberRole is reserved to the group creator, whose own role never changes
func (s *groupServiceImpl) UpdateMemberRole(ctx context.Context, userID, groupID, memberID int64, role models.GroupRole) error {
	if !role.IsValid() {
		return apperrors.InvalidField("role", "role must be admin or member")
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != userID {
		return apperrors.Forbidden("only the group creator can change roles")
	}
	if memberID == group.CreatorID {
		return apperrors.InvalidArgument("the creator's role cannot be changed")
	}

	if _, err := s.groups.GetMember(ctx, groupID, memberID); err != nil {
		return err
	}
	if err := s.groups.UpdateMemberRole(ctx, groupID, memberID, role); err != nil {
		return fmt.Errorf("error updating role: %w", err)
	}
	return nil
}

// ShareTrip shares one of the caller's trips and notifies the other members
func (s *groupServiceImpl) ShareTrip(ctx context.Context, userID, groupID int64, req *dto.ShareTripRequest) (*models.TripShare, error) {
	if _, err := s.authz.Membership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.EnsureTripOwner(trip, userID); err != nil {
		return nil, err
	}

	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}

	share := &models.TripShare{
		GroupID:  groupID,
		TripID:   trip.ID,
		SharedBy: userID,
		Message:  strings.TrimSpace(req.Message),
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.groups.ShareTrip(ctx, share); err != nil {
			return err
		}
		for _, m := range members {
			if m.UserID == userID {
				continue
			}
			err := s.notify(ctx, m.UserID, models.NotificationTripShared,
				"New trip shared",
				fmt.Sprintf("The trip %q was shared with your group", trip.Title),
				"trip", trip.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error sharing trip: %w", err)
	}
	share.Trip = trip

	s.logger.Info().Int64("groupID", groupID).Int64("tripID", trip.ID).Int64("userID", userID).Msg("Trip shared")
	return share, nil
}

func (s *groupServiceImpl) ListSharedTrips(ctx context.Context, userID, groupID int64) ([]*models.TripShare, error) {
	if _, err := s.authz.Membership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	shares, err := s.groups.ListShares(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing shared trips: %w", err)
	}
	if shares == nil {
		shares = []*models.TripShare{}
	}
	return shares, nil
}

// UnshareTrip is allowed to whoever shared the trip and to group admins
func (s *groupServiceImpl) UnshareTrip(ctx context.Context, userID, groupID, tripID int64) error {
	member, err := s.authz.Membership(ctx, groupID, userID)
	if err != nil {
		return err
	}

	share, err := s.groups.GetShare(ctx, groupID, tripID)
	if err != nil {
		return err
	}
	if share.SharedBy != userID && member.Role != models.GroupRoleAdmin {
		return apperrors.Forbidden("only the member who shared the trip or an admin can remove it")
	}

	if err := s.groups.DeleteShare(ctx, groupID, tripID); err != nil {
		return fmt.Errorf("error removing shared trip: %w", err)
	}
	return nil
}

// AddComment comments on a shared trip. Replies attach to top level comments only.
func (s *groupServiceImpl) AddComment(ctx context.Context, userID, groupID, tripID int64, req *dto.CreateCommentRequest) (*models.GroupComment, error) {
	if _, err := s.authz.Membership(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if _, err := s.groups.GetShare(ctx, groupID, tripID); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.InvalidField("content", "content is required")
	}

	var parent *models.GroupComment
	if req.ParentID != nil {
		var err error
		parent, err = s.groups.GetComment(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.GroupID != groupID || parent.TripID != tripID {
			return nil, apperrors.InvalidField("parentId", "parent comment belongs to another trip")
		}
		if parent.ParentID != nil {
			return nil, apperrors.InvalidField("parentId", "replies can only be made to top level comments")
		}
	}

	comment := &models.GroupComment{
		GroupID:  groupID,
		TripID:   tripID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  content,
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.groups.CreateComment(ctx, comment); err != nil {
			return err
		}
		if parent == nil || parent.UserID == userID {
			return nil
		}
		return s.notify(ctx, parent.UserID, models.NotificationCommentReply,
			"New reply",
			"Someone replied to your comment",
			"comment", comment.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("error adding comment: %w", err)
	}
	return comment, nil
}

// ListComments returns the top level comments of a shared trip with their replies nested
func (s *groupServiceImpl) ListComments(ctx context.Context, userID, groupID, tripID int64) ([]*models.GroupComment, error) {
	if _, err := s.authz.Membership(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if _, err := s.groups.GetShare(ctx, groupID, tripID); err != nil {
		return nil, err
	}

	flat, err := s.groups.ListComments(ctx, groupID, tripID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	return threadComments(flat), nil
}

func (s *groupServiceImpl) DeleteComment(ctx context.Context, userID, groupID, commentID int64) error {
	member, err := s.authz.Membership(ctx, groupID, userID)
	if err != nil {
		return err
	}

	comment, err := s.groups.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.GroupID != groupID {
		return apperrors.NotFound("comment %d not found", commentID)
	}
	if comment.UserID != userID && member.Role != models.GroupRoleAdmin {
		return apperrors.Forbidden("you can only delete your own comments")
	}

	if err := s.groups.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	return nil
}

func (s *groupServiceImpl) notify(ctx context.Context, userID int64, kind models.NotificationType, title, message, refType string, refID int64) error {
	return s.notifications.Create(ctx, &models.Notification{
		UserID:        userID,
		Type:          kind,
		Title:         title,
		Message:       message,
		ReferenceType: refType,
		ReferenceID:   &refID,
	})
}

// threadComments nests replies under their parents, keeping the oldest first order
func threadComments(flat []*models.GroupComment) []*models.GroupComment {
	roots := make([]*models.GroupComment, 0, len(flat))
	byID := make(map[int64]*models.GroupComment, len(flat))
	for _, c := range flat {
		if c.ParentID == nil {
			c.Replies = []*models.GroupComment{}
			byID[c.ID] = c
			roots = append(roots, c)
		}
	}
	for _, c := range flat {
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return roots
}
