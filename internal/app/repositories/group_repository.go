package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/db"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/dberrors"
	"github.com/yigit/tripplanner/internal/pkg/logger"
)

const (
	groupMembersKey = "group_members_pkey"
	tripSharesKey   = "trip_shares_group_trip_key"
)

// GroupRepository handles database operations for groups, members, shared trips
// and the comments on them
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

const groupSelect = `
	SELECT g.id, g.name, g.description, g.creator_id, g.created_at, g.updated_at,
	       (SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.id)
	FROM groups g`

func scanGroup(row pgx.Row) (*models.Group, error) {
	var g models.Group
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.CreatorID, &g.CreatedAt, &g.UpdatedAt, &g.MemberCount); err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a group and fills in the generated fields
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO groups (name, description, creator_id) VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		group.Name, group.Description, group.CreatorID,
	).Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("creatorID", group.CreatorID).Msg("Error creating group")
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// GetByID retrieves a group with its member count
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	g, err := scanGroup(db.Conn(ctx, r.pool).QueryRow(ctx, groupSelect+` WHERE g.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("group %d not found", id)
		}
		logger.Error().Err(err).Int64("groupID", id).Msg("Error retrieving group")
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// ListByMember returns the groups a user belongs to, newest first
func (r *GroupRepository) ListByMember(ctx context.Context, userID int64) ([]*models.Group, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, groupSelect+`
		JOIN group_members gm ON gm.group_id = g.id AND gm.user_id = $1
		ORDER BY g.created_at DESC, g.id DESC`, userID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error listing groups")
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// AddMember inserts a membership; an existing one is a Conflict
func (r *GroupRepository) AddMember(ctx context.Context, member *models.GroupMember) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO group_members (group_id, user_id, role) VALUES ($1, $2, $3)
		RETURNING joined_at`,
		member.GroupID, member.UserID, member.Role,
	).Scan(&member.JoinedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, groupMembersKey) {
			return apperrors.Conflict("user %d is already a member of group %d", member.UserID, member.GroupID)
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NotFound("user %d not found", member.UserID)
		}
		logger.Error().Err(err).Int64("groupID", member.GroupID).Msg("Error adding group member")
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// GetMember retrieves one membership
func (r *GroupRepository) GetMember(ctx context.Context, groupID, userID int64) (*models.GroupMember, error) {
	m := models.GroupMember{GroupID: groupID, UserID: userID}
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT role, joined_at FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	).Scan(&m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user %d is not a member of group %d", userID, groupID)
		}
		return nil, fmt.Errorf("failed to get group member: %w", err)
	}
	return &m, nil
}

// ListMembers returns the members of a group in join order
func (r *GroupRepository) ListMembers(ctx context.Context, groupID int64) ([]*models.GroupMember, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT m.group_id, m.user_id, m.role, m.joined_at, u.email, u.full_name
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.joined_at ASC, m.user_id ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	members := []*models.GroupMember{}
	for rows.Next() {
		m := &models.GroupMember{User: &models.User{}}
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Role, &m.JoinedAt, &m.User.Email, &m.User.FullName); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		m.User.ID = m.UserID
		members = append(members, m)
	}
	return members, rows.Err()
}

// UpdateMemberRole changes the role of a member
func (r *GroupRepository) UpdateMemberRole(ctx context.Context, groupID, userID int64, role models.GroupRole) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE group_members SET role = $1 WHERE group_id = $2 AND user_id = $3`, role, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user %d is not a member of group %d", userID, groupID)
	}
	return nil
}

// RemoveMember deletes a membership
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", groupID).Int64("userID", userID).Msg("Error removing group member")
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user %d is not a member of group %d", userID, groupID)
	}
	return nil
}

// ShareTrip records a trip share; sharing the same trip twice is a Conflict
func (r *GroupRepository) ShareTrip(ctx context.Context, share *models.TripShare) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO trip_shares (group_id, trip_id, shared_by, message) VALUES ($1, $2, $3, $4)
		RETURNING id, shared_at`,
		share.GroupID, share.TripID, share.SharedBy, share.Message,
	).Scan(&share.ID, &share.SharedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, tripSharesKey) {
			return apperrors.Conflict("trip %d is already shared with group %d", share.TripID, share.GroupID)
		}
		logger.Error().Err(err).Int64("groupID", share.GroupID).Int64("tripID", share.TripID).Msg("Error sharing trip")
		return fmt.Errorf("failed to share trip: %w", err)
	}
	return nil
}

const shareSelect = `
	SELECT s.id, s.group_id, s.trip_id, s.shared_by, s.message, s.shared_at,
	       t.title, t.user_id, t.status, t.trip_type, t.participant_count, t.start_date, t.end_date
	FROM trip_shares s
	JOIN trips t ON t.id = s.trip_id`

func scanShare(row pgx.Row) (*models.TripShare, error) {
	var s models.TripShare
	t := &models.Trip{}
	err := row.Scan(&s.ID, &s.GroupID, &s.TripID, &s.SharedBy, &s.Message, &s.SharedAt,
		&t.Title, &t.UserID, &t.Status, &t.TripType, &t.ParticipantCount, &t.StartDate, &t.EndDate)
	if err != nil {
		return nil, err
	}
	t.ID = s.TripID
	s.Trip = t
	return &s, nil
}

// GetShare retrieves the share of a trip in a group
func (r *GroupRepository) GetShare(ctx context.Context, groupID, tripID int64) (*models.TripShare, error) {
	s, err := scanShare(db.Conn(ctx, r.pool).QueryRow(ctx,
		shareSelect+` WHERE s.group_id = $1 AND s.trip_id = $2`, groupID, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("trip %d is not shared with group %d", tripID, groupID)
		}
		return nil, fmt.Errorf("failed to get trip share: %w", err)
	}
	return s, nil
}

// ListShares returns the trips shared to a group, most recent first
func (r *GroupRepository) ListShares(ctx context.Context, groupID int64) ([]*models.TripShare, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		shareSelect+` WHERE s.group_id = $1 ORDER BY s.shared_at DESC, s.id DESC`, groupID)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", groupID).Msg("Error listing shared trips")
		return nil, fmt.Errorf("failed to list shared trips: %w", err)
	}
	defer rows.Close()

	shares := []*models.TripShare{}
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip share: %w", err)
		}
		shares = append(shares, s)
	}
	return shares, rows.Err()
}

// DeleteShare removes a trip from a group along with its comments
func (r *GroupRepository) DeleteShare(ctx context.Context, groupID, tripID int64) error {
	conn := db.Conn(ctx, r.pool)
	tag, err := conn.Exec(ctx, `DELETE FROM trip_shares WHERE group_id = $1 AND trip_id = $2`, groupID, tripID)
	if err != nil {
		return fmt.Errorf("failed to unshare trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("trip %d is not shared with group %d", tripID, groupID)
	}
	if _, err := conn.Exec(ctx, `DELETE FROM group_comments WHERE group_id = $1 AND trip_id = $2`, groupID, tripID); err != nil {
		return fmt.Errorf("failed to delete comments of unshared trip: %w", err)
	}
	return nil
}

// IsTripSharedWithUser reports whether the trip is shared to any group the user belongs to
func (r *GroupRepository) IsTripSharedWithUser(ctx context.Context, tripID, userID int64) (bool, error) {
	var shared bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM trip_shares s
			JOIN group_members m ON m.group_id = s.group_id
			WHERE s.trip_id = $1 AND m.user_id = $2
		)`, tripID, userID).Scan(&shared)
	if err != nil {
		return false, fmt.Errorf("failed to check trip share: %w", err)
	}
	return shared, nil
}

const commentColumns = `id, group_id, trip_id, user_id, parent_id, content, created_at, updated_at`

func scanComment(row pgx.Row) (*models.GroupComment, error) {
	var c models.GroupComment
	err := row.Scan(&c.ID, &c.GroupID, &c.TripID, &c.UserID, &c.ParentID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a comment on a shared trip
func (r *GroupRepository) CreateComment(ctx context.Context, comment *models.GroupComment) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO group_comments (group_id, trip_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		comment.GroupID, comment.TripID, comment.UserID, comment.ParentID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", comment.GroupID).Msg("Error creating comment")
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetComment retrieves one comment
func (r *GroupRepository) GetComment(ctx context.Context, id int64) (*models.GroupComment, error) {
	c, err := scanComment(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+commentColumns+` FROM group_comments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("comment %d not found", id)
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// ListComments returns every comment on a shared trip, oldest first
func (r *GroupRepository) ListComments(ctx context.Context, groupID, tripID int64) ([]*models.GroupComment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT `+commentColumns+` FROM group_comments
		WHERE group_id = $1 AND trip_id = $2
		ORDER BY created_at ASC, id ASC`, groupID, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.GroupComment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment; its replies cascade
func (r *GroupRepository) DeleteComment(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM group_comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("comment %d not found", id)
	}
	return nil
}
