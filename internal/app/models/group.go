package models

import "time"

// GroupRole is the role of a member inside a group
type GroupRole string

const (
	GroupRoleAdmin  GroupRole = "admin"
	GroupRoleMember GroupRole = "member"
)

// IsValid reports whether r is admin or member
func (r GroupRole) IsValid() bool {
	return r == GroupRoleAdmin || r == GroupRoleMember
}

// Group is a set of users sharing trips
type Group struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatorID   int64     `json:"creatorId" db:"creator_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	MemberCount int            `json:"memberCount"`
	Members     []*GroupMember `json:"members,omitempty"`
}

// GroupMember links a user to a group
type GroupMember struct {
	GroupID  int64     `json:"groupId" db:"group_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	Role     GroupRole `json:"role" db:"role"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`

	User *User `json:"user,omitempty"`
}

// TripShare records a trip shared to a group; a trip is shared to a group at most once
type TripShare struct {
	ID       int64     `json:"id" db:"id"`
	GroupID  int64     `json:"groupId" db:"group_id"`
	TripID   int64     `json:"tripId" db:"trip_id"`
	SharedBy int64     `json:"sharedBy" db:"shared_by"`
	Message  string    `json:"message" db:"message"`
	SharedAt time.Time `json:"sharedAt" db:"shared_at"`

	Trip *Trip `json:"trip,omitempty"`
}

// GroupComment is a comment on a shared trip. ParentID points to a top level comment.
type GroupComment struct {
	ID        int64     `json:"id" db:"id"`
	GroupID   int64     `json:"groupId" db:"group_id"`
	TripID    int64     `json:"tripId" db:"trip_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Replies []*GroupComment `json:"replies,omitempty"`
}
