package models

import "time"

// NotificationType names the event a notification was stored for
type NotificationType string

const (
	NotificationGroupMemberAdded NotificationType = "group_member_added"
	NotificationTripShared       NotificationType = "trip_shared"
	NotificationCommentReply     NotificationType = "comment_reply"
)

// Notification is stored for a user, read through the API; nothing is pushed
type Notification struct {
	ID            int64            `json:"id" db:"id"`
	UserID        int64            `json:"userId" db:"user_id"`
	Type          NotificationType `json:"type" db:"type"`
	Title         string           `json:"title" db:"title"`
	Message       string           `json:"message" db:"message"`
	ReferenceType string           `json:"referenceType,omitempty" db:"reference_type"`
	ReferenceID   *int64           `json:"referenceId,omitempty" db:"reference_id"`
	IsRead        bool             `json:"isRead" db:"is_read"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
}
