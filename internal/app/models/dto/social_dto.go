package dto

// CreateReviewRequest reviews exactly one destination or event
type CreateReviewRequest struct {
	DestinationID *int64 `json:"destinationId" binding:"omitempty,gt=0"`
	EventID       *int64 `json:"eventId" binding:"omitempty,gt=0"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment" binding:"max=2000"`
}

// UpdateReviewRequest edits the author's review
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

// HelpfulResponse is the count after a helpful mark
type HelpfulResponse struct {
	HelpfulCount int  `json:"helpfulCount"`
	Marked       bool `json:"marked"`
}

// CreateGroupRequest creates a group with the caller as creator and admin
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

// AddMemberRequest adds a user to a group
type AddMemberRequest struct {
	UserID int64  `json:"userId" binding:"required,gt=0"`
	Role   string `json:"role" binding:"omitempty,oneof=admin member"`
}

// UpdateMemberRoleRequest changes a member's role
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}

// ShareTripRequest shares one of the caller's trips to a group
type ShareTripRequest struct {
	TripID  int64  `json:"tripId" binding:"required,gt=0"`
	Message string `json:"message" binding:"max=500"`
}

// CreateCommentRequest comments on a shared trip, optionally replying to a top level comment
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	ParentID *int64 `json:"parentId" binding:"omitempty,gt=0"`
}

// NotificationListRequest pages through the caller's notifications
type NotificationListRequest struct {
	PageRequest
	UnreadOnly bool `form:"unreadOnly"`
}

// UnreadCountResponse is the number of unread notifications
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
