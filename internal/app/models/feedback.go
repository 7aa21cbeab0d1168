package models

import "time"

// FeedbackType is what a user expressed about a target
type FeedbackType string

const (
	FeedbackLike    FeedbackType = "like"
	FeedbackCheckin FeedbackType = "checkin"
)

// UserFeedback is unique per (user, target type, target id, feedback type)
type UserFeedback struct {
	ID           int64                  `json:"id" db:"id"`
	UserID       int64                  `json:"userId" db:"user_id"`
	TargetType   TargetType             `json:"targetType" db:"target_type"`
	TargetID     int64                  `json:"targetId" db:"target_id"`
	FeedbackType FeedbackType           `json:"feedbackType" db:"feedback_type"`
	Metadata     map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time              `json:"createdAt" db:"created_at"`
}

// CheckinMetadata is the snapshot stored with a check-in
type CheckinMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
}

// Map renders the metadata as the jsonb object stored with the feedback row
func (m CheckinMetadata) Map() map[string]interface{} {
	out := map[string]interface{}{"timestamp": m.Timestamp.Format(time.RFC3339)}
	if m.Lat != nil && m.Lng != nil {
		out["lat"] = *m.Lat
		out["lng"] = *m.Lng
	}
	return out
}

// TargetCounter is a derived counter column of destinations and events
type TargetCounter string

const (
	CounterLikes    TargetCounter = "total_likes"
	CounterCheckins TargetCounter = "total_checkins"
)
