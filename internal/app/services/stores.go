package services

import (
	"context"
	"time"

	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/db"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

// The stores below are implemented by the repositories package. Services only see
// these interfaces so they can be exercised against in-memory fakes.

// Transactor runs fn in one database transaction
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// UserStore persists user accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PreferenceStore persists one preference row per user
type PreferenceStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserPreference, error)
	Upsert(ctx context.Context, pref *models.UserPreference) error
}

// CategoryStore reads and seeds categories
type CategoryStore interface {
	List(ctx context.Context, style models.TravelStyle, contextTag string) ([]*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	CreateIfNotExists(ctx context.Context, category *models.Category) (bool, error)
}

// DestinationStore persists destinations. Reads only return active rows.
type DestinationStore interface {
	Search(ctx context.Context, q *search.Query) ([]*models.Destination, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Destination, error)
	ListFeatured(ctx context.Context, limit int) ([]*models.Destination, error)
	Create(ctx context.Context, d *models.Destination) error
	Update(ctx context.Context, d *models.Destination) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// EventStore persists events. Reads only return active rows.
type EventStore interface {
	Search(ctx context.Context, q *search.Query) ([]*models.Event, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	ListUpcoming(ctx context.Context, from, until time.Time, page, limit int) ([]*models.Event, int64, error)
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// TargetStore works on the shared columns of destinations and events
type TargetStore interface {
	// EnsureActive returns a NotFound error unless the target exists and is active
	EnsureActive(ctx context.Context, target models.TargetType, id int64) error
	// IncrementCounter adds delta to the counter and returns the new value
	IncrementCounter(ctx context.Context, target models.TargetType, id int64, counter models.TargetCounter, delta int) (int, error)
	UpdateRating(ctx context.Context, target models.TargetType, id int64, summary models.RatingSummary) error
}

// FeedbackStore persists likes and check-ins
type FeedbackStore interface {
	// Insert reports false when the same feedback already exists
	Insert(ctx context.Context, fb *models.UserFeedback) (bool, error)
	// Delete reports false when there was nothing to delete
	Delete(ctx context.Context, userID int64, target models.TargetType, targetID int64, kind models.FeedbackType) (bool, error)
	ListTargetIDs(ctx context.Context, userID int64, target models.TargetType, kind models.FeedbackType) ([]int64, error)
}

// ReviewStore persists reviews and helpful votes
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Deactivate(ctx context.Context, id int64) error
	ListByTarget(ctx context.Context, target models.TargetType, targetID int64, page, limit int) ([]*models.Review, int64, error)
	Summarize(ctx context.Context, target models.TargetType, targetID int64) (models.RatingSummary, error)
	// AddHelpfulVote reports false when the user already voted for the review
	AddHelpfulVote(ctx context.Context, reviewID, userID int64) (bool, error)
	IncrementHelpful(ctx context.Context, reviewID int64) (int, error)
}

// TripStore persists trips and their stops
type TripStore interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id int64) (*models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) error
	UpdateStatus(ctx context.Context, id int64, status models.TripStatus) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64, status models.TripStatus, page, limit int) ([]*models.Trip, int64, error)

	// LockForUpdate holds the trip row until the surrounding transaction ends
	LockForUpdate(ctx context.Context, tripID int64) error
	ListStops(ctx context.Context, tripID int64) ([]*models.TripStop, error)
	GetStop(ctx context.Context, tripID int64, kind models.StopKind, targetID int64) (*models.TripStop, error)
	MaxVisitOrder(ctx context.Context, tripID int64, kind models.StopKind) (int, error)
	// InsertStop returns a DuplicateStop error when the target is already in the trip
	InsertStop(ctx context.Context, stop *models.TripStop) error
	DeleteStop(ctx context.Context, tripID int64, kind models.StopKind, targetID int64) (bool, error)
	SetVisitOrder(ctx context.Context, tripID int64, kind models.StopKind, targetID int64, order int) (bool, error)
	UpdateStop(ctx context.Context, stop *models.TripStop) error
}

// GroupStore persists groups, memberships, trip shares and comments
type GroupStore interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	ListByMember(ctx context.Context, userID int64) ([]*models.Group, error)

	AddMember(ctx context.Context, member *models.GroupMember) error
	GetMember(ctx context.Context, groupID, userID int64) (*models.GroupMember, error)
	ListMembers(ctx context.Context, groupID int64) ([]*models.GroupMember, error)
	UpdateMemberRole(ctx context.Context, groupID, userID int64, role models.GroupRole) error
	RemoveMember(ctx context.Context, groupID, userID int64) error

	ShareTrip(ctx context.Context, share *models.TripShare) error
	GetShare(ctx context.Context, groupID, tripID int64) (*models.TripShare, error)
	ListShares(ctx context.Context, groupID int64) ([]*models.TripShare, error)
	DeleteShare(ctx context.Context, groupID, tripID int64) error
	IsTripSharedWithUser(ctx context.Context, tripID, userID int64) (bool, error)

	CreateComment(ctx context.Context, comment *models.GroupComment) error
	GetComment(ctx context.Context, id int64) (*models.GroupComment, error)
	ListComments(ctx context.Context, groupID, tripID int64) ([]*models.GroupComment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// NotificationStore persists notifications
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, page, limit int) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
}
