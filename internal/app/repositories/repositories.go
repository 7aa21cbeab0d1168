package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tripplanner/internal/pkg/helpers"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func eq(column string, value interface{}) squirrel.Eq {
	return squirrel.Eq{column: value}
}

// pageBounds returns the offset and limit of a normalized page
func pageBounds(page, limit int) (uint64, uint64) {
	return helpers.CalculateOffsetLimit(helpers.NormalizePage(page, limit))
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	PreferenceRepository   *PreferenceRepository
	CategoryRepository     *CategoryRepository
	DestinationRepository  *DestinationRepository
	EventRepository        *EventRepository
	TargetRepository       *TargetRepository
	FeedbackRepository     *FeedbackRepository
	ReviewRepository       *ReviewRepository
	TripRepository         *TripRepository
	GroupRepository        *GroupRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(pool),
		PreferenceRepository:   NewPreferenceRepository(pool),
		CategoryRepository:     NewCategoryRepository(pool),
		DestinationRepository:  NewDestinationRepository(pool),
		EventRepository:        NewEventRepository(pool),
		TargetRepository:       NewTargetRepository(pool),
		FeedbackRepository:     NewFeedbackRepository(pool),
		ReviewRepository:       NewReviewRepository(pool),
		TripRepository:         NewTripRepository(pool),
		GroupRepository:        NewGroupRepository(pool),
		NotificationRepository: NewNotificationRepository(pool),
	}
}
