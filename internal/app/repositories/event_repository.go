package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/db"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/dberrors"
	"github.com/yigit/tripplanner/internal/pkg/geo"
	"github.com/yigit/tripplanner/internal/pkg/logger"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

// eventSchema maps search attributes onto
// "events e LEFT JOIN categories c LEFT JOIN destinations v" where v is the venue
var eventSchema = search.Schema{
	ID:           "e.id",
	Name:         "e.name",
	Category:     "e.category_id",
	Price:        "e.event_ticket_price",
	Point:        geo.Columns{Lat: "e.latitude", Lng: "e.longitude"},
	Rating:       "e.rating",
	TotalReviews: "e.total_reviews",
	Popularity:   []string{"e.total_attendees", "e.total_checkins"},
	CreatedAt:    "e.created_at",
	HiddenGem:    "COALESCE(v.is_hidden_gem, FALSE)",
	ContextTags:  "c.context_tags",
	OpenNow: func(at time.Time) squirrel.Sqlizer {
		return squirrel.Expr("e.event_start <= ? AND e.event_end >= ?", at, at)
	},
}

var eventColumns = []string{
	"e.id", "e.category_id", "e.destination_id", "e.name", "e.description", "e.address",
	"e.latitude", "e.longitude", "e.event_start", "e.event_end", "e.event_ticket_price",
	"e.event_capacity", "e.total_attendees", "e.total_likes", "e.total_checkins", "e.rating",
	"e.total_reviews", "e.tags", "e.is_featured", "e.is_active", "e.created_at", "e.updated_at",
	"c.id", "c.name", "c.icon", "c.travel_style", "c.context_tags",
	"COALESCE(v.is_hidden_gem, FALSE)",
}

// EventRepository handles database operations for events
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func fromEvents(sb squirrel.SelectBuilder) squirrel.SelectBuilder {
	return sb.From("events e").
		LeftJoin("categories c ON c.id = e.category_id").
		LeftJoin("destinations v ON v.id = e.destination_id").
		Where(eq("e.is_active", true))
}

func (r *EventRepository) selectEvents(distance interface{}) squirrel.SelectBuilder {
	return fromEvents(psql.Select(eventColumns...).Column(distance))
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	var (
		categoryID    *int64
		categoryName  *string
		categoryIcon  *string
		categoryStyle *models.TravelStyle
		categoryTags  []string
	)
	err := row.Scan(
		&e.ID, &e.CategoryID, &e.DestinationID, &e.Name, &e.Description, &e.Address,
		&e.Latitude, &e.Longitude, &e.EventStart, &e.EventEnd, &e.TicketPrice,
		&e.Capacity, &e.TotalAttendees, &e.TotalLikes, &e.TotalCheckins, &e.Rating,
		&e.TotalReviews, &e.Tags, &e.IsFeatured, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
		&categoryID, &categoryName, &categoryIcon, &categoryStyle, &categoryTags,
		&e.VenueHiddenGem,
		&e.DistanceMeters,
	)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		e.Category = &models.Category{
			ID:          *categoryID,
			Name:        *categoryName,
			Icon:        *categoryIcon,
			TravelStyle: *categoryStyle,
			ContextTags: categoryTags,
		}
	}
	return &e, nil
}

func collectEvents(rows pgx.Rows) ([]*models.Event, error) {
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Search returns one page of active events matching q and the total match count
func (r *EventRepository) Search(ctx context.Context, q *search.Query) ([]*models.Event, int64, error) {
	where := q.Where(eventSchema)
	conn := db.Conn(ctx, r.pool)

	countSQL, countArgs, err := fromEvents(psql.Select("COUNT(*)")).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count events query: %w", err)
	}

	var total int64
	if err := conn.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting events")
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}
	if total == 0 {
		return []*models.Event{}, 0, nil
	}

	var distance interface{} = noDistance
	if col, ok := q.DistanceColumn(eventSchema, "distance_meters"); ok {
		distance = col
	}
	sql, args, err := q.Paginate(q.Order(r.selectEvents(distance).Where(where), eventSchema)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search events query: %w", err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sql", sql).Msg("Error searching events")
		return nil, 0, fmt.Errorf("failed to search events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// GetByID retrieves an active event
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.selectEvents(noDistance).Where(eq("e.id", id)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanEvent(db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("event %d not found", id)
		}
		logger.Error().Err(err).Int64("eventID", id).Msg("Error retrieving event")
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// ListUpcoming pages through events that have not ended at from and start before until
func (r *EventRepository) ListUpcoming(ctx context.Context, from, until time.Time, page, limit int) ([]*models.Event, int64, error) {
	window := squirrel.And{
		squirrel.GtOrEq{"e.event_end": from},
		squirrel.Lt{"e.event_start": until},
	}
	conn := db.Conn(ctx, r.pool)

	countSQL, countArgs, err := fromEvents(psql.Select("COUNT(*)")).Where(window).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count upcoming events query: %w", err)
	}
	var total int64
	if err := conn.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count upcoming events: %w", err)
	}

	offset, size := pageBounds(page, limit)
	sql, args, err := r.selectEvents(noDistance).
		Where(window).
		OrderBy("e.event_start ASC", "e.id ASC").
		Limit(size).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build upcoming events query: %w", err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing upcoming events")
		return nil, 0, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Create inserts an event and fills in the generated fields
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	sql, args, err := psql.Insert("events").
		Columns("category_id", "destination_id", "name", "description", "address", "latitude", "longitude",
			"event_start", "event_end", "event_ticket_price", "event_capacity", "tags", "is_featured").
		Values(e.CategoryID, e.DestinationID, e.Name, e.Description, e.Address, e.Latitude, e.Longitude,
			e.EventStart, e.EventEnd, e.TicketPrice, e.Capacity, e.Tags, e.IsFeatured).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&e.ID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.InvalidArgument("categoryId or destinationId does not exist")
		}
		logger.Error().Err(err).Str("name", e.Name).Msg("Error creating event")
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of an event. Derived counters are untouched.
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	sql, args, err := psql.Update("events").
		SetMap(map[string]interface{}{
			"category_id":        e.CategoryID,
			"destination_id":     e.DestinationID,
			"name":               e.Name,
			"description":        e.Description,
			"address":            e.Address,
			"latitude":           e.Latitude,
			"longitude":          e.Longitude,
			"event_start":        e.EventStart,
			"event_end":          e.EventEnd,
			"event_ticket_price": e.TicketPrice,
			"event_capacity":     e.Capacity,
			"tags":               e.Tags,
			"is_featured":        e.IsFeatured,
			"updated_at":         squirrel.Expr("NOW()"),
		}).
		Where(eq("id", e.ID)).
		Suffix("RETURNING is_active, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&e.IsActive, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("event %d not found", e.ID)
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.InvalidArgument("categoryId or destinationId does not exist")
		}
		logger.Error().Err(err).Int64("eventID", e.ID).Msg("Error updating event")
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// SetActive activates or deactivates an event
func (r *EventRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return setActive(ctx, db.Conn(ctx, r.pool), "events", "event", id, active)
}
