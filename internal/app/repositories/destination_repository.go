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

// destinationSchema maps search attributes onto "destinations d JOIN categories c"
var destinationSchema = search.Schema{
	ID:           "d.id",
	Name:         "d.name",
	Category:     "d.category_id",
	Price:        "d.average_cost",
	Point:        geo.Columns{Lat: "d.latitude", Lng: "d.longitude"},
	Rating:       "d.rating",
	TotalReviews: "d.total_reviews",
	Popularity:   []string{"d.total_likes", "d.total_checkins"},
	CreatedAt:    "d.created_at",
	HiddenGem:    "d.is_hidden_gem",
	ContextTags:  "c.context_tags",
	OpenNow: func(at time.Time) squirrel.Sqlizer {
		return squirrel.Expr("is_open_at(d.opening_hours, ?, ?::time)", models.Weekday(at), at.Format("15:04:05"))
	},
}

var destinationColumns = []string{
	"d.id", "d.category_id", "d.name", "d.description", "d.address", "d.latitude", "d.longitude",
	"d.average_cost", "d.rating", "d.total_reviews", "d.total_likes", "d.total_checkins", "d.tags",
	"d.opening_hours", "d.is_hidden_gem", "d.is_verified", "d.is_featured", "d.is_active",
	"d.recommended_duration", "d.created_at", "d.updated_at",
	"c.id", "c.name", "c.icon", "c.travel_style", "c.context_tags", "c.popularity_score",
	"c.average_visit_duration", "c.created_at",
}

const noDistance = "NULL::double precision AS distance_meters"

// DestinationRepository handles database operations for destinations
type DestinationRepository struct {
	pool *pgxpool.Pool
}

// NewDestinationRepository creates a new DestinationRepository
func NewDestinationRepository(pool *pgxpool.Pool) *DestinationRepository {
	return &DestinationRepository{pool: pool}
}

func (r *DestinationRepository) selectDestinations(distance interface{}) squirrel.SelectBuilder {
	return psql.Select(destinationColumns...).
		Column(distance).
		From("destinations d").
		Join("categories c ON c.id = d.category_id").
		Where(eq("d.is_active", true))
}

func scanDestination(row pgx.Row) (*models.Destination, error) {
	var d models.Destination
	var c models.Category
	err := row.Scan(
		&d.ID, &d.CategoryID, &d.Name, &d.Description, &d.Address, &d.Latitude, &d.Longitude,
		&d.AverageCost, &d.Rating, &d.TotalReviews, &d.TotalLikes, &d.TotalCheckins, &d.Tags,
		&d.OpeningHours, &d.IsHiddenGem, &d.IsVerified, &d.IsFeatured, &d.IsActive,
		&d.RecommendedDuration, &d.CreatedAt, &d.UpdatedAt,
		&c.ID, &c.Name, &c.Icon, &c.TravelStyle, &c.ContextTags, &c.PopularityScore,
		&c.AverageVisitDuration, &c.CreatedAt,
		&d.DistanceMeters,
	)
	if err != nil {
		return nil, err
	}
	d.Category = &c
	return &d, nil
}

func collectDestinations(rows pgx.Rows) ([]*models.Destination, error) {
	defer rows.Close()

	destinations := []*models.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		destinations = append(destinations, d)
	}
	return destinations, rows.Err()
}

// Search returns one page of active destinations matching q and the total match count
func (r *DestinationRepository) Search(ctx context.Context, q *search.Query) ([]*models.Destination, int64, error) {
	where := q.Where(destinationSchema)
	conn := db.Conn(ctx, r.pool)

	countSQL, countArgs, err := psql.Select("COUNT(*)").
		From("destinations d").
		Join("categories c ON c.id = d.category_id").
		Where(eq("d.is_active", true)).
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count destinations query: %w", err)
	}

	var total int64
	if err := conn.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting destinations")
		return nil, 0, fmt.Errorf("failed to count destinations: %w", err)
	}
	if total == 0 {
		return []*models.Destination{}, 0, nil
	}

	var distance interface{} = noDistance
	if col, ok := q.DistanceColumn(destinationSchema, "distance_meters"); ok {
		distance = col
	}
	sb := q.Paginate(q.Order(r.selectDestinations(distance).Where(where), destinationSchema))

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search destinations query: %w", err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sql", sql).Msg("Error searching destinations")
		return nil, 0, fmt.Errorf("failed to search destinations: %w", err)
	}
	destinations, err := collectDestinations(rows)
	if err != nil {
		return nil, 0, err
	}
	return destinations, total, nil
}

// GetByID retrieves an active destination
func (r *DestinationRepository) GetByID(ctx context.Context, id int64) (*models.Destination, error) {
	sql, args, err := r.selectDestinations(noDistance).Where(eq("d.id", id)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get destination query: %w", err)
	}

	d, err := scanDestination(db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("destination %d not found", id)
		}
		logger.Error().Err(err).Int64("destinationID", id).Msg("Error retrieving destination")
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	return d, nil
}

// ListFeatured returns featured destinations, best rated first
func (r *DestinationRepository) ListFeatured(ctx context.Context, limit int) ([]*models.Destination, error) {
	sql, args, err := r.selectDestinations(noDistance).
		Where(eq("d.is_featured", true)).
		OrderBy("d.rating DESC", "d.total_reviews DESC", "d.id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build featured destinations query: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured destinations: %w", err)
	}
	return collectDestinations(rows)
}

// Create inserts a destination and fills in the generated fields
func (r *DestinationRepository) Create(ctx context.Context, d *models.Destination) error {
	sql, args, err := psql.Insert("destinations").
		Columns("category_id", "name", "description", "address", "latitude", "longitude", "average_cost",
			"tags", "opening_hours", "is_hidden_gem", "is_verified", "is_featured", "recommended_duration").
		Values(d.CategoryID, d.Name, d.Description, d.Address, d.Latitude, d.Longitude, d.AverageCost,
			d.Tags, openingHoursValue(d.OpeningHours), d.IsHiddenGem, d.IsVerified, d.IsFeatured, d.RecommendedDuration).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create destination query: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&d.ID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.InvalidField("categoryId", "category %d does not exist", d.CategoryID)
		}
		logger.Error().Err(err).Str("name", d.Name).Msg("Error creating destination")
		return fmt.Errorf("failed to create destination: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of a destination. Derived counters are untouched.
func (r *DestinationRepository) Update(ctx context.Context, d *models.Destination) error {
	sql, args, err := psql.Update("destinations").
		SetMap(map[string]interface{}{
			"category_id":          d.CategoryID,
			"name":                 d.Name,
			"description":          d.Description,
			"address":              d.Address,
			"latitude":             d.Latitude,
			"longitude":            d.Longitude,
			"average_cost":         d.AverageCost,
			"tags":                 d.Tags,
			"opening_hours":        openingHoursValue(d.OpeningHours),
			"is_hidden_gem":        d.IsHiddenGem,
			"is_verified":          d.IsVerified,
			"is_featured":          d.IsFeatured,
			"recommended_duration": d.RecommendedDuration,
			"updated_at":           squirrel.Expr("NOW()"),
		}).
		Where(eq("id", d.ID)).
		Suffix("RETURNING is_active, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update destination query: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&d.IsActive, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("destination %d not found", d.ID)
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.InvalidField("categoryId", "category %d does not exist", d.CategoryID)
		}
		logger.Error().Err(err).Int64("destinationID", d.ID).Msg("Error updating destination")
		return fmt.Errorf("failed to update destination: %w", err)
	}
	return nil
}

// SetActive activates or deactivates a destination
func (r *DestinationRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return setActive(ctx, db.Conn(ctx, r.pool), "destinations", "destination", id, active)
}

// openingHoursValue stores missing opening hours as an empty object
func openingHoursValue(h models.OpeningHours) models.OpeningHours {
	if h == nil {
		return models.OpeningHours{}
	}
	return h
}

func setActive(ctx context.Context, conn db.DBTX, table, name string, id int64, active bool) error {
	sql, args, err := psql.Update(table).
		Set("is_active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(eq("id", id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set active query: %w", err)
	}

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error changing active flag")
		return fmt.Errorf("failed to update %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("%s %d not found", name, id)
	}
	return nil
}
