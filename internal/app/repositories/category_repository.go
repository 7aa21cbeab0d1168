package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/db"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/logger"
)

var categoryColumns = []string{
	"id", "name", "icon", "travel_style", "context_tags", "popularity_score", "average_visit_duration", "created_at",
}

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.TravelStyle, &c.ContextTags,
		&c.PopularityScore, &c.AverageVisitDuration, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns categories, most popular first. Empty style or contextTag means no filter.
func (r *CategoryRepository) List(ctx context.Context, style models.TravelStyle, contextTag string) ([]*models.Category, error) {
	sb := psql.Select(categoryColumns...).From("categories").OrderBy("popularity_score DESC", "name ASC")
	if style != "" {
		sb = sb.Where(squirrel.Eq{"travel_style": style})
	}
	if contextTag != "" {
		sb = sb.Where("? = ANY(context_tags)", contextTag)
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list categories query: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetByID retrieves a category by id
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	sql, args, err := psql.Select(categoryColumns...).From("categories").Where(eq("id", id)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get category query: %w", err)
	}

	c, err := scanCategory(db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category %d not found", id)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// CreateIfNotExists inserts the category unless one with the same name exists.
// It reports whether a row was inserted.
func (r *CategoryRepository) CreateIfNotExists(ctx context.Context, category *models.Category) (bool, error) {
	sql, args, err := psql.Insert("categories").
		Columns("name", "icon", "travel_style", "context_tags", "popularity_score", "average_visit_duration").
		Values(category.Name, category.Icon, category.TravelStyle, category.ContextTags,
			category.PopularityScore, category.AverageVisitDuration).
		Suffix("ON CONFLICT (name) DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build create category query: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Str("name", category.Name).Msg("Error creating category")
		return false, fmt.Errorf("failed to create category: %w", err)
	}
	return true, nil
}
