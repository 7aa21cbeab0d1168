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
	"github.com/yigit/tripplanner/internal/pkg/dberrors"
	"github.com/yigit/tripplanner/internal/pkg/logger"
)

var reviewColumns = []string{
	"r.id", "r.user_id", "r.destination_id", "r.event_id", "r.rating", "r.comment", "r.sentiment",
	"r.helpful_count", "r.is_active", "r.created_at", "r.updated_at", "u.full_name",
}

// ReviewRepository handles database operations for reviews
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func selectReviews() squirrel.SelectBuilder {
	return psql.Select(reviewColumns...).
		From("reviews r").
		Join("users u ON u.id = r.user_id").
		Where(eq("r.is_active", true))
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var rv models.Review
	var author string
	err := row.Scan(&rv.ID, &rv.UserID, &rv.DestinationID, &rv.EventID, &rv.Rating, &rv.Comment,
		&rv.Sentiment, &rv.HelpfulCount, &rv.IsActive, &rv.CreatedAt, &rv.UpdatedAt, &author)
	if err != nil {
		return nil, err
	}
	rv.User = &models.User{ID: rv.UserID, FullName: author}
	return &rv, nil
}

func reviewTargetColumn(target models.TargetType) (string, error) {
	switch target {
	case models.TargetDestination:
		return "destination_id", nil
	case models.TargetEvent:
		return "event_id", nil
	default:
		return "", apperrors.InvalidArgument("unknown target type %q", target)
	}
}

// Create inserts a review and fills in the generated fields
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	sql, args, err := psql.Insert("reviews").
		Columns("user_id", "destination_id", "event_id", "rating", "comment", "sentiment").
		Values(review.UserID, review.DestinationID, review.EventID, review.Rating, review.Comment, review.Sentiment).
		Suffix("RETURNING id, helpful_count, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create review query: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(
		&review.ID, &review.HelpfulCount, &review.IsActive, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NotFound("review target not found")
		}
		logger.Error().Err(err).Int64("userID", review.UserID).Msg("Error creating review")
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves an active review
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	sql, args, err := selectReviews().Where(eq("r.id", id)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get review query: %w", err)
	}

	review, err := scanReview(db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review %d not found", id)
		}
		logger.Error().Err(err).Int64("reviewID", id).Msg("Error retrieving review")
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// Update stores a new rating, comment and sentiment
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE reviews SET rating = $1, comment = $2, sentiment = $3, updated_at = NOW()
		WHERE id = $4 AND is_active
		RETURNING updated_at`,
		review.Rating, review.Comment, review.Sentiment, review.ID,
	).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("review %d not found", review.ID)
		}
		logger.Error().Err(err).Int64("reviewID", review.ID).Msg("Error updating review")
		return fmt.Errorf("failed to update review: %w", err)
	}
	return nil
}

// Deactivate soft deletes a review
func (r *ReviewRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE reviews SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		logger.Error().Err(err).Int64("reviewID", id).Msg("Error deleting review")
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review %d not found", id)
	}
	return nil
}

// ListByTarget pages through the active reviews of a target, newest first
func (r *ReviewRepository) ListByTarget(ctx context.Context, target models.TargetType, targetID int64, page, limit int) ([]*models.Review, int64, error) {
	column, err := reviewTargetColumn(target)
	if err != nil {
		return nil, 0, err
	}
	conn := db.Conn(ctx, r.pool)

	var total int64
	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM reviews WHERE %s = $1 AND is_active`, column)
	if err := conn.QueryRow(ctx, countSQL, targetID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	offset, size := pageBounds(page, limit)
	sql, args, err := selectReviews().
		Where(eq("r."+column, targetID)).
		OrderBy("r.created_at DESC", "r.id DESC").
		Limit(size).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list reviews query: %w", err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("target", string(target)).Int64("id", targetID).Msg("Error listing reviews")
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Summarize computes the mean rating and count of the active reviews of a target
func (r *ReviewRepository) Summarize(ctx context.Context, target models.TargetType, targetID int64) (models.RatingSummary, error) {
	var summary models.RatingSummary
	column, err := reviewTargetColumn(target)
	if err != nil {
		return summary, err
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews
		WHERE %s = $1 AND is_active`, column)
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, targetID).Scan(&summary.Average, &summary.Count); err != nil {
		logger.Error().Err(err).Str("target", string(target)).Int64("id", targetID).Msg("Error summarizing reviews")
		return summary, fmt.Errorf("failed to summarize reviews: %w", err)
	}
	return summary, nil
}

// AddHelpfulVote records the user's vote and reports false if it already existed
func (r *ReviewRepository) AddHelpfulVote(ctx context.Context, reviewID, userID int64) (bool, error) {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO review_helpful_votes (review_id, user_id) VALUES ($1, $2)
		ON CONFLICT (review_id, user_id) DO NOTHING`, reviewID, userID)
	if err != nil {
		logger.Error().Err(err).Int64("reviewID", reviewID).Msg("Error adding helpful vote")
		return false, fmt.Errorf("failed to add helpful vote: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementHelpful adds one to the helpful count and returns the new value
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, reviewID int64) (int, error) {
	var count int
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE reviews SET helpful_count = helpful_count + 1
		WHERE id = $1
		RETURNING helpful_count`, reviewID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("review %d not found", reviewID)
		}
		return 0, fmt.Errorf("failed to update helpful count: %w", err)
	}
	return count, nil
}
