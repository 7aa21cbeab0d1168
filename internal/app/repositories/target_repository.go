package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/db"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/logger"
)

// TargetRepository updates the columns destinations and events have in common:
// the feedback counters and the derived rating
type TargetRepository struct {
	pool *pgxpool.Pool
}

// NewTargetRepository creates a new TargetRepository
func NewTargetRepository(pool *pgxpool.Pool) *TargetRepository {
	return &TargetRepository{pool: pool}
}

func targetTable(target models.TargetType) (string, error) {
	switch target {
	case models.TargetDestination:
		return "destinations", nil
	case models.TargetEvent:
		return "events", nil
	default:
		return "", apperrors.InvalidArgument("unknown target type %q", target)
	}
}

func counterColumn(counter models.TargetCounter) (string, error) {
	switch counter {
	case models.CounterLikes, models.CounterCheckins:
		return string(counter), nil
	default:
		return "", apperrors.InvalidArgument("unknown counter %q", counter)
	}
}

// EnsureActive returns NotFound unless the target exists and is active
func (r *TargetRepository) EnsureActive(ctx context.Context, target models.TargetType, id int64) error {
	table, err := targetTable(target)
	if err != nil {
		return err
	}

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1 AND is_active)`, table)
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("target", string(target)).Int64("id", id).Msg("Error checking target")
		return fmt.Errorf("failed to check %s: %w", target, err)
	}
	if !exists {
		return apperrors.NotFound("%s %d not found", target, id)
	}
	return nil
}

// IncrementCounter adds delta to a counter in a single statement and returns the new
// value. The counter never drops below zero.
func (r *TargetRepository) IncrementCounter(ctx context.Context, target models.TargetType, id int64, counter models.TargetCounter, delta int) (int, error) {
	table, err := targetTable(target)
	if err != nil {
		return 0, err
	}
	column, err := counterColumn(counter)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s = GREATEST(%[2]s + $1, 0), updated_at = NOW()
		WHERE id = $2
		RETURNING %[2]s`, table, column)

	var value int
	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, delta, id).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("%s %d not found", target, id)
		}
		logger.Error().Err(err).Str("target", string(target)).Int64("id", id).Str("counter", column).Msg("Error updating counter")
		return 0, fmt.Errorf("failed to update %s: %w", column, err)
	}
	return value, nil
}

// UpdateRating stores the aggregate of the active reviews
func (r *TargetRepository) UpdateRating(ctx context.Context, target models.TargetType, id int64, summary models.RatingSummary) error {
	table, err := targetTable(target)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET rating = $1, total_reviews = $2, updated_at = NOW() WHERE id = $3`, table)
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, summary.Average, summary.Count, id)
	if err != nil {
		logger.Error().Err(err).Str("target", string(target)).Int64("id", id).Msg("Error updating rating")
		return fmt.Errorf("failed to update rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("%s %d not found", target, id)
	}
	return nil
}
