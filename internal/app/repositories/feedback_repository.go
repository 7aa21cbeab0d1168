package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/db"
	"github.com/yigit/tripplanner/internal/pkg/logger"
)

// FeedbackRepository handles database operations for likes and check-ins
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

// Insert stores fb unless the same feedback exists. Concurrent duplicates are
// resolved by the unique index, so at most one caller sees true.
func (r *FeedbackRepository) Insert(ctx context.Context, fb *models.UserFeedback) (bool, error) {
	metadata := fb.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	query := `
		INSERT INTO user_feedback (user_id, target_type, target_id, feedback_type, metadata)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, target_type, target_id, feedback_type) DO NOTHING
		RETURNING id, created_at
	`
	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		fb.UserID, fb.TargetType, fb.TargetID, fb.FeedbackType, metadata,
	).Scan(&fb.ID, &fb.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Int64("userID", fb.UserID).Str("type", string(fb.FeedbackType)).Msg("Error inserting feedback")
		return false, fmt.Errorf("failed to insert feedback: %w", err)
	}
	return true, nil
}

// Delete removes one feedback row and reports whether it existed
func (r *FeedbackRepository) Delete(ctx context.Context, userID int64, target models.TargetType, targetID int64, kind models.FeedbackType) (bool, error) {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		DELETE FROM user_feedback
		WHERE user_id = $1 AND target_type = $2 AND target_id = $3 AND feedback_type = $4`,
		userID, target, targetID, kind)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error deleting feedback")
		return false, fmt.Errorf("failed to delete feedback: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListTargetIDs returns the ids of every target of one kind the user gave this feedback on
func (r *FeedbackRepository) ListTargetIDs(ctx context.Context, userID int64, target models.TargetType, kind models.FeedbackType) ([]int64, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT target_id FROM user_feedback
		WHERE user_id = $1 AND target_type = $2 AND feedback_type = $3
		ORDER BY created_at DESC`, userID, target, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan feedback: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}
