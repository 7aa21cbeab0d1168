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

// PreferenceRepository handles database operations for user preferences
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// GetByUserID returns the preferences of a user, NotFound when none were saved yet
func (r *PreferenceRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserPreference, error) {
	query := `
		SELECT user_id, travel_styles, preferred_contexts, budget_min, budget_max,
		       preferred_transport, home_latitude, home_longitude, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`

	var p models.UserPreference
	err := db.Conn(ctx, r.pool).QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.TravelStyles, &p.PreferredContexts, &p.BudgetMin, &p.BudgetMax,
		&p.PreferredTransport, &p.HomeLatitude, &p.HomeLongitude, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("preferences not found")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error retrieving preferences")
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &p, nil
}

// Upsert replaces the preferences of pref.UserID
func (r *PreferenceRepository) Upsert(ctx context.Context, pref *models.UserPreference) error {
	query := `
		INSERT INTO user_preferences (user_id, travel_styles, preferred_contexts, budget_min, budget_max,
		                              preferred_transport, home_latitude, home_longitude, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			travel_styles = EXCLUDED.travel_styles,
			preferred_contexts = EXCLUDED.preferred_contexts,
			budget_min = EXCLUDED.budget_min,
			budget_max = EXCLUDED.budget_max,
			preferred_transport = EXCLUDED.preferred_transport,
			home_latitude = EXCLUDED.home_latitude,
			home_longitude = EXCLUDED.home_longitude,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		pref.UserID, pref.TravelStyles, pref.PreferredContexts, pref.BudgetMin, pref.BudgetMax,
		pref.PreferredTransport, pref.HomeLatitude, pref.HomeLongitude,
	).Scan(&pref.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("userID", pref.UserID).Msg("Error saving preferences")
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
