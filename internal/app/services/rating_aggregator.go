package services

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/models"
)

// RatingAggregator keeps the rating and total_reviews of destinations and events in
// line with their active reviews
type RatingAggregator interface {
	// Recompute stores the mean rating and count of the target's active reviews.
	// A target without active reviews keeps its previous values.
	Recompute(ctx context.Context, target models.TargetType, targetID int64) (models.RatingSummary, error)
}

type ratingAggregatorImpl struct {
	reviews ReviewStore
	targets TargetStore
	logger  zerolog.Logger
}

// NewRatingAggregator creates a new RatingAggregator
func NewRatingAggregator(reviews ReviewStore, targets TargetStore, logger zerolog.Logger) RatingAggregator {
	return &ratingAggregatorImpl{
		reviews: reviews,
		targets: targets,
		logger:  logger,
	}
}

func (a *ratingAggregatorImpl) Recompute(ctx context.Context, target models.TargetType, targetID int64) (models.RatingSummary, error) {
	summary, err := a.reviews.Summarize(ctx, target, targetID)
	if err != nil {
		return summary, fmt.Errorf("error summarizing reviews: %w", err)
	}
	if summary.Count == 0 {
		a.logger.Debug().Str("target", string(target)).Int64("id", targetID).Msg("No active reviews, keeping rating")
		return summary, nil
	}

	summary.Average = roundRating(summary.Average)
	if err := a.targets.UpdateRating(ctx, target, targetID, summary); err != nil {
		return summary, fmt.Errorf("error storing rating: %w", err)
	}

	a.logger.Debug().
		Str("target", string(target)).
		Int64("id", targetID).
		Float64("rating", summary.Average).
		Int("reviews", summary.Count).
		Msg("Rating recomputed")
	return summary, nil
}

// roundRating rounds to the two decimals the rating column keeps
func roundRating(avg float64) float64 {
	return math.Round(avg*100) / 100
}
