package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/helpers"
	"github.com/yigit/tripplanner/internal/pkg/sentiment"
)

// ReviewService manages reviews and keeps target ratings in sync with them
type ReviewService interface {
	CreateReview(ctx context.Context, userID int64, req *dto.CreateReviewRequest) (*models.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID int64, req *dto.UpdateReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID int64) error
	ListReviews(ctx context.Context, target models.TargetType, targetID int64, page, limit int) (*dto.PaginatedResponse, error)
	MarkHelpful(ctx context.Context, userID, reviewID int64) (*dto.HelpfulResponse, error)
}

type reviewServiceImpl struct {
	tx         Transactor
	reviews    ReviewStore
	targets    TargetStore
	aggregator RatingAggregator
	classifier sentiment.Classifier
	logger     zerolog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	tx Transactor,
	reviews ReviewStore,
	targets TargetStore,
	aggregator RatingAggregator,
	classifier sentiment.Classifier,
	logger zerolog.Logger,
) ReviewService {
	return &reviewServiceImpl{
		tx:         tx,
		reviews:    reviews,
		targets:    targets,
		aggregator: aggregator,
		classifier: classifier,
		logger:     logger,
	}
}

func (s *reviewServiceImpl) CreateReview(ctx context.Context, userID int64, req *dto.CreateReviewRequest) (*models.Review, error) {
	if err := models.ValidateReviewTarget(req.DestinationID, req.EventID); err != nil {
		return nil, err
	}
	if err := models.ValidateRating(req.Rating); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:        userID,
		DestinationID: req.DestinationID,
		EventID:       req.EventID,
		Rating:        req.Rating,
		Comment:       strings.TrimSpace(req.Comment),
		IsActive:      true,
	}
	review.Sentiment = string(s.classifier.Classify(review.Comment))
	target, targetID := review.Target()

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.targets.EnsureActive(ctx, target, targetID); err != nil {
			return err
		}
		if err := s.reviews.Create(ctx, review); err != nil {
			return err
		}
		_, err := s.aggregator.Recompute(ctx, target, targetID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating review: %w", err)
	}

	s.logger.Info().Int64("reviewID", review.ID).Str("target", string(target)).Int64("id", targetID).
		Int("rating", review.Rating).Str("sentiment", review.Sentiment).Msg("Review created")
	return review, nil
}

func (s *reviewServiceImpl) UpdateReview(ctx context.Context, userID, reviewID int64, req *dto.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		if err := models.ValidateRating(*req.Rating); err != nil {
			return nil, err
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = strings.TrimSpace(*req.Comment)
		review.Sentiment = string(s.classifier.Classify(review.Comment))
	}

	target, targetID := review.Target()
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.reviews.Update(ctx, review); err != nil {
			return err
		}
		if req.Rating == nil {
			return nil
		}
		_, err := s.aggregator.Recompute(ctx, target, targetID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating review: %w", err)
	}
	return review, nil
}

func (s *reviewServiceImpl) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	review, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return err
	}

	target, targetID := review.Target()
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.reviews.Deactivate(ctx, reviewID); err != nil {
			return err
		}
		_, err := s.aggregator.Recompute(ctx, target, targetID)
		return err
	})
	if err != nil {
		return fmt.Errorf("error deleting review: %w", err)
	}

	s.logger.Info().Int64("reviewID", reviewID).Int64("userID", userID).Msg("Review deleted")
	return nil
}

func (s *reviewServiceImpl) ListReviews(ctx context.Context, target models.TargetType, targetID int64, page, limit int) (*dto.PaginatedResponse, error) {
	if !target.IsValid() {
		return nil, apperrors.InvalidArgument("unknown target type %q", target)
	}

	reviews, total, err := s.reviews.ListByTarget(ctx, target, targetID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}

	resp := dto.NewPaginatedResponse(reviews, helpers.NewPaginationInfo(total, page, limit))
	return &resp, nil
}

func (s *reviewServiceImpl) MarkHelpful(ctx context.Context, userID, reviewID int64) (*dto.HelpfulResponse, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !review.IsActive {
		return nil, apperrors.NotFound("review %d not found", reviewID)
	}
	if review.UserID == userID {
		return nil, apperrors.InvalidArgument("you cannot mark your own review as helpful")
	}

	resp := &dto.HelpfulResponse{HelpfulCount: review.HelpfulCount}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		added, err := s.reviews.AddHelpfulVote(ctx, reviewID, userID)
		if err != nil || !added {
			return err
		}
		resp.Marked = true
		resp.HelpfulCount, err = s.reviews.IncrementHelpful(ctx, reviewID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error marking review helpful: %w", err)
	}
	return resp, nil
}

// ownedReview loads an active review written by userID
func (s *reviewServiceImpl) ownedReview(ctx context.Context, userID, reviewID int64) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !review.IsActive {
		return nil, apperrors.NotFound("review %d not found", reviewID)
	}
	if review.UserID != userID {
		return nil, apperrors.Forbidden("you can only change your own reviews")
	}
	return review, nil
}
