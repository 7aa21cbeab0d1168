package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/geo"
)

// FeedbackService handles likes and check-ins on destinations and events
type FeedbackService interface {
	// ToggleLike removes the caller's like if present, otherwise adds it
	ToggleLike(ctx context.Context, userID int64, target models.TargetType, targetID int64) (*dto.LikeResponse, error)
	// CheckIn records a one-time check-in; a second one fails with AlreadyCheckedIn
	CheckIn(ctx context.Context, userID int64, target models.TargetType, targetID int64, req *dto.CheckinRequest) (*dto.CheckinResponse, error)
	// Status lists the targets of one kind the caller liked or checked in to
	Status(ctx context.Context, userID int64, target models.TargetType) (*dto.FeedbackStatusResponse, error)
}

type feedbackServiceImpl struct {
	tx       Transactor
	feedback FeedbackStore
	targets  TargetStore
	now      func() time.Time
	logger   zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(tx Transactor, feedback FeedbackStore, targets TargetStore, logger zerolog.Logger) FeedbackService {
	return &feedbackServiceImpl{
		tx:       tx,
		feedback: feedback,
		targets:  targets,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *feedbackServiceImpl) ToggleLike(ctx context.Context, userID int64, target models.TargetType, targetID int64) (*dto.LikeResponse, error) {
	if !target.IsValid() {
		return nil, apperrors.InvalidArgument("unknown target type %q", target)
	}

	resp := &dto.LikeResponse{}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.targets.EnsureActive(ctx, target, targetID); err != nil {
			return err
		}

		removed, err := s.feedback.Delete(ctx, userID, target, targetID, models.FeedbackLike)
		if err != nil {
			return err
		}
		if removed {
			resp.TotalLikes, err = s.targets.IncrementCounter(ctx, target, targetID, models.CounterLikes, -1)
			return err
		}

		inserted, err := s.feedback.Insert(ctx, &models.UserFeedback{
			UserID:       userID,
			TargetType:   target,
			TargetID:     targetID,
			FeedbackType: models.FeedbackLike,
		})
		if err != nil {
			return err
		}
		resp.Liked = true

		// A concurrent request inserted the same like first; the count already includes it
		delta := 0
		if inserted {
			delta = 1
		}
		resp.TotalLikes, err = s.targets.IncrementCounter(ctx, target, targetID, models.CounterLikes, delta)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error toggling like: %w", err)
	}

	s.logger.Debug().Int64("userID", userID).Str("target", string(target)).Int64("id", targetID).
		Bool("liked", resp.Liked).Msg("Like toggled")
	return resp, nil
}

func (s *feedbackServiceImpl) CheckIn(ctx context.Context, userID int64, target models.TargetType, targetID int64, req *dto.CheckinRequest) (*dto.CheckinResponse, error) {
	if !target.IsValid() {
		return nil, apperrors.InvalidArgument("unknown target type %q", target)
	}

	meta := models.CheckinMetadata{Timestamp: s.now().UTC()}
	if req != nil {
		if _, err := geo.PointFromPair(req.Lat, req.Lng); err != nil {
			return nil, err
		}
		meta.Lat, meta.Lng = req.Lat, req.Lng
	}

	resp := &dto.CheckinResponse{CheckedIn: true, CheckedInAt: meta.Timestamp}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.targets.EnsureActive(ctx, target, targetID); err != nil {
			return err
		}

		inserted, err := s.feedback.Insert(ctx, &models.UserFeedback{
			UserID:       userID,
			TargetType:   target,
			TargetID:     targetID,
			FeedbackType: models.FeedbackCheckin,
			Metadata:     meta.Map(),
		})
		if err != nil {
			return err
		}
		if !inserted {
			return apperrors.AlreadyCheckedIn(string(target), targetID)
		}

		resp.TotalCheckins, err = s.targets.IncrementCounter(ctx, target, targetID, models.CounterCheckins, 1)
		return err
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrAlreadyCheckedIn) {
			s.logger.Warn().Int64("userID", userID).Str("target", string(target)).Int64("id", targetID).Msg("Repeated check-in rejected")
		}
		return nil, fmt.Errorf("error checking in: %w", err)
	}
	return resp, nil
}

func (s *feedbackServiceImpl) Status(ctx context.Context, userID int64, target models.TargetType) (*dto.FeedbackStatusResponse, error) {
	if !target.IsValid() {
		return nil, apperrors.InvalidArgument("unknown target type %q", target)
	}

	liked, err := s.feedback.ListTargetIDs(ctx, userID, target, models.FeedbackLike)
	if err != nil {
		return nil, fmt.Errorf("error listing likes: %w", err)
	}
	checkedIn, err := s.feedback.ListTargetIDs(ctx, userID, target, models.FeedbackCheckin)
	if err != nil {
		return nil, fmt.Errorf("error listing check-ins: %w", err)
	}

	return &dto.FeedbackStatusResponse{
		TargetType: target,
		Liked:      liked,
		CheckedIn:  checkedIn,
	}, nil
}
