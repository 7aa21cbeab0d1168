package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/auth"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/helpers"
)

// TripService defines the trip and stop operations of a user
type TripService interface {
	CreateTrip(ctx context.Context, userID int64, req *dto.CreateTripRequest) (*dto.TripResponse, error)
	GetTrip(ctx context.Context, userID, tripID int64) (*dto.TripResponse, error)
	ListMyTrips(ctx context.Context, userID int64, req *dto.TripListRequest) (*dto.PaginatedResponse, error)
	UpdateTrip(ctx context.Context, userID, tripID int64, req *dto.UpdateTripRequest) (*dto.TripResponse, error)
	UpdateStatus(ctx context.Context, userID, tripID int64, status models.TripStatus) (*dto.TripResponse, error)
	DeleteTrip(ctx context.Context, userID, tripID int64) error

	AddStop(ctx context.Context, userID, tripID int64, kind models.StopKind, req *dto.AddStopRequest) (*dto.StopResponse, error)
	RemoveStop(ctx context.Context, userID, tripID int64, kind models.StopKind, targetID int64) error
	ReorderStops(ctx context.Context, userID, tripID int64, kind models.StopKind, orders []models.StopOrder) ([]*models.TripStop, error)
	UpdateStop(ctx context.Context, userID, tripID int64, kind models.StopKind, targetID int64, req *dto.UpdateStopRequest) (*dto.StopResponse, error)
}

type tripServiceImpl struct {
	tx      Transactor
	trips   TripStore
	targets TargetStore
	authz   *auth.AuthorizationService
	logger  zerolog.Logger
}

// NewTripService creates a new TripService
func NewTripService(
	tx Transactor,
	trips TripStore,
	targets TargetStore,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) TripService {
	return &tripServiceImpl{
		tx:      tx,
		trips:   trips,
		targets: targets,
		authz:   authz,
		logger:  logger,
	}
}

var startTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func validateStartTime(startTime *string) error {
	if startTime != nil && !startTimePattern.MatchString(*startTime) {
		return apperrors.InvalidField("startTime", "startTime must be formatted as HH:MM")
	}
	return nil
}

func (s *tripServiceImpl) CreateTrip(ctx context.Context, userID int64, req *dto.CreateTripRequest) (*dto.TripResponse, error) {
	var tripType *models.TripType
	if req.TripType != nil {
		t := models.TripType(*req.TripType)
		tripType = &t
	}
	resolvedType, count, err := models.ResolveTripTypeAndParticipantCount(tripType, req.ParticipantCount)
	if err != nil {
		s.logger.Debug().Err(err).Int64("userID", userID).Msg("Trip type rejected")
		return nil, err
	}

	trip := &models.Trip{
		UserID:           userID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Budget:           req.Budget,
		Status:           models.TripStatusDraft,
		TransportMode:    models.TransportMode(req.TransportMode),
		TripType:         resolvedType,
		ParticipantCount: count,
		Visibility:       models.Visibility(req.Visibility),
	}
	if trip.TransportMode == "" {
		trip.TransportMode = models.TransportMixed
	}
	if trip.Visibility == "" {
		trip.Visibility = models.VisibilityPrivate
	}
	if err := trip.Validate(); err != nil {
		return nil, err
	}

	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("error creating trip: %w", err)
	}

	s.logger.Info().Int64("tripID", trip.ID).Int64("userID", userID).Str("tripType", string(trip.TripType)).Msg("Trip created")
	return buildTripResponse(trip, nil), nil
}

func (s *tripServiceImpl) GetTrip(ctx context.Context, userID, tripID int64) (*dto.TripResponse, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.EnsureCanViewTrip(ctx, trip, userID); err != nil {
		return nil, err
	}

	stops, err := s.trips.ListStops(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error listing stops: %w", err)
	}
	return buildTripResponse(trip, stops), nil
}

func (s *tripServiceImpl) ListMyTrips(ctx context.Context, userID int64, req *dto.TripListRequest) (*dto.PaginatedResponse, error) {
	status := models.TripStatus(req.Status)
	if status != "" && !status.IsValid() {
		return nil, apperrors.InvalidField("status", "status must be one of draft, active, completed, cancelled")
	}

	trips, total, err := s.trips.ListByUser(ctx, userID, status, req.Page, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("error listing trips: %w", err)
	}

	resp := dto.NewPaginatedResponse(trips, helpers.NewPaginationInfo(total, req.Page, req.Limit))
	return &resp, nil
}

func (s *tripServiceImpl) UpdateTrip(ctx context.Context, userID, tripID int64, req *dto.UpdateTripRequest) (*dto.TripResponse, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		trip.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		trip.Description = *req.Description
	}
	if req.StartDate != nil {
		trip.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = req.EndDate
	}
	if req.Budget != nil {
		trip.Budget = *req.Budget
	}
	if req.ActualCost != nil {
		trip.ActualCost = *req.ActualCost
	}
	if req.TransportMode != nil {
		trip.TransportMode = models.TransportMode(*req.TransportMode)
	}
	if req.Visibility != nil {
		trip.Visibility = models.Visibility(*req.Visibility)
	}
	if req.TripType != nil {
		trip.TripType = models.TripType(*req.TripType)
	}
	if req.ParticipantCount != nil {
		trip.ParticipantCount = *req.ParticipantCount
	}
	if req.TripType != nil || req.ParticipantCount != nil {
		if err := models.ValidateTripTypeAndParticipantCount(trip.TripType, trip.ParticipantCount); err != nil {
			return nil, err
		}
	}
	if err := trip.Validate(); err != nil {
		return nil, err
	}

	if err := s.trips.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("error updating trip: %w", err)
	}

	stops, err := s.trips.ListStops(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error listing stops: %w", err)
	}
	return buildTripResponse(trip, stops), nil
}

func (s *tripServiceImpl) UpdateStatus(ctx context.Context, userID, tripID int64, status models.TripStatus) (*dto.TripResponse, error) {
	if !status.IsValid() {
		return nil, apperrors.InvalidField("status", "status must be one of draft, active, completed, cancelled")
	}

	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status != status {
		if !trip.Status.CanTransition(status) {
			s.logger.Warn().Int64("tripID", tripID).Str("from", string(trip.Status)).Str("to", string(status)).Msg("Illegal trip transition")
			return nil, apperrors.InvalidState("cannot change trip status from %s to %s", trip.Status, status)
		}
		if err := s.trips.UpdateStatus(ctx, tripID, status); err != nil {
			return nil, fmt.Errorf("error updating trip status: %w", err)
		}
		trip.Status = status
	}

	stops, err := s.trips.ListStops(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("error listing stops: %w", err)
	}
	return buildTripResponse(trip, stops), nil
}

func (s *tripServiceImpl) DeleteTrip(ctx context.Context, userID, tripID int64) error {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("error deleting trip: %w", err)
	}
	s.logger.Info().Int64("tripID", tripID).Int64("userID", userID).Msg("Trip deleted")
	return nil
}

func (s *tripServiceImpl) AddStop(ctx context.Context, userID, tripID int64, kind models.StopKind, req *dto.AddStopRequest) (*dto.StopResponse, error) {
	if !kind.IsValid() {
		return nil, apperrors.InvalidArgument("unknown stop kind %q", kind)
	}
	if req.VisitOrder != nil && *req.VisitOrder <= 0 {
		return nil, apperrors.InvalidField("visitOrder", "visitOrder must be a positive integer")
	}
	if err := validateStartTime(req.StartTime); err != nil {
		return nil, err
	}

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	if err := s.targets.EnsureActive(ctx, models.TargetType(kind), req.TargetID); err != nil {
		return nil, err
	}

	stop := &models.TripStop{
		TripID:            tripID,
		Kind:              kind,
		TargetID:          req.TargetID,
		EstimatedDuration: req.EstimatedDuration,
		VisitDate:         req.VisitDate,
		StartTime:         req.StartTime,
		Notes:             req.Notes,
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.trips.LockForUpdate(ctx, tripID); err != nil {
			return err
		}
		if req.VisitOrder != nil {
			stop.VisitOrder = *req.VisitOrder
			stops, err := s.trips.ListStops(ctx, tripID)
			if err != nil {
				return err
			}
			if err := ensureUniqueOrders(append(stops, stop), kind, "visitOrder"); err != nil {
				return err
			}
		} else {
			last, err := s.trips.MaxVisitOrder(ctx, tripID, kind)
			if err != nil {
				return err
			}
			stop.VisitOrder = last + 1
		}
		return s.trips.InsertStop(ctx, stop)
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrDuplicateStop) {
			s.logger.Debug().Int64("tripID", tripID).Str("kind", string(kind)).Int64("targetID", req.TargetID).Msg("Duplicate stop rejected")
		}
		return nil, fmt.Errorf("error adding stop: %w", err)
	}

	s.logger.Debug().Int64("tripID", tripID).Str("kind", string(kind)).Int64("targetID", req.TargetID).
		Int("visitOrder", stop.VisitOrder).Msg("Stop added")
	return &dto.StopResponse{TripStop: stop}, nil
}

func (s *tripServiceImpl) RemoveStop(ctx context.Context, userID, tripID int64, kind models.StopKind, targetID int64) error {
	if !kind.IsValid() {
		return apperrors.InvalidArgument("unknown stop kind %q", kind)
	}
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}

	removed, err := s.trips.DeleteStop(ctx, tripID, kind, targetID)
	if err != nil {
		return fmt.Errorf("error removing stop: %w", err)
	}
	if !removed {
		return apperrors.NotFound("%s %d is not a stop of trip %d", kind, targetID, tripID)
	}
	return nil
}

func (s *tripServiceImpl) ReorderStops(ctx context.Context, userID, tripID int64, kind models.StopKind, orders []models.StopOrder) ([]*models.TripStop, error) {
	if !kind.IsValid() {
		return nil, apperrors.InvalidArgument("unknown stop kind %q", kind)
	}
	if err := validateReorder(orders); err != nil {
		return nil, err
	}
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	var stops []*models.TripStop
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, _ pgx.Tx) error {
		if err := s.trips.LockForUpdate(ctx, tripID); err != nil {
			return err
		}
		for _, o := range orders {
			found, err := s.trips.SetVisitOrder(ctx, tripID, kind, o.TargetID, o.VisitOrder)
			if err != nil {
				return err
			}
			if !found {
				return apperrors.NotFound("%s %d is not a stop of trip %d", kind, o.TargetID, tripID)
			}
		}

		var err error
		stops, err = s.trips.ListStops(ctx, tripID)
		if err != nil {
			return err
		}
		return ensureUniqueOrders(stops, kind, "orders")
	})
	if err != nil {
		return nil, fmt.Errorf("error reordering stops: %w", err)
	}

	s.logger.Debug().Int64("tripID", tripID).Str("kind", string(kind)).Int("count", len(orders)).Msg("Stops reordered")
	return stops, nil
}

func (s *tripServiceImpl) UpdateStop(ctx context.Context, userID, tripID int64, kind models.StopKind, targetID int64, req *dto.UpdateStopRequest) (*dto.StopResponse, error) {
	if !kind.IsValid() {
		return nil, apperrors.InvalidArgument("unknown stop kind %q", kind)
	}
	if err := validateStartTime(req.StartTime); err != nil {
		return nil, err
	}
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	stop, err := s.trips.GetStop(ctx, tripID, kind, targetID)
	if err != nil {
		return nil, err
	}
	if req.EstimatedDuration != nil {
		stop.EstimatedDuration = req.EstimatedDuration
	}
	if req.ActualDuration != nil {
		stop.ActualDuration = req.ActualDuration
	}
	if req.VisitDate != nil {
		stop.VisitDate = req.VisitDate
	}
	if req.StartTime != nil {
		stop.StartTime = req.StartTime
	}
	if req.Notes != nil {
		stop.Notes = req.Notes
	}
	if req.IsCompleted != nil {
		stop.IsCompleted = *req.IsCompleted
	}

	if err := s.trips.UpdateStop(ctx, stop); err != nil {
		return nil, fmt.Errorf("error updating stop: %w", err)
	}
	return &dto.StopResponse{TripStop: stop}, nil
}

// ownedTrip loads a trip the caller must own
func (s *tripServiceImpl) ownedTrip(ctx context.Context, userID, tripID int64) (*models.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.EnsureTripOwner(trip, userID); err != nil {
		s.logger.Warn().Int64("tripID", tripID).Int64("userID", userID).Msg("Trip access denied")
		return nil, err
	}
	return trip, nil
}

// validateReorder requires distinct targets and distinct positive orders
func validateReorder(orders []models.StopOrder) error {
	if len(orders) == 0 {
		return apperrors.InvalidField("orders", "orders must not be empty")
	}

	targets := make(map[int64]bool, len(orders))
	positions := make(map[int]bool, len(orders))
	for _, o := range orders {
		if o.TargetID <= 0 {
			return apperrors.InvalidField("orders", "targetId must be a positive integer")
		}
		if o.VisitOrder <= 0 {
			return apperrors.InvalidField("orders", "visitOrder must be a positive integer, got %d", o.VisitOrder)
		}
		if targets[o.TargetID] {
			return apperrors.InvalidField("orders", "target %d is listed more than once", o.TargetID)
		}
		if positions[o.VisitOrder] {
			return apperrors.InvalidField("orders", "visitOrder %d is listed more than once", o.VisitOrder)
		}
		targets[o.TargetID] = true
		positions[o.VisitOrder] = true
	}
	return nil
}

// ensureUniqueOrders rejects a stop list where two stops of a kind share an order
func ensureUniqueOrders(stops []*models.TripStop, kind models.StopKind, field string) error {
	seen := make(map[int]int64)
	for _, st := range stops {
		if st.Kind != kind {
			continue
		}
		if other, ok := seen[st.VisitOrder]; ok {
			return apperrors.InvalidField(field,
				"visitOrder %d would be shared by %s %d and %s %d", st.VisitOrder, kind, other, kind, st.TargetID)
		}
		seen[st.VisitOrder] = st.TargetID
	}
	return nil
}

// buildTripResponse attaches stops and aggregates. The estimated cost is the per
// person cost of every stop times the participant count; the rating is the mean
// rating of the stops' targets, skipping targets nobody has reviewed yet.
func buildTripResponse(trip *models.Trip, stops []*models.TripStop) *dto.TripResponse {
	if stops == nil {
		stops = []*models.TripStop{}
	}
	trip.Stops = stops

	var perPerson, ratingSum float64
	rated := 0
	for _, st := range stops {
		switch {
		case st.Destination != nil:
			perPerson += st.Destination.AverageCost
			if st.Destination.TotalReviews > 0 {
				ratingSum += st.Destination.Rating
				rated++
			}
		case st.Event != nil:
			perPerson += st.Event.TicketPrice
			if st.Event.TotalReviews > 0 {
				ratingSum += st.Event.Rating
				rated++
			}
		}
	}

	resp := &dto.TripResponse{
		Trip:          trip,
		EstimatedCost: perPerson * float64(trip.ParticipantCount),
		StopCount:     len(stops),
	}
	if rated > 0 {
		avg := roundRating(ratingSum / float64(rated))
		resp.AverageRating = &avg
	}
	return resp
}
