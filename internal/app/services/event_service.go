package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/helpers"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

const (
	defaultUpcomingDays = 30
	maxUpcomingDays     = 365
)

// EventService lists, searches and administers events
type EventService interface {
	SearchEvents(ctx context.Context, opts search.Options) (*dto.PaginatedResponse, error)
	NearbyEvents(ctx context.Context, req *dto.NearbyRequest) ([]*models.Event, error)
	UpcomingEvents(ctx context.Context, req *dto.UpcomingEventsRequest) (*dto.PaginatedResponse, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)

	CreateEvent(ctx context.Context, req *dto.EventRequest) (*models.Event, error)
	UpdateEvent(ctx context.Context, id int64, req *dto.EventRequest) (*models.Event, error)
	DeactivateEvent(ctx context.Context, id int64) error
}

type eventServiceImpl struct {
	events EventStore
	geo    GeoDefaults
	now    func() time.Time
	logger zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(events EventStore, geo GeoDefaults, logger zerolog.Logger) EventService {
	return &eventServiceImpl{
		events: events,
		geo:    geo,
		now:    time.Now,
		logger: logger,
	}
}

func (s *eventServiceImpl) SearchEvents(ctx context.Context, opts search.Options) (*dto.PaginatedResponse, error) {
	q, err := search.Build(opts, s.geo.ListRadius, s.now())
	if err != nil {
		s.logger.Debug().Err(err).Msg("Event search rejected")
		return nil, err
	}

	items, total, err := s.events.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error searching events: %w", err)
	}

	resp := dto.NewPaginatedResponse(items, q.Pagination(total))
	return &resp, nil
}

func (s *eventServiceImpl) NearbyEvents(ctx context.Context, req *dto.NearbyRequest) ([]*models.Event, error) {
	q, err := search.Build(nearbyOptions(req), s.geo.NearbyRadius, s.now())
	if err != nil {
		return nil, err
	}

	items, _, err := s.events.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error listing nearby events: %w", err)
	}
	if items == nil {
		items = []*models.Event{}
	}
	return items, nil
}

// UpcomingEvents pages through events that have not ended and start within req.Days
func (s *eventServiceImpl) UpcomingEvents(ctx context.Context, req *dto.UpcomingEventsRequest) (*dto.PaginatedResponse, error) {
	days := req.Days
	switch {
	case days == 0:
		days = defaultUpcomingDays
	case days < 0 || days > maxUpcomingDays:
		return nil, apperrors.InvalidField("days", "days must be between 1 and %d", maxUpcomingDays)
	}

	from := s.now()
	until := from.AddDate(0, 0, days)
	items, total, err := s.events.ListUpcoming(ctx, from, until, req.Page, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("error listing upcoming events: %w", err)
	}

	resp := dto.NewPaginatedResponse(items, helpers.NewPaginationInfo(total, req.Page, req.Limit))
	return &resp, nil
}

func (s *eventServiceImpl) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *eventServiceImpl) CreateEvent(ctx context.Context, req *dto.EventRequest) (*models.Event, error) {
	e := &models.Event{IsActive: true}
	req.ToModel(e)
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	s.logger.Info().Int64("eventID", e.ID).Str("name", e.Name).Time("start", e.EventStart).Msg("Event created")
	return e, nil
}

func (s *eventServiceImpl) UpdateEvent(ctx context.Context, id int64, req *dto.EventRequest) (*models.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.ToModel(e)
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return e, nil
}

func (s *eventServiceImpl) DeactivateEvent(ctx context.Context, id int64) error {
	if err := s.events.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("error deactivating event: %w", err)
	}
	s.logger.Info().Int64("eventID", id).Msg("Event deactivated")
	return nil
}
