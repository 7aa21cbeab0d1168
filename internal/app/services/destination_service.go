package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/helpers"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

// GeoDefaults are the radii used when a request gives a center but no radius
type GeoDefaults struct {
	ListRadius   float64
	NearbyRadius float64
}

// DestinationService lists, searches and administers destinations
type DestinationService interface {
	SearchDestinations(ctx context.Context, opts search.Options) (*dto.PaginatedResponse, error)
	NearbyDestinations(ctx context.Context, req *dto.NearbyRequest) ([]*models.Destination, error)
	GetDestination(ctx context.Context, id int64) (*models.Destination, error)
	FeaturedDestinations(ctx context.Context, limit int) ([]*models.Destination, error)

	CreateDestination(ctx context.Context, req *dto.DestinationRequest) (*models.Destination, error)
	UpdateDestination(ctx context.Context, id int64, req *dto.DestinationRequest) (*models.Destination, error)
	DeactivateDestination(ctx context.Context, id int64) error
}

type destinationServiceImpl struct {
	destinations DestinationStore
	geo          GeoDefaults
	now          func() time.Time
	logger       zerolog.Logger
}

// NewDestinationService creates a new DestinationService
func NewDestinationService(destinations DestinationStore, geo GeoDefaults, logger zerolog.Logger) DestinationService {
	return &destinationServiceImpl{
		destinations: destinations,
		geo:          geo,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *destinationServiceImpl) SearchDestinations(ctx context.Context, opts search.Options) (*dto.PaginatedResponse, error) {
	q, err := search.Build(opts, s.geo.ListRadius, s.now())
	if err != nil {
		s.logger.Debug().Err(err).Msg("Destination search rejected")
		return nil, err
	}

	items, total, err := s.destinations.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error searching destinations: %w", err)
	}

	resp := dto.NewPaginatedResponse(items, q.Pagination(total))
	return &resp, nil
}

func (s *destinationServiceImpl) NearbyDestinations(ctx context.Context, req *dto.NearbyRequest) ([]*models.Destination, error) {
	q, err := search.Build(nearbyOptions(req), s.geo.NearbyRadius, s.now())
	if err != nil {
		return nil, err
	}

	items, _, err := s.destinations.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error listing nearby destinations: %w", err)
	}
	if items == nil {
		items = []*models.Destination{}
	}
	return items, nil
}

func (s *destinationServiceImpl) GetDestination(ctx context.Context, id int64) (*models.Destination, error) {
	return s.destinations.GetByID(ctx, id)
}

func (s *destinationServiceImpl) FeaturedDestinations(ctx context.Context, limit int) ([]*models.Destination, error) {
	_, limit = helpers.NormalizePage(1, limit)

	items, err := s.destinations.ListFeatured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing featured destinations: %w", err)
	}
	if items == nil {
		items = []*models.Destination{}
	}
	return items, nil
}

func (s *destinationServiceImpl) CreateDestination(ctx context.Context, req *dto.DestinationRequest) (*models.Destination, error) {
	d := &models.Destination{IsActive: true}
	req.ToModel(d)
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if err := s.destinations.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("error creating destination: %w", err)
	}

	s.logger.Info().Int64("destinationID", d.ID).Str("name", d.Name).Msg("Destination created")
	return d, nil
}

// UpdateDestination replaces the editable fields; derived counters and rating are kept
func (s *destinationServiceImpl) UpdateDestination(ctx context.Context, id int64, req *dto.DestinationRequest) (*models.Destination, error) {
	d, err := s.destinations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.ToModel(d)
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if err := s.destinations.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("error updating destination: %w", err)
	}
	return d, nil
}

func (s *destinationServiceImpl) DeactivateDestination(ctx context.Context, id int64) error {
	if err := s.destinations.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("error deactivating destination: %w", err)
	}
	s.logger.Info().Int64("destinationID", id).Msg("Destination deactivated")
	return nil
}

// nearbyOptions turns a nearby request into a distance sorted first page
func nearbyOptions(req *dto.NearbyRequest) search.Options {
	return search.Options{
		Lat:    req.Lat,
		Lng:    req.Lng,
		Radius: req.Radius,
		SortBy: string(search.SortDistance),
		Page:   1,
		Limit:  req.Limit,
	}
}
