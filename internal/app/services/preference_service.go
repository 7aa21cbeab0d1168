package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/geo"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

// PreferenceService reads and replaces a user's travel preferences
type PreferenceService interface {
	GetPreferences(ctx context.Context, userID int64) (*models.UserPreference, error)
	UpdatePreferences(ctx context.Context, userID int64, req *dto.UpdatePreferenceRequest) (*models.UserPreference, error)
}

type preferenceServiceImpl struct {
	prefs  PreferenceStore
	logger zerolog.Logger
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(prefs PreferenceStore, logger zerolog.Logger) PreferenceService {
	return &preferenceServiceImpl{prefs: prefs, logger: logger}
}

// GetPreferences returns empty preferences for a user who never saved any
func (s *preferenceServiceImpl) GetPreferences(ctx context.Context, userID int64) (*models.UserPreference, error) {
	pref, err := s.prefs.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return &models.UserPreference{
				UserID:            userID,
				TravelStyles:      []string{},
				PreferredContexts: []string{},
			}, nil
		}
		return nil, fmt.Errorf("error loading preferences: %w", err)
	}
	return pref, nil
}

func (s *preferenceServiceImpl) UpdatePreferences(ctx context.Context, userID int64, req *dto.UpdatePreferenceRequest) (*models.UserPreference, error) {
	pref := &models.UserPreference{
		UserID:             userID,
		TravelStyles:       dedupe(req.TravelStyles),
		PreferredContexts:  dedupe(req.PreferredContexts),
		BudgetMin:          req.BudgetMin,
		BudgetMax:          req.BudgetMax,
		PreferredTransport: models.TransportMode(req.PreferredTransport),
		HomeLatitude:       req.HomeLatitude,
		HomeLongitude:      req.HomeLongitude,
	}
	if err := validatePreference(pref); err != nil {
		return nil, err
	}

	if err := s.prefs.Upsert(ctx, pref); err != nil {
		return nil, fmt.Errorf("error saving preferences: %w", err)
	}

	s.logger.Debug().Int64("userID", userID).Strs("styles", pref.TravelStyles).Msg("Preferences updated")
	return pref, nil
}

func validatePreference(p *models.UserPreference) error {
	for _, style := range p.TravelStyles {
		if !models.TravelStyle(style).IsValid() {
			return apperrors.InvalidField("travelStyles", "unknown travel style %q", style)
		}
	}
	for _, tag := range p.PreferredContexts {
		if !search.IsContextTag(tag) {
			return apperrors.InvalidField("preferredContexts", "unknown context %q", tag)
		}
	}
	if p.BudgetMin != nil && *p.BudgetMin < 0 {
		return apperrors.InvalidField("budgetMin", "budgetMin must not be negative")
	}
	if p.BudgetMax != nil && *p.BudgetMax < 0 {
		return apperrors.InvalidField("budgetMax", "budgetMax must not be negative")
	}
	if p.BudgetMin != nil && p.BudgetMax != nil && *p.BudgetMin > *p.BudgetMax {
		return apperrors.InvalidField("budgetMax", "budgetMax must not be below budgetMin")
	}
	if p.PreferredTransport != "" && !p.PreferredTransport.IsValid() {
		return apperrors.InvalidField("preferredTransport", "unknown transport mode %q", p.PreferredTransport)
	}
	if _, err := geo.PointFromPair(p.HomeLatitude, p.HomeLongitude); err != nil {
		return err
	}
	return nil
}

// dedupe drops repeated values keeping the first occurrence; never returns nil
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
