package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/tripplanner/internal/app/models"
	appServices "github.com/yigit/tripplanner/internal/app/services"
	"github.com/yigit/tripplanner/internal/config"
	"github.com/yigit/tripplanner/internal/pkg/auth"
)

// DefaultCategories is the reference set of categories every installation starts with
func DefaultCategories() []*appModels.Category {
	return []*appModels.Category{
		{Name: "Beaches", Icon: "beach", TravelStyle: appModels.StyleRelaxation, ContextTags: []string{"couple", "family", "friends"}, PopularityScore: 95, AverageVisitDuration: 240},
		{Name: "Mountains & Hiking", Icon: "mountain", TravelStyle: appModels.StyleAdventure, ContextTags: []string{"solo", "friends"}, PopularityScore: 85, AverageVisitDuration: 360},
		{Name: "Museums", Icon: "museum", TravelStyle: appModels.StyleCulture, ContextTags: []string{"solo", "couple", "family"}, PopularityScore: 70, AverageVisitDuration: 120},
		{Name: "Historical Sites", Icon: "landmark", TravelStyle: appModels.StyleCulture, ContextTags: []string{"solo", "couple", "family", "friends"}, PopularityScore: 80, AverageVisitDuration: 150},
		{Name: "Street Food", Icon: "food", TravelStyle: appModels.StyleFood, ContextTags: []string{"solo", "couple", "friends"}, PopularityScore: 90, AverageVisitDuration: 60},
		{Name: "Restaurants", Icon: "restaurant", TravelStyle: appModels.StyleFood, ContextTags: []string{"couple", "family", "friends"}, PopularityScore: 75, AverageVisitDuration: 90},
		{Name: "Cafes", Icon: "coffee", TravelStyle: appModels.StyleRelaxation, ContextTags: []string{"solo", "couple", "friends"}, PopularityScore: 78, AverageVisitDuration: 60},
		{Name: "National Parks", Icon: "tree", TravelStyle: appModels.StyleNature, ContextTags: []string{"family", "friends"}, PopularityScore: 72, AverageVisitDuration: 300},
		{Name: "Waterfalls & Lakes", Icon: "water", TravelStyle: appModels.StyleNature, ContextTags: []string{"couple", "family", "friends"}, PopularityScore: 68, AverageVisitDuration: 180},
		{Name: "Bars & Clubs", Icon: "nightlife", TravelStyle: appModels.StyleNightlife, ContextTags: []string{"friends", "couple"}, PopularityScore: 65, AverageVisitDuration: 180},
		{Name: "Night Markets", Icon: "market", TravelStyle: appModels.StyleShopping, ContextTags: []string{"solo", "couple", "family", "friends"}, PopularityScore: 82, AverageVisitDuration: 120},
		{Name: "Shopping Malls", Icon: "shopping", TravelStyle: appModels.StyleShopping, ContextTags: []string{"family", "friends"}, PopularityScore: 55, AverageVisitDuration: 150},
		{Name: "Spa & Wellness", Icon: "spa", TravelStyle: appModels.StyleRelaxation, ContextTags: []string{"solo", "couple"}, PopularityScore: 60, AverageVisitDuration: 120},
		{Name: "Festivals", Icon: "festival", TravelStyle: appModels.StyleCulture, ContextTags: []string{"couple", "family", "friends"}, PopularityScore: 74, AverageVisitDuration: 240},
	}
}

// CreateDefaultData seeds the default categories and, when ADMIN_EMAIL and
// ADMIN_PASSWORD are set, an admin account. Existing rows are left alone.
func CreateDefaultData(ctx context.Context, categories appServices.CategoryService, users appServices.UserStore, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Categories)...")
	var finalErr error

	if _, err := categories.SeedDefaults(ctx, DefaultCategories()); err != nil {
		lgr.Error().Err(err).Msg("Error seeding categories")
		finalErr = errors.Join(finalErr, err)
	}

	if err := createAdmin(ctx, users, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createAdmin(ctx context.Context, users appServices.UserStore, lgr zerolog.Logger) error {
	email := config.GetEnv("ADMIN_EMAIL", "")
	password := config.GetEnv("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		lgr.Debug().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin creation")
		return nil
	}

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		Email:    email,
		Password: hash,
		FullName: "System Administrator",
		Role:     appModels.RoleAdmin,
		IsActive: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}
