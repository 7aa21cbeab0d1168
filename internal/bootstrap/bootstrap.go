package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/tripplanner/internal/app/auth"
	appControllers "github.com/yigit/tripplanner/internal/app/controllers"
	appMigrations "github.com/yigit/tripplanner/internal/app/migrations"
	appRepos "github.com/yigit/tripplanner/internal/app/repositories"
	appRoutes "github.com/yigit/tripplanner/internal/app/routes"
	appServices "github.com/yigit/tripplanner/internal/app/services"
	"github.com/yigit/tripplanner/internal/config"
	"github.com/yigit/tripplanner/internal/db"
	appMiddleware "github.com/yigit/tripplanner/internal/middleware"
	pkgAuth "github.com/yigit/tripplanner/internal/pkg/auth"
	"github.com/yigit/tripplanner/internal/pkg/helpers"
	"github.com/yigit/tripplanner/internal/pkg/logger"
	"github.com/yigit/tripplanner/internal/pkg/sentiment"
	"github.com/yigit/tripplanner/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         *appServices.AuthService
	PreferenceService   appServices.PreferenceService
	CategoryService     appServices.CategoryService
	DestinationService  appServices.DestinationService
	EventService        appServices.EventService
	FeedbackService     appServices.FeedbackService
	RatingAggregator    appServices.RatingAggregator
	ReviewService       appServices.ReviewService
	TripService         appServices.TripService
	GroupService        appServices.GroupService
	NotificationService appServices.NotificationService

	Controllers *appRoutes.Controllers

	AuthMiddleware *appMiddleware.AuthMiddleware
	RateLimiter    *appMiddleware.RateLimiter
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	Redis          *redis.Client
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return database, nil
}

// SetupRedis connects the token blacklist store.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Connecting to redis...")
	client, err := db.NewRedisClient(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to redis")
		return nil, err
	}
	lgr.Info().Msg("Redis connection successfully established.")
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Redis: redisClient}

	deps.Repos = appRepos.NewRepositories(database.Pool)
	repos := deps.Repos

	deps.AuthzService = appAuth.NewAuthorizationService(repos.GroupRepository)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	blacklist := pkgAuth.NewRedisBlacklist(redisClient)

	geo := appServices.GeoDefaults{
		ListRadius:   cfg.Geo.DefaultRadiusMeters,
		NearbyRadius: cfg.Geo.NearbyRadiusMeters,
	}

	deps.AuthService = appServices.NewAuthService(repos.UserRepository, deps.JWTService, blacklist, logger.Component("auth"))
	deps.PreferenceService = appServices.NewPreferenceService(repos.PreferenceRepository, logger.Component("preferences"))
	deps.CategoryService = appServices.NewCategoryService(repos.CategoryRepository, logger.Component("categories"))
	deps.DestinationService = appServices.NewDestinationService(repos.DestinationRepository, geo, logger.Component("destinations"))
	deps.EventService = appServices.NewEventService(repos.EventRepository, geo, logger.Component("events"))
	deps.FeedbackService = appServices.NewFeedbackService(database, repos.FeedbackRepository, repos.TargetRepository, logger.Component("feedback"))
	deps.RatingAggregator = appServices.NewRatingAggregator(repos.ReviewRepository, repos.TargetRepository, logger.Component("ratings"))
	deps.ReviewService = appServices.NewReviewService(
		database,
		repos.ReviewRepository,
		repos.TargetRepository,
		deps.RatingAggregator,
		sentiment.NewLexiconClassifier(),
		logger.Component("reviews"),
	)
	deps.TripService = appServices.NewTripService(database, repos.TripRepository, repos.TargetRepository, deps.AuthzService, logger.Component("trips"))
	deps.NotificationService = appServices.NewNotificationService(repos.NotificationRepository, logger.Component("notifications"))
	deps.GroupService = appServices.NewGroupService(
		database,
		repos.GroupRepository,
		repos.UserRepository,
		repos.TripRepository,
		repos.NotificationRepository,
		deps.AuthzService,
		logger.Component("groups"),
	)

	if err := seed.CreateDefaultData(context.Background(), deps.CategoryService, repos.UserRepository, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, blacklist, logger.Component("auth-middleware"))
	deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	deps.Controllers = &appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		User:         appControllers.NewUserController(deps.PreferenceService),
		Category:     appControllers.NewCategoryController(deps.CategoryService),
		Destination:  appControllers.NewDestinationController(deps.DestinationService),
		Event:        appControllers.NewEventController(deps.EventService),
		Feedback:     appControllers.NewFeedbackController(deps.FeedbackService),
		Review:       appControllers.NewReviewController(deps.ReviewService),
		Trip:         appControllers.NewTripController(deps.TripService),
		Group:        appControllers.NewGroupController(deps.GroupService),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.SecurityHeaders(),
		deps.RateLimiter.Limit(),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
