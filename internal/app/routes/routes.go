package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tripplanner/internal/app/controllers"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/middleware"
)

// Controllers groups every controller the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Category     *controllers.CategoryController
	Destination  *controllers.DestinationController
	Event        *controllers.EventController
	Feedback     *controllers.FeedbackController
	Review       *controllers.ReviewController
	Trip         *controllers.TripController
	Group        *controllers.GroupController
	Notification *controllers.NotificationController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})

	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		}, ""))
	})

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Public catalog routes ---
	categories := v1.Group("/categories")
	{
		categories.GET("", c.Category.ListCategories)
		categories.GET("/:id", c.Category.GetCategory)
	}

	destinations := v1.Group("/destinations")
	{
		destinations.GET("", c.Destination.SearchDestinations)
		destinations.GET("/nearby", c.Destination.NearbyDestinations)
		destinations.GET("/featured", c.Destination.FeaturedDestinations)
		destinations.GET("/:id", c.Destination.GetDestination)
		destinations.GET("/:id/reviews", c.Review.ListReviews(models.TargetDestination))
	}

	events := v1.Group("/events")
	{
		events.GET("", c.Event.SearchEvents)
		events.GET("/nearby", c.Event.NearbyEvents)
		events.GET("/upcoming", c.Event.UpcomingEvents)
		events.GET("/:id", c.Event.GetEvent)
		events.GET("/:id/reviews", c.Review.ListReviews(models.TargetEvent))
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", c.Auth.Logout)

		me := authenticated.Group("/me")
		{
			me.GET("", c.Auth.Me)
			me.GET("/preferences", c.User.GetPreferences)
			me.PUT("/preferences", c.User.UpdatePreferences)
			me.GET("/destinations/feedback", c.Feedback.Status(models.TargetDestination))
			me.GET("/events/feedback", c.Feedback.Status(models.TargetEvent))
		}

		authenticated.POST("/destinations/:id/like", c.Feedback.ToggleLike(models.TargetDestination))
		authenticated.POST("/destinations/:id/checkin", c.Feedback.CheckIn(models.TargetDestination))
		authenticated.POST("/events/:id/like", c.Feedback.ToggleLike(models.TargetEvent))
		authenticated.POST("/events/:id/checkin", c.Feedback.CheckIn(models.TargetEvent))

		reviews := authenticated.Group("/reviews")
		{
			reviews.POST("", c.Review.CreateReview)
			reviews.PUT("/:id", c.Review.UpdateReview)
			reviews.DELETE("/:id", c.Review.DeleteReview)
			reviews.POST("/:id/helpful", c.Review.MarkHelpful)
		}

		trips := authenticated.Group("/trips")
		{
			trips.POST("", c.Trip.CreateTrip)
			trips.GET("", c.Trip.ListMyTrips)
			trips.GET("/:id", c.Trip.GetTrip)
			trips.PUT("/:id", c.Trip.UpdateTrip)
			trips.DELETE("/:id", c.Trip.DeleteTrip)
			trips.PATCH("/:id/status", c.Trip.UpdateStatus)

			for segment, kind := range map[string]models.StopKind{
				"destinations": models.StopDestination,
				"events":       models.StopEvent,
			} {
				stops := trips.Group("/:id/" + segment)
				stops.POST("", c.Trip.AddStop(kind))
				stops.PUT("/reorder", c.Trip.ReorderStops(kind))
				stops.PATCH("/:targetId", c.Trip.UpdateStop(kind))
				stops.DELETE("/:targetId", c.Trip.RemoveStop(kind))
			}
		}

		groups := authenticated.Group("/groups")
		{
			groups.POST("", c.Group.CreateGroup)
			groups.GET("", c.Group.ListMyGroups)
			groups.GET("/:id", c.Group.GetGroup)
			groups.POST("/:id/leave", c.Group.LeaveGroup)

			groups.POST("/:id/members", c.Group.AddMember)
			groups.PATCH("/:id/members/:userId", c.Group.UpdateMemberRole)
			groups.DELETE("/:id/members/:userId", c.Group.RemoveMember)

			groups.POST("/:id/trips", c.Group.ShareTrip)
			groups.GET("/:id/trips", c.Group.ListSharedTrips)
			groups.DELETE("/:id/trips/:tripId", c.Group.UnshareTrip)

			groups.POST("/:id/trips/:tripId/comments", c.Group.AddComment)
			groups.GET("/:id/trips/:tripId/comments", c.Group.ListComments)
			groups.DELETE("/:id/comments/:commentId", c.Group.DeleteComment)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", c.Notification.ListNotifications)
			notifications.GET("/unread-count", c.Notification.UnreadCount)
			notifications.PATCH("/read-all", c.Notification.MarkAllRead)
			notifications.PATCH("/:id/read", c.Notification.MarkRead)
		}

		// Role-protected admin routes
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.POST("/destinations", c.Destination.CreateDestination)
			admin.PUT("/destinations/:id", c.Destination.UpdateDestination)
			admin.DELETE("/destinations/:id", c.Destination.DeactivateDestination)

			admin.POST("/events", c.Event.CreateEvent)
			admin.PUT("/events/:id", c.Event.UpdateEvent)
			admin.DELETE("/events/:id", c.Event.DeactivateEvent)
		}
	}
}
