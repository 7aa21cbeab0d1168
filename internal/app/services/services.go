// Package services holds the business logic of the trip planner.
//
// Services defined in this package:
// - AuthService: registration, login, logout and the current user
// - PreferenceService: per user travel preferences
// - CategoryService: category listing and seeding
// - DestinationService / EventService: catalog search, nearby lookups and admin writes
// - FeedbackService: like and check-in toggles
// - ReviewService: reviews, helpful votes and rating upkeep through RatingAggregator
// - TripService: trip composition, stops and status transitions
// - GroupService: groups, shared trips and comments
// - NotificationService: the notification inbox
package services
