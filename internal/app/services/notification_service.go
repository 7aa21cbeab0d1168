package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/helpers"
)

// NotificationService reads and acknowledges the caller's notifications
type NotificationService interface {
	ListNotifications(ctx context.Context, userID int64, req *dto.NotificationListRequest) (*dto.PaginatedResponse, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (*dto.UnreadCountResponse, error)
}

type notificationServiceImpl struct {
	notifications NotificationStore
	logger        zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications NotificationStore, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{notifications: notifications, logger: logger}
}

func (s *notificationServiceImpl) ListNotifications(ctx context.Context, userID int64, req *dto.NotificationListRequest) (*dto.PaginatedResponse, error) {
	items, total, err := s.notifications.ListByUser(ctx, userID, req.UnreadOnly, req.Page, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	resp := dto.NewPaginatedResponse(items, helpers.NewPaginationInfo(total, req.Page, req.Limit))
	return &resp, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return s.notifications.MarkRead(ctx, notificationID, userID)
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	s.logger.Debug().Int64("userID", userID).Int64("count", n).Msg("Notifications marked read")
	return n, nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID int64) (*dto.UnreadCountResponse, error) {
	n, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting notifications: %w", err)
	}
	return &dto.UnreadCountResponse{Unread: n}, nil
}
