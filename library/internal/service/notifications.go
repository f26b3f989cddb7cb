package service

import (
	"context"

	"github.com/Astemirdum/library-lending/library/internal/model"
)

func (s *Service) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.repo.ListNotifications(ctx, userID, true)
}

// MarkNotificationsRead clears the user's inbox.
func (s *Service) MarkNotificationsRead(ctx context.Context, userID string) error {
	return s.repo.DeleteNotifications(ctx, userID)
}
