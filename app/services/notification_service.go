package services

import (
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
)

// NotificationService manages the in-app alert inbox.
type NotificationService struct {
	notifications *repositories.NotificationRepository
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		notifications: repositories.NewNotificationRepository(),
	}
}

// All lists notifications, newest first, optionally for one outlet.
func (s *NotificationService) All(outletID uint, unseenOnly bool, page, limit int) ([]models.Notification, orm.Pagination, error) {
	return s.notifications.All(outletID, unseenOnly, page, limit)
}

// MarkSeen flags one notification as read. Marking an already-seen row
// again is a no-op success.
func (s *NotificationService) MarkSeen(id uint) (models.Notification, error) {
	n, err := s.notifications.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Notification{}, &NotFoundError{Entity: "notification", ID: id}
		}
		return models.Notification{}, err
	}

	if !n.Seen {
		if _, err := s.notifications.MarkSeen(id); err != nil {
			return models.Notification{}, err
		}
		n.Seen = true
	}
	return n, nil
}

// MarkAllSeen flags an outlet's unseen notifications as read and
// reports how many rows changed.
func (s *NotificationService) MarkAllSeen(outletID uint) (int64, error) {
	return s.notifications.MarkAllSeen(outletID)
}

// Delete removes one notification.
func (s *NotificationService) Delete(id uint) error {
	n, err := s.notifications.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return &NotFoundError{Entity: "notification", ID: id}
		}
		return err
	}
	return s.notifications.Delete(&n)
}
