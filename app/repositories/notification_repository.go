package repositories

import (
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
)

// NotificationRepository handles database operations for in-app alerts.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// Create persists a new notification row.
func (r *NotificationRepository) Create(n *models.Notification) error {
	return orm.DB().Create(n)
}

// FindByID looks up a notification by primary key.
func (r *NotificationRepository) FindByID(id uint) (models.Notification, error) {
	var n models.Notification
	err := orm.DB().Where("id = ?", id).First(&n)
	return n, err
}

// All returns one page of notifications, newest first, optionally
// restricted to one outlet and to unseen rows.
func (r *NotificationRepository) All(outletID uint, unseenOnly bool, page, limit int) ([]models.Notification, orm.Pagination, error) {
	q := orm.DB().Model(&models.Notification{})
	if outletID != 0 {
		q = q.Where("outlet_id = ?", outletID)
	}
	if unseenOnly {
		q = q.Where("seen = ?", false)
	}

	var list []models.Notification
	pagination, err := q.Order("id desc").GetWithPagination(&list, page, limit)
	return list, pagination, err
}

// MarkSeen flags one notification as read. Returns the number of rows
// updated so the caller can distinguish a missing ID.
func (r *NotificationRepository) MarkSeen(id uint) (int64, error) {
	return orm.DB().Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"seen": true})
}

// MarkAllSeen flags every unseen notification for an outlet as read.
// An outletID of zero clears the whole inbox.
func (r *NotificationRepository) MarkAllSeen(outletID uint) (int64, error) {
	q := orm.DB().Model(&models.Notification{}).Where("seen = ?", false)
	if outletID != 0 {
		q = q.Where("outlet_id = ?", outletID)
	}
	return q.Updates(map[string]interface{}{"seen": true})
}

// Delete removes a notification row.
func (r *NotificationRepository) Delete(n *models.Notification) error {
	return orm.DB().Delete(n)
}
