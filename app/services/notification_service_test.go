package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/database"
)

func seedNotification(t *testing.T, title string, seen bool) models.Notification {
	t.Helper()
	n := models.Notification{
		Type:    models.NotificationTypeLowStock,
		Title:   title,
		Message: title,
		Seen:    seen,
	}
	require.NoError(t, database.DB.Create(&n).Error)
	return n
}

func seedOutletNotification(t *testing.T, title string, seen bool, outletID uint) models.Notification {
	t.Helper()
	n := models.Notification{
		Type:     models.NotificationTypeLowStock,
		Title:    title,
		Message:  title,
		Seen:     seen,
		OutletID: &outletID,
	}
	require.NoError(t, database.DB.Create(&n).Error)
	return n
}

func TestNotificationListNewestFirst(t *testing.T) {
	setupDB(t)

	first := seedNotification(t, "first", false)
	second := seedNotification(t, "second", false)
	third := seedNotification(t, "third", true)

	svc := services.NewNotificationService()

	list, pagination, err := svc.All(0, false, 1, 25)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(3), pagination.Total)

	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, first.ID, list[2].ID)
}

func TestNotificationListUnseenOnly(t *testing.T) {
	setupDB(t)

	seedNotification(t, "unread", false)
	seedNotification(t, "read", true)

	svc := services.NewNotificationService()

	list, _, err := svc.All(0, true, 1, 25)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "unread", list[0].Title)
}

func TestNotificationMarkSeen(t *testing.T) {
	setupDB(t)

	n := seedNotification(t, "alert", false)

	svc := services.NewNotificationService()

	updated, err := svc.MarkSeen(n.ID)
	require.NoError(t, err)
	assert.True(t, updated.Seen)

	// Marking again is a no-op success.
	updated, err = svc.MarkSeen(n.ID)
	require.NoError(t, err)
	assert.True(t, updated.Seen)
}

func TestNotificationMarkSeenNotFound(t *testing.T) {
	setupDB(t)

	svc := services.NewNotificationService()

	_, err := svc.MarkSeen(9999)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestNotificationMarkAllSeen(t *testing.T) {
	setupDB(t)

	seedNotification(t, "a", false)
	seedNotification(t, "b", false)
	seedNotification(t, "c", true)

	svc := services.NewNotificationService()

	updated, err := svc.MarkAllSeen(0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	var unseen int64
	database.DB.Model(&models.Notification{}).Where("seen = ?", false).Count(&unseen)
	assert.Zero(t, unseen)

	// Nothing left to update on a second run.
	updated, err = svc.MarkAllSeen(0)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestNotificationOutletScoping(t *testing.T) {
	setupDB(t)

	main := seedOutlet(t, "Main Street")
	market := seedOutlet(t, "Market Road")
	seedOutletNotification(t, "main low", false, main.ID)
	seedOutletNotification(t, "market low", false, market.ID)

	svc := services.NewNotificationService()

	mainOnly, _, err := svc.All(main.ID, false, 1, 25)
	require.NoError(t, err)
	require.Len(t, mainOnly, 1)
	assert.Equal(t, "main low", mainOnly[0].Title)

	// Clearing one outlet leaves the other inbox untouched.
	updated, err := svc.MarkAllSeen(main.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	rest, _, err := svc.All(market.ID, true, 1, 25)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "market low", rest[0].Title)
}

func TestNotificationDelete(t *testing.T) {
	setupDB(t)

	n := seedNotification(t, "alert", false)

	svc := services.NewNotificationService()

	require.NoError(t, svc.Delete(n.ID))

	_, err := svc.MarkSeen(n.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(n.ID), services.ErrNotFound)
}
