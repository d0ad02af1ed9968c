package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/database"
)

func TestAlertFiresOnBreach(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 10)
	stock := seedStock(t, rice.ID, outlet.ID, 7, nil)

	capture := &jobCapture{}
	alerts := newTestAlerts(capture, time.Now())

	fired, err := alerts.Evaluate(reloadStock(t, stock.ID))
	require.NoError(t, err)
	assert.True(t, fired)

	var n models.Notification
	require.NoError(t, database.DB.First(&n).Error)
	assert.Equal(t, models.NotificationTypeLowStock, n.Type)
	assert.Equal(t, rice.ID, *n.ProductID)
	assert.Equal(t, outlet.ID, *n.OutletID)

	assert.Equal(t, 1, capture.count())
	assert.NotNil(t, reloadStock(t, stock.ID).LastAlertAt)
}

func TestAlertOutletOverrideBeatsProductDefault(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 10)
	// Outlet override of 3: quantity 7 is above it, no alert.
	stock := seedStock(t, rice.ID, outlet.ID, 7, intPtr(3))

	capture := &jobCapture{}
	alerts := newTestAlerts(capture, time.Now())

	fired, err := alerts.Evaluate(reloadStock(t, stock.ID))
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Zero(t, capture.count())
}

func TestAlertExplicitZeroDisables(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 10)
	// Explicit 0 override disables alerting even at zero quantity.
	stock := seedStock(t, rice.ID, outlet.ID, 0, intPtr(0))

	capture := &jobCapture{}
	alerts := newTestAlerts(capture, time.Now())

	fired, err := alerts.Evaluate(reloadStock(t, stock.ID))
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Zero(t, capture.count())

	var count int64
	database.DB.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestAlertMutedOutletKeepsDurableRow(t *testing.T) {
	setupDB(t)

	outlet := models.Outlet{Name: "Back Office", AlertsEnabled: false}
	require.NoError(t, database.DB.Create(&outlet).Error)
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 10)
	stock := seedStock(t, rice.ID, outlet.ID, 7, nil)

	capture := &jobCapture{}
	alerts := newTestAlerts(capture, time.Now())

	fired, err := alerts.Evaluate(reloadStock(t, stock.ID))
	require.NoError(t, err)
	assert.True(t, fired)

	// The in-app row and the cooldown stamp exist, but no delivery job
	// goes out for a muted outlet.
	var count int64
	database.DB.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Zero(t, capture.count())
	assert.NotNil(t, reloadStock(t, stock.ID).LastAlertAt)
}

func TestAlertCooldownSuppressesRepeat(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 10)
	stock := seedStock(t, rice.ID, outlet.ID, 7, nil)

	capture := &jobCapture{}
	base := time.Now()
	alerts := newTestAlerts(capture, base)

	fired, err := alerts.Evaluate(reloadStock(t, stock.ID))
	require.NoError(t, err)
	require.True(t, fired)

	// Thirty minutes later, still inside the one-hour cooldown.
	alerts.WithClock(func() time.Time { return base.Add(30 * time.Minute) })
	fired, err = alerts.Evaluate(reloadStock(t, stock.ID))
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Equal(t, 1, capture.count())

	var count int64
	database.DB.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAlertFiresAgainAfterCooldown(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 10)
	stock := seedStock(t, rice.ID, outlet.ID, 7, nil)

	capture := &jobCapture{}
	base := time.Now()
	alerts := newTestAlerts(capture, base)

	fired, err := alerts.Evaluate(reloadStock(t, stock.ID))
	require.NoError(t, err)
	require.True(t, fired)

	alerts.WithClock(func() time.Time { return base.Add(2 * time.Hour) })
	fired, err = alerts.Evaluate(reloadStock(t, stock.ID))
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, 2, capture.count())
}

func TestAlertStampSurvivesDispatchFailure(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 10)
	stock := seedStock(t, rice.ID, outlet.ID, 7, nil)

	capture := &jobCapture{err: errors.New("broker down")}
	alerts := newTestAlerts(capture, time.Now())

	fired, err := alerts.Evaluate(reloadStock(t, stock.ID))
	require.NoError(t, err, "dispatch failure must not fail the evaluation")
	assert.True(t, fired)

	// The durable row exists and the cooldown is stamped, so a broken
	// mailer cannot cause an alert storm.
	var count int64
	database.DB.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.NotNil(t, reloadStock(t, stock.ID).LastAlertAt)
}

func TestAlertSweepFindsBreachedRows(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 10)
	oil := seedProduct(t, "Sunflower Oil 1L", "OIL-1L", 4.00, 5)
	tea := seedProduct(t, "Assam Tea 500g", "TEA-500G", 6.80, 0)

	seedStock(t, rice.ID, outlet.ID, 3, nil)       // breached (default 10)
	seedStock(t, oil.ID, outlet.ID, 50, nil)       // healthy
	seedStock(t, tea.ID, outlet.ID, 0, nil)        // product default 0: disabled

	capture := &jobCapture{}
	alerts := newTestAlerts(capture, time.Now())

	require.NoError(t, alerts.Sweep())

	var notifications []models.Notification
	require.NoError(t, database.DB.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, rice.ID, *notifications[0].ProductID)
	assert.Equal(t, 1, capture.count())
}

func TestAlertSweepRespectsCooldown(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 10)
	stock := seedStock(t, rice.ID, outlet.ID, 3, nil)

	recent := time.Now().Add(-10 * time.Minute)
	require.NoError(t, database.DB.Model(&models.Stock{}).
		Where("id = ?", stock.ID).
		Update("last_alert_at", recent).Error)

	capture := &jobCapture{}
	alerts := newTestAlerts(capture, time.Now())

	require.NoError(t, alerts.Sweep())

	var count int64
	database.DB.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count, "sweep must not re-alert inside the cooldown")
	assert.Zero(t, capture.count())
}
