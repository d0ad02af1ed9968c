package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dukaan/app/jobs"
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/database"
)

func TestOrderCreateHappyPath(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 5)
	oil := seedProduct(t, "Sunflower Oil 1L", "OIL-1L", 4.00, 5)
	riceStock := seedStock(t, rice.ID, outlet.ID, 20, nil)
	oilStock := seedStock(t, oil.ID, outlet.ID, 30, nil)

	capture := &jobCapture{}
	svc := services.NewOrderService(newTestAlerts(capture, time.Now()))

	order, err := svc.Create(1, services.OrderInput{
		OutletID:      outlet.ID,
		PaymentMethod: "card",
		Items: []services.OrderLineInput{
			{ProductID: rice.ID, Quantity: 3},
			{ProductID: oil.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.Len(t, order.Items, 2)
	assert.InDelta(t, 3*12.50+2*4.00, order.Total, 0.001)

	assert.Equal(t, 17, reloadStock(t, riceStock.ID).Quantity)
	assert.Equal(t, 28, reloadStock(t, oilStock.ID).Quantity)

	// Unit prices and subtotals captured at sale time.
	for _, item := range order.Items {
		if item.ProductID == rice.ID {
			assert.Equal(t, 12.50, item.UnitPrice)
			assert.InDelta(t, 37.50, item.Subtotal, 0.001)
		}
	}
}

func TestOrderCreateMergesDuplicateLines(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 0)
	stock := seedStock(t, rice.ID, outlet.ID, 10, nil)

	svc := services.NewOrderService(newTestAlerts(&jobCapture{}, time.Now()))

	order, err := svc.Create(1, services.OrderInput{
		OutletID: outlet.ID,
		Items: []services.OrderLineInput{
			{ProductID: rice.ID, Quantity: 2},
			{ProductID: rice.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.Equal(t, 5, reloadStock(t, stock.ID).Quantity)
}

func TestOrderCreateMissingStockRow(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 0)
	// No stock row for rice at this outlet.

	svc := services.NewOrderService(newTestAlerts(&jobCapture{}, time.Now()))

	_, err := svc.Create(1, services.OrderInput{
		OutletID: outlet.ID,
		Items:    []services.OrderLineInput{{ProductID: rice.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrNotFound)

	var nf *services.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, rice.ID, nf.ID)

	var count int64
	database.DB.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count, "no order row should exist after rejection")
}

func TestOrderCreateUnknownOutlet(t *testing.T) {
	setupDB(t)

	svc := services.NewOrderService(newTestAlerts(&jobCapture{}, time.Now()))

	_, err := svc.Create(1, services.OrderInput{
		OutletID: 999,
		Items:    []services.OrderLineInput{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestOrderCreateInsufficientStockIsAtomic(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 0)
	oil := seedProduct(t, "Sunflower Oil 1L", "OIL-1L", 4.00, 0)
	riceStock := seedStock(t, rice.ID, outlet.ID, 20, nil)
	oilStock := seedStock(t, oil.ID, outlet.ID, 1, nil)

	svc := services.NewOrderService(newTestAlerts(&jobCapture{}, time.Now()))

	_, err := svc.Create(1, services.OrderInput{
		OutletID: outlet.ID,
		Items: []services.OrderLineInput{
			{ProductID: rice.ID, Quantity: 5},
			{ProductID: oil.ID, Quantity: 3}, // only 1 available
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInvalidArgument)

	var insufficient *services.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, oil.ID, insufficient.ProductID)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)

	// Nothing moved: the rice line must not stay decremented.
	assert.Equal(t, 20, reloadStock(t, riceStock.ID).Quantity)
	assert.Equal(t, 1, reloadStock(t, oilStock.ID).Quantity)

	var count int64
	database.DB.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderCreateEmptyItems(t *testing.T) {
	setupDB(t)
	seedOutlet(t, "Main Street")

	svc := services.NewOrderService(newTestAlerts(&jobCapture{}, time.Now()))

	_, err := svc.Create(1, services.OrderInput{OutletID: 1})
	assert.ErrorIs(t, err, services.ErrInvalidArgument)
}

func TestOrderCreateFiresLowStockAlert(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 10)
	stock := seedStock(t, rice.ID, outlet.ID, 12, nil)

	capture := &jobCapture{}
	svc := services.NewOrderService(newTestAlerts(capture, time.Now()))

	// Selling 3 of 12 lands at 9, under the product default of 10.
	_, err := svc.Create(1, services.OrderInput{
		OutletID: outlet.ID,
		Items:    []services.OrderLineInput{{ProductID: rice.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	var notifications []models.Notification
	require.NoError(t, database.DB.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeLowStock, notifications[0].Type)
	assert.False(t, notifications[0].Seen)

	require.Equal(t, 1, capture.count())
	job, ok := capture.jobs[0].(*jobs.StockAlertJob)
	require.True(t, ok)
	assert.Equal(t, "Basmati Rice 5kg", job.ProductName)
	assert.Equal(t, outlet.Email, job.Recipient)
	assert.Equal(t, 9, job.Quantity)
	assert.Equal(t, 10, job.Threshold)

	assert.NotNil(t, reloadStock(t, stock.ID).LastAlertAt)
}

func TestOrderCreateNoAlertAboveThreshold(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 5)
	seedStock(t, rice.ID, outlet.ID, 50, nil)

	capture := &jobCapture{}
	svc := services.NewOrderService(newTestAlerts(capture, time.Now()))

	_, err := svc.Create(1, services.OrderInput{
		OutletID: outlet.ID,
		Items:    []services.OrderLineInput{{ProductID: rice.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Zero(t, capture.count())
}

func TestOrderCreateConcurrentNoOversell(t *testing.T) {
	setupDB(t)

	outlet := seedOutlet(t, "Main Street")
	rice := seedProduct(t, "Basmati Rice 5kg", "RICE-5KG", 12.50, 0)
	stock := seedStock(t, rice.ID, outlet.ID, 5, nil)

	svc := services.NewOrderService(newTestAlerts(&jobCapture{}, time.Now()))

	const buyers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(1, services.OrderInput{
				OutletID: outlet.ID,
				Items:    []services.OrderLineInput{{ProductID: rice.ID, Quantity: 1}},
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				// Losers must fail cleanly as an insufficient-stock error.
				if !errors.Is(err, services.ErrInvalidArgument) {
					t.Errorf("unexpected error kind: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	final := reloadStock(t, stock.ID)
	assert.GreaterOrEqual(t, final.Quantity, 0, "quantity must never go negative")
	assert.LessOrEqual(t, succeeded, 5, "cannot sell more than was on hand")
	assert.Equal(t, 5-succeeded, final.Quantity)

	var orderCount int64
	database.DB.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(succeeded), orderCount)
}
