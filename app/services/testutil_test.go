package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/database"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
	"github.com/shashiranjanraj/dukaan/pkg/queue"
)

// setupDB points the global connection at a fresh in-memory SQLite
// database. A single open connection keeps every goroutine on the same
// in-memory store.
func setupDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Outlet{},
		&models.Product{},
		&models.Customer{},
		&models.Stock{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	))

	database.DB = db
	orm.CacheStore = nil
	t.Cleanup(func() { database.DB = nil })
}

func seedOutlet(t *testing.T, name string) models.Outlet {
	t.Helper()
	outlet := models.Outlet{
		Name:          name,
		Email:         "manager@" + name + ".example",
		AlertsEnabled: true,
	}
	require.NoError(t, database.DB.Create(&outlet).Error)
	return outlet
}

func seedProduct(t *testing.T, name, sku string, price float64, minLevel int) models.Product {
	t.Helper()
	product := models.Product{Name: name, SKU: sku, Price: price, MinStockLevel: minLevel}
	require.NoError(t, database.DB.Create(&product).Error)
	return product
}

func seedStock(t *testing.T, productID, outletID uint, qty int, minLevel *int) models.Stock {
	t.Helper()
	stock := models.Stock{
		ProductID:     productID,
		OutletID:      outletID,
		Quantity:      qty,
		MinStockLevel: minLevel,
	}
	require.NoError(t, database.DB.Create(&stock).Error)
	return stock
}

func reloadStock(t *testing.T, id uint) models.Stock {
	t.Helper()
	var stock models.Stock
	require.NoError(t, database.DB.Preload("Product").Preload("Outlet").First(&stock, id).Error)
	return stock
}

// jobCapture records dispatched jobs instead of queueing them.
type jobCapture struct {
	mu   sync.Mutex
	jobs []queue.Job
	err  error // returned from every dispatch when set
}

func (c *jobCapture) dispatch(job queue.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.jobs = append(c.jobs, job)
	return nil
}

func (c *jobCapture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.jobs)
}

// newTestAlerts builds an alert service with a one-hour cooldown, a
// fixed clock, and a capturing dispatcher.
func newTestAlerts(capture *jobCapture, at time.Time) *services.AlertService {
	return services.NewAlertService().
		WithCooldown(time.Hour).
		WithClock(func() time.Time { return at }).
		WithDispatcher(capture.dispatch)
}

func intPtr(n int) *int { return &n }
