package migrations

import (
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_outlets_table", &CreateOutletsTable{})
	migration.Register("20260101000002_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000003_create_customers_table", &CreateCustomersTable{})
	migration.Register("20260101000004_create_stocks_table", &CreateStocksTable{})
	migration.Register("20260101000005_create_orders_table", &CreateOrdersTable{})
	migration.Register("20260101000006_create_notifications_table", &CreateNotificationsTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: outlets --------

type CreateOutletsTable struct{}

func (m *CreateOutletsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Outlet{})
}

func (m *CreateOutletsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("outlets")
}

// -------- 0003: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0004: customers --------

type CreateCustomersTable struct{}

func (m *CreateCustomersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Customer{})
}

func (m *CreateCustomersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("customers")
}

// -------- 0005: stocks --------

type CreateStocksTable struct{}

func (m *CreateStocksTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Stock{})
}

func (m *CreateStocksTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("stocks")
}

// -------- 0006: orders --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("order_items"); err != nil {
		return err
	}
	return db.Migrator().DropTable("orders")
}

// -------- 0007: notifications --------

type CreateNotificationsTable struct{}

func (m *CreateNotificationsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Notification{})
}

func (m *CreateNotificationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("notifications")
}
