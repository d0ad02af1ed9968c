package seeders

import (
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("users", SeedUsers)
	Register("outlets", SeedOutlets)
	Register("products", SeedProducts)
	Register("stocks", SeedStocks)
}

// SeedUsers creates an admin and one cashier per demo outlet.
func SeedUsers(db *gorm.DB) error {
	hashed, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "Admin", Email: "admin@dukaan.app", Password: hashed, Role: "admin"},
		{Name: "Asha Cashier", Email: "asha@dukaan.app", Password: hashed, Role: "cashier"},
		{Name: "Ravi Cashier", Email: "ravi@dukaan.app", Password: hashed, Role: "cashier"},
	}
	for i := range users {
		if err := db.FirstOrCreate(&users[i], models.User{Email: users[i].Email}).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedOutlets creates two demo shop locations.
func SeedOutlets(db *gorm.DB) error {
	outlets := []models.Outlet{
		{Name: "Main Street", Address: "12 Main Street", Phone: "011-2345678",
			Email: "mainstreet@dukaan.app", AlertsEnabled: true},
		{Name: "Market Road", Address: "4 Market Road", Phone: "011-8765432",
			Email: "marketroad@dukaan.app", AlertsEnabled: true},
	}
	for i := range outlets {
		if err := db.FirstOrCreate(&outlets[i], models.Outlet{Name: outlets[i].Name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedProducts creates a small demo catalogue with default thresholds.
func SeedProducts(db *gorm.DB) error {
	products := []models.Product{
		{Name: "Basmati Rice 5kg", SKU: "RICE-5KG", Price: 12.50, MinStockLevel: 10},
		{Name: "Sunflower Oil 1L", SKU: "OIL-1L", Price: 4.20, MinStockLevel: 15},
		{Name: "Assam Tea 500g", SKU: "TEA-500G", Price: 6.80, MinStockLevel: 8},
		{Name: "Wheat Flour 2kg", SKU: "FLOUR-2KG", Price: 3.10, MinStockLevel: 12},
	}
	for i := range products {
		if err := db.FirstOrCreate(&products[i], models.Product{SKU: products[i].SKU}).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedStocks gives every outlet an opening quantity of each product.
func SeedStocks(db *gorm.DB) error {
	var products []models.Product
	if err := db.Find(&products).Error; err != nil {
		return err
	}
	var outlets []models.Outlet
	if err := db.Find(&outlets).Error; err != nil {
		return err
	}

	for _, outlet := range outlets {
		for _, product := range products {
			stock := models.Stock{
				ProductID: product.ID,
				OutletID:  outlet.ID,
				Quantity:  50,
			}
			err := db.FirstOrCreate(&stock, models.Stock{
				ProductID: product.ID,
				OutletID:  outlet.ID,
			}).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}
