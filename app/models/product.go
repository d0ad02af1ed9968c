package models

import "gorm.io/gorm"

// Product is a catalogue entry. Per-outlet quantities live on Stock;
// MinStockLevel here is the chain-wide default threshold an outlet row
// can override.
type Product struct {
	gorm.Model
	Name          string  `gorm:"size:255;not null;index" json:"name"`
	Description   string  `gorm:"type:text" json:"description"`
	SKU           string  `gorm:"size:100;uniqueIndex" json:"sku"`
	Price         float64 `gorm:"not null;default:0" json:"price"`
	MinStockLevel int     `gorm:"not null;default:0" json:"min_stock_level"`
}
