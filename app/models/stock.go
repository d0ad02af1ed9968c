package models

import (
	"time"

	"gorm.io/gorm"
)

// Stock is the on-hand quantity of one product at one outlet.
// Exactly one row exists per (product, outlet) pair.
//
// MinStockLevel is a per-outlet threshold override: nil defers to the
// product's chain-wide default, while an explicit 0 disables alerting
// for this row. LastAlertAt drives the alert cooldown window.
type Stock struct {
	gorm.Model
	ProductID     uint       `gorm:"not null;uniqueIndex:idx_product_outlet" json:"product_id"`
	OutletID      uint       `gorm:"not null;uniqueIndex:idx_product_outlet" json:"outlet_id"`
	Quantity      int        `gorm:"not null;default:0" json:"quantity"`
	MinStockLevel *int       `json:"min_stock_level"`
	LastAlertAt   *time.Time `json:"last_alert_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Outlet  Outlet  `gorm:"foreignKey:OutletID" json:"outlet,omitempty"`
}

// EffectiveMin resolves the alert threshold for this row: the outlet
// override when set, otherwise the product default.
func (s *Stock) EffectiveMin() int {
	if s.MinStockLevel != nil {
		return *s.MinStockLevel
	}
	return s.Product.MinStockLevel
}
