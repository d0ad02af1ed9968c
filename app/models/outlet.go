package models

import "gorm.io/gorm"

// Outlet is a physical shop location holding its own stock.
// Email and AlertsEnabled gate low-stock alert delivery: an outlet with
// alerts disabled or no address still gets its in-app notification rows,
// but no email goes out for it.
type Outlet struct {
	gorm.Model
	Name          string `gorm:"size:255;not null;index" json:"name"`
	Address       string `gorm:"type:text" json:"address"`
	Phone         string `gorm:"size:50" json:"phone"`
	Email         string `gorm:"size:255" json:"email"`
	AlertsEnabled bool   `gorm:"not null;default:true" json:"alerts_enabled"`
}
