package models

import "gorm.io/gorm"

// Notification types.
const (
	NotificationTypeLowStock = "low_stock"
)

// Notification is a durable in-app alert. Low-stock rows are the write
// of record for the alerting pipeline; email and Slack delivery are
// best-effort copies dispatched afterwards.
type Notification struct {
	gorm.Model
	Type      string `gorm:"size:50;not null;index" json:"type"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Message   string `gorm:"type:text;not null" json:"message"`
	Seen      bool   `gorm:"not null;default:false;index" json:"seen"`
	ProductID *uint  `gorm:"index" json:"product_id"`
	OutletID  *uint  `gorm:"index" json:"outlet_id"`
}
