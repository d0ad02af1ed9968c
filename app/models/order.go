package models

import "gorm.io/gorm"

// Order statuses.
const (
	OrderStatusCompleted = "completed"
)

// Order is a committed point-of-sale transaction at one outlet.
// Orders only exist in completed form: a submission that cannot be
// fully stocked is rejected without creating a row.
type Order struct {
	gorm.Model
	OutletID      uint    `gorm:"not null;index" json:"outlet_id"`
	UserID        uint    `gorm:"not null;index" json:"user_id"` // cashier who rang it up
	CustomerID    *uint   `gorm:"index" json:"customer_id"`
	PaymentMethod string  `gorm:"size:50;not null;default:cash" json:"payment_method"`
	Total         float64 `gorm:"not null;default:0" json:"total"`
	Status        string  `gorm:"size:50;default:completed" json:"status"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is one product line on an order. UnitPrice is captured at
// sale time so later catalogue price changes do not rewrite history.
type OrderItem struct {
	gorm.Model
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Subtotal  float64 `gorm:"not null" json:"subtotal"`
}
