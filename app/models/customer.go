package models

import "gorm.io/gorm"

// Customer is an optional walk-in or registered buyer attached to orders.
type Customer struct {
	gorm.Model
	Name  string `gorm:"size:255;not null" json:"name"`
	Email string `gorm:"size:255;index" json:"email"`
	Phone string `gorm:"size:50;index" json:"phone"`
}
