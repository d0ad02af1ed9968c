package models

import "gorm.io/gorm"

// User is a staff account: an admin, an outlet manager, or a cashier.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Role     string `gorm:"size:50;default:cashier" json:"role"`
	OutletID *uint  `gorm:"index" json:"outlet_id"` // nil for head-office admins
}
