package models

import (
	"gorm.io/gorm"
)

// Customer is the external customer registry record reservations point at.
type Customer struct {
	gorm.Model

	FullName string `gorm:"size:255" json:"full_name"`
	Email    string `gorm:"size:150;index" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`
}
