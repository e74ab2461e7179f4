package models

import "gorm.io/gorm"

// Restaurant represents a restaurant that serves meals.
type Restaurant struct {
	gorm.Model
	Name    string `gorm:"size:255;unique;not null"`
	Address string `gorm:"size:512"`
}
