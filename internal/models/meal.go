package models

import "gorm.io/gorm"

// Meal represents a dish served by a restaurant.
// Deleting the restaurant removes its meals.
type Meal struct {
	gorm.Model
	Name         string `gorm:"size:55;not null"`
	RestaurantID uint   `gorm:"not null;index"`

	Restaurant Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
