package models

import "time"

// FavoriteMeal links a user to a meal they starred. The composite primary key
// makes the relation a set: starring twice cannot produce a second row.
type FavoriteMeal struct {
	MealID    uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Meal Meal `gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
