package models

import "time"

// MealRating records one user's rating of one meal.
// The primary key is a composite of (MealID, UserID): the database rejects a
// second rating row for the same pair, so a race between two concurrent
// create requests resolves to exactly one row.
type MealRating struct {
	MealID    uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey"`
	Rating    int  `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Meal Meal `gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
