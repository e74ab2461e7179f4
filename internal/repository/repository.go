// Package repository defines the store interfaces the handlers depend on,
// together with a GORM-backed implementation and an in-memory implementation
// used by tests.
package repository

import (
	"errors"

	"favameal/backend/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)

// UserStore persists users.
type UserStore interface {
	Create(user *models.User) error
	GetByID(id uint) (models.User, error)
	FindByLogin(login string) (models.User, error)
}

// RestaurantStore persists restaurants.
type RestaurantStore interface {
	Create(restaurant *models.Restaurant) error
	GetByID(id uint) (models.Restaurant, error)
	List() ([]models.Restaurant, error)
	Delete(id uint) error
}

// MealStore persists meals. Reads return the meal with its restaurant loaded.
type MealStore interface {
	Create(meal *models.Meal) error
	GetByID(id uint) (models.Meal, error)
	List(offset, limit int) ([]models.Meal, int64, error)
}

// RatingStore persists per-user meal ratings. At most one rating exists per
// (meal, user) pair; Create reports ErrDuplicate when the pair is already
// rated, so a create/create race resolves to exactly one winner.
type RatingStore interface {
	Get(mealID, userID uint) (models.MealRating, error)
	Create(rating *models.MealRating) error
	UpdateValue(mealID, userID uint, value int) error
	ListByMeal(mealID uint) ([]models.MealRating, error)
}

// FavoriteStore persists the starred-meals relation. Add and Remove are
// idempotent: repeating either is a successful no-op.
type FavoriteStore interface {
	Exists(mealID, userID uint) (bool, error)
	Add(mealID, userID uint) error
	Remove(mealID, userID uint) error
}
