package repository

import (
	"errors"

	"favameal/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translate maps GORM's sentinel errors onto the repository package's.
// Requires TranslateError on the connection so driver duplicate-key errors
// surface as gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// GormUserStore implements UserStore on a GORM connection.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Create(user *models.User) error {
	return translate(s.db.Create(user).Error)
}

func (s *GormUserStore) GetByID(id uint) (models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	return user, translate(err)
}

func (s *GormUserStore) FindByLogin(login string) (models.User, error) {
	var user models.User
	err := s.db.Where("nickname = ? OR email = ?", login, login).First(&user).Error
	return user, translate(err)
}

// GormRestaurantStore implements RestaurantStore on a GORM connection.
type GormRestaurantStore struct {
	db *gorm.DB
}

func NewGormRestaurantStore(db *gorm.DB) *GormRestaurantStore {
	return &GormRestaurantStore{db: db}
}

func (s *GormRestaurantStore) Create(restaurant *models.Restaurant) error {
	return translate(s.db.Create(restaurant).Error)
}

func (s *GormRestaurantStore) GetByID(id uint) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.First(&restaurant, id).Error
	return restaurant, translate(err)
}

func (s *GormRestaurantStore) List() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := s.db.Order("id").Find(&restaurants).Error
	return restaurants, translate(err)
}

// Delete removes the restaurant; its meals and their ratings and favorites go
// with it through the foreign key cascades. Hard delete: a soft delete would
// leave the row in place and the cascade would never fire.
func (s *GormRestaurantStore) Delete(id uint) error {
	result := s.db.Unscoped().Delete(&models.Restaurant{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GormMealStore implements MealStore on a GORM connection.
type GormMealStore struct {
	db *gorm.DB
}

func NewGormMealStore(db *gorm.DB) *GormMealStore {
	return &GormMealStore{db: db}
}

func (s *GormMealStore) Create(meal *models.Meal) error {
	return translate(s.db.Create(meal).Error)
}

func (s *GormMealStore) GetByID(id uint) (models.Meal, error) {
	var meal models.Meal
	err := s.db.Preload("Restaurant").First(&meal, id).Error
	return meal, translate(err)
}

func (s *GormMealStore) List(offset, limit int) ([]models.Meal, int64, error) {
	var totalItems int64
	if err := s.db.Model(&models.Meal{}).Count(&totalItems).Error; err != nil {
		return nil, 0, translate(err)
	}

	var meals []models.Meal
	err := s.db.Preload("Restaurant").Order("id").Offset(offset).Limit(limit).Find(&meals).Error
	return meals, totalItems, translate(err)
}

// GormRatingStore implements RatingStore on a GORM connection.
type GormRatingStore struct {
	db *gorm.DB
}

func NewGormRatingStore(db *gorm.DB) *GormRatingStore {
	return &GormRatingStore{db: db}
}

func (s *GormRatingStore) Get(mealID, userID uint) (models.MealRating, error) {
	var rating models.MealRating
	err := s.db.Where("meal_id = ? AND user_id = ?", mealID, userID).First(&rating).Error
	return rating, translate(err)
}

func (s *GormRatingStore) Create(rating *models.MealRating) error {
	return translate(s.db.Create(rating).Error)
}

func (s *GormRatingStore) UpdateValue(mealID, userID uint, value int) error {
	result := s.db.Model(&models.MealRating{}).
		Where("meal_id = ? AND user_id = ?", mealID, userID).
		Update("rating", value)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormRatingStore) ListByMeal(mealID uint) ([]models.MealRating, error) {
	var ratings []models.MealRating
	err := s.db.Where("meal_id = ?", mealID).Find(&ratings).Error
	return ratings, translate(err)
}

// GormFavoriteStore implements FavoriteStore on a GORM connection.
type GormFavoriteStore struct {
	db *gorm.DB
}

func NewGormFavoriteStore(db *gorm.DB) *GormFavoriteStore {
	return &GormFavoriteStore{db: db}
}

func (s *GormFavoriteStore) Exists(mealID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.FavoriteMeal{}).
		Where("meal_id = ? AND user_id = ?", mealID, userID).
		Count(&count).Error
	return count > 0, translate(err)
}

// Add inserts the favorite row, silently keeping the existing one when the
// meal is already starred.
func (s *GormFavoriteStore) Add(mealID, userID uint) error {
	favorite := models.FavoriteMeal{MealID: mealID, UserID: userID}
	return translate(s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error)
}

// Remove deletes the favorite row; removing an absent favorite is a no-op.
func (s *GormFavoriteStore) Remove(mealID, userID uint) error {
	return translate(s.db.Where("meal_id = ? AND user_id = ?", mealID, userID).
		Delete(&models.FavoriteMeal{}).Error)
}
