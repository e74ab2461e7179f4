package repository

import (
	"sort"
	"sync"
	"time"

	"favameal/backend/internal/models"
)

// The in-memory stores mirror the GORM stores' semantics, uniqueness
// constraints included, so handlers can be exercised without a database.

// MemoryUserStore implements UserStore in memory.
type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1, users: make(map[uint]models.User)}
}

func (s *MemoryUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Nickname == user.Nickname || existing.Email == user.Email {
			return ErrDuplicate
		}
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) GetByID(id uint) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryUserStore) FindByLogin(login string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Nickname == login || user.Email == login {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

// MemoryRestaurantStore implements RestaurantStore in memory.
type MemoryRestaurantStore struct {
	mu          sync.RWMutex
	nextID      uint
	restaurants map[uint]models.Restaurant

	// onDelete propagates restaurant deletion the way the database cascade
	// does; wired up by NewMemoryStores.
	onDelete func(restaurantID uint)
}

func NewMemoryRestaurantStore() *MemoryRestaurantStore {
	return &MemoryRestaurantStore{nextID: 1, restaurants: make(map[uint]models.Restaurant)}
}

func (s *MemoryRestaurantStore) Create(restaurant *models.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.restaurants {
		if existing.Name == restaurant.Name {
			return ErrDuplicate
		}
	}
	restaurant.ID = s.nextID
	s.nextID++
	restaurant.CreatedAt = time.Now()
	restaurant.UpdatedAt = restaurant.CreatedAt
	s.restaurants[restaurant.ID] = *restaurant
	return nil
}

func (s *MemoryRestaurantStore) GetByID(id uint) (models.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	restaurant, ok := s.restaurants[id]
	if !ok {
		return models.Restaurant{}, ErrNotFound
	}
	return restaurant, nil
}

func (s *MemoryRestaurantStore) List() ([]models.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	restaurants := make([]models.Restaurant, 0, len(s.restaurants))
	for _, restaurant := range s.restaurants {
		restaurants = append(restaurants, restaurant)
	}
	sort.Slice(restaurants, func(i, j int) bool { return restaurants[i].ID < restaurants[j].ID })
	return restaurants, nil
}

func (s *MemoryRestaurantStore) Delete(id uint) error {
	s.mu.Lock()
	if _, ok := s.restaurants[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.restaurants, id)
	onDelete := s.onDelete
	s.mu.Unlock()

	if onDelete != nil {
		onDelete(id)
	}
	return nil
}

// MemoryMealStore implements MealStore in memory.
type MemoryMealStore struct {
	mu          sync.RWMutex
	nextID      uint
	meals       map[uint]models.Meal
	restaurants *MemoryRestaurantStore
}

func NewMemoryMealStore(restaurants *MemoryRestaurantStore) *MemoryMealStore {
	return &MemoryMealStore{nextID: 1, meals: make(map[uint]models.Meal), restaurants: restaurants}
}

func (s *MemoryMealStore) Create(meal *models.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meal.ID = s.nextID
	s.nextID++
	meal.CreatedAt = time.Now()
	meal.UpdatedAt = meal.CreatedAt
	s.meals[meal.ID] = *meal
	return nil
}

func (s *MemoryMealStore) GetByID(id uint) (models.Meal, error) {
	s.mu.RLock()
	meal, ok := s.meals[id]
	s.mu.RUnlock()
	if !ok {
		return models.Meal{}, ErrNotFound
	}
	return s.withRestaurant(meal), nil
}

func (s *MemoryMealStore) List(offset, limit int) ([]models.Meal, int64, error) {
	s.mu.RLock()
	meals := make([]models.Meal, 0, len(s.meals))
	for _, meal := range s.meals {
		meals = append(meals, meal)
	}
	s.mu.RUnlock()
	sort.Slice(meals, func(i, j int) bool { return meals[i].ID < meals[j].ID })

	total := int64(len(meals))
	if offset > len(meals) {
		offset = len(meals)
	}
	end := offset + limit
	if limit <= 0 || end > len(meals) {
		end = len(meals)
	}
	page := make([]models.Meal, 0, end-offset)
	for _, meal := range meals[offset:end] {
		page = append(page, s.withRestaurant(meal))
	}
	return page, total, nil
}

func (s *MemoryMealStore) withRestaurant(meal models.Meal) models.Meal {
	if s.restaurants != nil {
		if restaurant, err := s.restaurants.GetByID(meal.RestaurantID); err == nil {
			meal.Restaurant = restaurant
		}
	}
	return meal
}

func (s *MemoryMealStore) deleteByRestaurant(restaurantID uint) []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []uint
	for id, meal := range s.meals {
		if meal.RestaurantID == restaurantID {
			delete(s.meals, id)
			removed = append(removed, id)
		}
	}
	return removed
}

type ratingKey struct {
	mealID uint
	userID uint
}

// MemoryRatingStore implements RatingStore in memory.
type MemoryRatingStore struct {
	mu      sync.RWMutex
	ratings map[ratingKey]models.MealRating
}

func NewMemoryRatingStore() *MemoryRatingStore {
	return &MemoryRatingStore{ratings: make(map[ratingKey]models.MealRating)}
}

func (s *MemoryRatingStore) Get(mealID, userID uint) (models.MealRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rating, ok := s.ratings[ratingKey{mealID, userID}]
	if !ok {
		return models.MealRating{}, ErrNotFound
	}
	return rating, nil
}

func (s *MemoryRatingStore) Create(rating *models.MealRating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ratingKey{rating.MealID, rating.UserID}
	if _, ok := s.ratings[key]; ok {
		return ErrDuplicate
	}
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = rating.CreatedAt
	s.ratings[key] = *rating
	return nil
}

func (s *MemoryRatingStore) UpdateValue(mealID, userID uint, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ratingKey{mealID, userID}
	rating, ok := s.ratings[key]
	if !ok {
		return ErrNotFound
	}
	rating.Rating = value
	rating.UpdatedAt = time.Now()
	s.ratings[key] = rating
	return nil
}

func (s *MemoryRatingStore) ListByMeal(mealID uint) ([]models.MealRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ratings []models.MealRating
	for key, rating := range s.ratings {
		if key.mealID == mealID {
			ratings = append(ratings, rating)
		}
	}
	return ratings, nil
}

func (s *MemoryRatingStore) deleteByMeal(mealID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.ratings {
		if key.mealID == mealID {
			delete(s.ratings, key)
		}
	}
}

// MemoryFavoriteStore implements FavoriteStore in memory.
type MemoryFavoriteStore struct {
	mu        sync.RWMutex
	favorites map[ratingKey]struct{}
}

func NewMemoryFavoriteStore() *MemoryFavoriteStore {
	return &MemoryFavoriteStore{favorites: make(map[ratingKey]struct{})}
}

func (s *MemoryFavoriteStore) Exists(mealID, userID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favorites[ratingKey{mealID, userID}]
	return ok, nil
}

func (s *MemoryFavoriteStore) Add(mealID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites[ratingKey{mealID, userID}] = struct{}{}
	return nil
}

func (s *MemoryFavoriteStore) Remove(mealID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites, ratingKey{mealID, userID})
	return nil
}

func (s *MemoryFavoriteStore) deleteByMeal(mealID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.favorites {
		if key.mealID == mealID {
			delete(s.favorites, key)
		}
	}
}

// MemoryStores bundles one in-memory store per interface with deletion
// cascades wired between them.
type MemoryStores struct {
	Users       *MemoryUserStore
	Restaurants *MemoryRestaurantStore
	Meals       *MemoryMealStore
	Ratings     *MemoryRatingStore
	Favorites   *MemoryFavoriteStore
}

func NewMemoryStores() *MemoryStores {
	users := NewMemoryUserStore()
	restaurants := NewMemoryRestaurantStore()
	meals := NewMemoryMealStore(restaurants)
	ratings := NewMemoryRatingStore()
	favorites := NewMemoryFavoriteStore()

	restaurants.onDelete = func(restaurantID uint) {
		for _, mealID := range meals.deleteByRestaurant(restaurantID) {
			ratings.deleteByMeal(mealID)
			favorites.deleteByMeal(mealID)
		}
	}

	return &MemoryStores{
		Users:       users,
		Restaurants: restaurants,
		Meals:       meals,
		Ratings:     ratings,
		Favorites:   favorites,
	}
}
