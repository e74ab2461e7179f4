package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"favameal/backend/internal/auth"
	"favameal/backend/internal/config"
	"favameal/backend/internal/models"
	"favameal/backend/internal/repository"
	"favameal/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *repository.MemoryStores) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	stores := repository.NewMemoryStores()
	userHandler := NewUserHandler(stores.Users)
	restaurantHandler := NewRestaurantHandler(stores.Restaurants)
	mealHandler := NewMealHandler(stores.Meals, stores.Restaurants, stores.Ratings, stores.Favorites)

	router := gin.New()
	apiV1 := router.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.POST("/register", userHandler.RegisterUser)
	authRoutes.POST("/login", userHandler.LoginUser)

	userRoutes := apiV1.Group("/users")
	userRoutes.Use(auth.AuthMiddleware())
	userRoutes.GET("/me", userHandler.GetMe)

	restaurantRoutes := apiV1.Group("/restaurants")
	restaurantRoutes.Use(auth.AuthMiddleware())
	restaurantRoutes.POST("", restaurantHandler.CreateRestaurant)
	restaurantRoutes.GET("", restaurantHandler.GetRestaurants)
	restaurantRoutes.GET("/:id", restaurantHandler.GetRestaurantByID)

	mealRoutes := apiV1.Group("/meals")
	mealRoutes.Use(auth.AuthMiddleware())
	mealRoutes.POST("", mealHandler.CreateMeal)
	mealRoutes.GET("", mealHandler.GetMeals)
	mealRoutes.GET("/:id", mealHandler.GetMealByID)
	mealRoutes.POST("/:id/rate", mealHandler.RateMeal)
	mealRoutes.PUT("/:id/rate", mealHandler.RerateMeal)
	mealRoutes.POST("/:id/star", mealHandler.StarMeal)
	mealRoutes.DELETE("/:id/star", mealHandler.UnstarMeal)

	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware(stores.Users))
	adminRoutes.DELETE("/restaurants/:id", restaurantHandler.DeleteRestaurant)

	return router, stores
}

func createUser(t *testing.T, stores *repository.MemoryStores, nickname, role string) models.User {
	t.Helper()
	user := models.User{
		Nickname:     nickname,
		Email:        nickname + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, stores.Users.Create(&user))
	return user
}

func createMeal(t *testing.T, stores *repository.MemoryStores, name string) models.Meal {
	t.Helper()
	restaurant := models.Restaurant{Name: name + " Kitchen"}
	require.NoError(t, stores.Restaurants.Create(&restaurant))
	meal := models.Meal{Name: name, RestaurantID: restaurant.ID}
	require.NoError(t, stores.Meals.Create(&meal))
	return meal
}

func doRequest(t *testing.T, router *gin.Engine, userID uint, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := jwt.GenerateToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doRequestWithHeader(t *testing.T, router *gin.Engine, authHeader, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getMealResponse(t *testing.T, router *gin.Engine, userID, mealID uint) MealResponse {
	t.Helper()
	w := doRequest(t, router, userID, http.MethodGet, fmt.Sprintf("/api/v1/meals/%d", mealID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var response MealResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestMealEndpoints_RequireAuth(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(t, router, 0, http.MethodGet, "/api/v1/meals", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateMeal(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")
	restaurant := models.Restaurant{Name: "Trattoria", Address: "12 Via Roma"}
	require.NoError(t, stores.Restaurants.Create(&restaurant))

	w := doRequest(t, router, user.ID, http.MethodPost, "/api/v1/meals",
		gin.H{"name": "Carbonara", "restaurant_id": restaurant.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response MealResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Carbonara", response.Name)
	assert.Equal(t, "Trattoria", response.Restaurant.Name)
	assert.Nil(t, response.AvgRating)
	assert.Nil(t, response.UserRating)
	assert.False(t, response.IsFavorite)
}

func TestCreateMeal_UnknownRestaurant(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")

	w := doRequest(t, router, user.ID, http.MethodPost, "/api/v1/meals",
		gin.H{"name": "Carbonara", "restaurant_id": 99})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateMeal_MissingName(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")

	w := doRequest(t, router, user.ID, http.MethodPost, "/api/v1/meals",
		gin.H{"restaurant_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMealByID_DerivedView(t *testing.T) {
	router, stores := setupRouter(t)
	alice := createUser(t, stores, "alice", "user")
	bob := createUser(t, stores, "bob", "user")
	carol := createUser(t, stores, "carol", "user")
	dave := createUser(t, stores, "dave", "user")
	meal := createMeal(t, stores, "Pho")

	require.NoError(t, stores.Ratings.Create(&models.MealRating{MealID: meal.ID, UserID: bob.ID, Rating: 3}))
	require.NoError(t, stores.Ratings.Create(&models.MealRating{MealID: meal.ID, UserID: carol.ID, Rating: 4}))
	require.NoError(t, stores.Ratings.Create(&models.MealRating{MealID: meal.ID, UserID: dave.ID, Rating: 5}))
	require.NoError(t, stores.Favorites.Add(meal.ID, bob.ID))

	// Bob rated and starred the meal.
	bobView := getMealResponse(t, router, bob.ID, meal.ID)
	require.NotNil(t, bobView.AvgRating)
	assert.Equal(t, 4.0, *bobView.AvgRating)
	require.NotNil(t, bobView.UserRating)
	assert.Equal(t, 3, *bobView.UserRating)
	assert.True(t, bobView.IsFavorite)

	// Alice did neither; the shared average is the same.
	aliceView := getMealResponse(t, router, alice.ID, meal.ID)
	require.NotNil(t, aliceView.AvgRating)
	assert.Equal(t, 4.0, *aliceView.AvgRating)
	assert.Nil(t, aliceView.UserRating)
	assert.False(t, aliceView.IsFavorite)
}

func TestGetMealByID_NotFound(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")

	w := doRequest(t, router, user.ID, http.MethodGet, "/api/v1/meals/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMeals_Paginated(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")
	restaurant := models.Restaurant{Name: "Cantina"}
	require.NoError(t, stores.Restaurants.Create(&restaurant))
	for i := 0; i < 3; i++ {
		meal := models.Meal{Name: fmt.Sprintf("Meal %d", i), RestaurantID: restaurant.ID}
		require.NoError(t, stores.Meals.Create(&meal))
	}

	w := doRequest(t, router, user.ID, http.MethodGet, "/api/v1/meals?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response PaginatedMealResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Data, 2)
	assert.Equal(t, int64(3), response.Meta.TotalItems)
	assert.Equal(t, 2, response.Meta.TotalPages)
	assert.Equal(t, "Cantina", response.Data[0].Restaurant.Name)
}

func TestRateMeal_CreateThenUpdateThenConflict(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")
	meal := createMeal(t, stores, "Ramen")

	// First create-intent rating succeeds.
	w := doRequest(t, router, user.ID, http.MethodPost, fmt.Sprintf("/api/v1/meals/%d/rate", meal.ID),
		gin.H{"rating": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Update-intent overwrites the same row.
	w = doRequest(t, router, user.ID, http.MethodPut, fmt.Sprintf("/api/v1/meals/%d/rate", meal.ID),
		gin.H{"rating": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// A second create-intent is rejected and the stored value stays put.
	w = doRequest(t, router, user.ID, http.MethodPost, fmt.Sprintf("/api/v1/meals/%d/rate", meal.ID),
		gin.H{"rating": 1})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	stored, err := stores.Ratings.Get(meal.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Rating)
}

func TestRateMeal_ValueOutOfRange(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")
	meal := createMeal(t, stores, "Ramen")

	for _, value := range []int{0, 6, -1} {
		w := doRequest(t, router, user.ID, http.MethodPost, fmt.Sprintf("/api/v1/meals/%d/rate", meal.ID),
			gin.H{"rating": value})
		assert.Equalf(t, http.StatusBadRequest, w.Code, "rating %d must be rejected", value)
	}

	_, err := stores.Ratings.Get(meal.ID, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound, "rejected ratings must not be stored")
}

func TestRateMeal_MealNotFound(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")

	w := doRequest(t, router, user.ID, http.MethodPost, "/api/v1/meals/99/rate", gin.H{"rating": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRerateMeal_WithoutExistingRating(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")
	meal := createMeal(t, stores, "Ramen")

	w := doRequest(t, router, user.ID, http.MethodPut, fmt.Sprintf("/api/v1/meals/%d/rate", meal.ID),
		gin.H{"rating": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The rejected update must not have created a row.
	_, err := stores.Ratings.Get(meal.ID, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStarUnstar_Idempotent(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")
	meal := createMeal(t, stores, "Gyoza")

	w := doRequest(t, router, user.ID, http.MethodPost, fmt.Sprintf("/api/v1/meals/%d/star", meal.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, getMealResponse(t, router, user.ID, meal.ID).IsFavorite)

	// Starring again succeeds without change.
	w = doRequest(t, router, user.ID, http.MethodPost, fmt.Sprintf("/api/v1/meals/%d/star", meal.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, router, user.ID, http.MethodDelete, fmt.Sprintf("/api/v1/meals/%d/star", meal.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, getMealResponse(t, router, user.ID, meal.ID).IsFavorite)

	// Unstarring an unstarred meal is a successful no-op.
	w = doRequest(t, router, user.ID, http.MethodDelete, fmt.Sprintf("/api/v1/meals/%d/star", meal.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, getMealResponse(t, router, user.ID, meal.ID).IsFavorite)
}

func TestStarMeal_MealNotFound(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")

	w := doRequest(t, router, user.ID, http.MethodPost, "/api/v1/meals/99/star", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRestaurant_AdminOnly(t *testing.T) {
	router, stores := setupRouter(t)
	admin := createUser(t, stores, "root", "admin")
	user := createUser(t, stores, "alice", "user")
	meal := createMeal(t, stores, "Bibimbap")

	w := doRequest(t, router, user.ID, http.MethodDelete,
		fmt.Sprintf("/api/v1/admin/restaurants/%d", meal.RestaurantID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, router, admin.ID, http.MethodDelete,
		fmt.Sprintf("/api/v1/admin/restaurants/%d", meal.RestaurantID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The restaurant's meals go with it.
	w = doRequest(t, router, user.ID, http.MethodGet, fmt.Sprintf("/api/v1/meals/%d", meal.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRestaurant_Duplicate(t *testing.T) {
	router, stores := setupRouter(t)
	user := createUser(t, stores, "alice", "user")

	w := doRequest(t, router, user.ID, http.MethodPost, "/api/v1/restaurants",
		gin.H{"name": "Osteria", "address": "1 Main St"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, router, user.ID, http.MethodPost, "/api/v1/restaurants",
		gin.H{"name": "Osteria"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
