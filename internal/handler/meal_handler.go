package handler

import (
	"errors"
	"net/http"
	"strconv"

	"favameal/backend/internal/models"
	"favameal/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// MealHandler serves the meal endpoints over the injected stores.
type MealHandler struct {
	meals       repository.MealStore
	restaurants repository.RestaurantStore
	ratings     repository.RatingStore
	favorites   repository.FavoriteStore
}

func NewMealHandler(meals repository.MealStore, restaurants repository.RestaurantStore, ratings repository.RatingStore, favorites repository.FavoriteStore) *MealHandler {
	return &MealHandler{
		meals:       meals,
		restaurants: restaurants,
		ratings:     ratings,
		favorites:   favorites,
	}
}

// region --- DTOs ---

type MealInput struct {
	Name         string `json:"name" binding:"required,max=55"`
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
}

type RatingInput struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

type MealResponse struct {
	ID         uint               `json:"id"`
	Name       string             `json:"name"`
	Restaurant RestaurantResponse `json:"restaurant"`
	AvgRating  *float64           `json:"avg_rating"`
	UserRating *int               `json:"user_rating"`
	IsFavorite bool               `json:"is_favorite"`
}

func newMealResponse(meal models.Meal, view MealView) MealResponse {
	return MealResponse{
		ID:         meal.ID,
		Name:       meal.Name,
		Restaurant: newRestaurantResponse(meal.Restaurant),
		AvgRating:  view.AvgRating,
		UserRating: view.UserRating,
		IsFavorite: view.IsFavorite,
	}
}

// PaginatedMealResponse defines the structure for a paginated list of meals.
type PaginatedMealResponse struct {
	Data []MealResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// endregion

// region --- Meal CRUD ---

// CreateMeal godoc
// @Summary      Create a new meal
// @Description  Creates a meal belonging to an existing restaurant.
// @Tags         meals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MealInput true "Meal Info"
// @Success      201  {object}  MealResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Restaurant not found"
// @Router       /meals [post]
func (h *MealHandler) CreateMeal(c *gin.Context) {
	userID := c.GetUint("userID")

	var input MealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restaurant, err := h.restaurants.GetByID(input.RestaurantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	meal := models.Meal{
		Name:         input.Name,
		RestaurantID: restaurant.ID,
	}
	if err := h.meals.Create(&meal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meal"})
		return
	}
	meal.Restaurant = restaurant

	view, err := computeMealView(h.ratings, h.favorites, meal.ID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load meal"})
		return
	}

	c.JSON(http.StatusCreated, newMealResponse(meal, view))
}

// GetMeals godoc
// @Summary      Get a list of meals
// @Description  Retrieves a paginated list of meals, each with the requesting user's average rating, own rating and favorite flag.
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedMealResponse
// @Failure      401 {object} ErrorResponse
// @Router       /meals [get]
func (h *MealHandler) GetMeals(c *gin.Context) {
	userID := c.GetUint("userID")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Max limit
	}

	offset := (page - 1) * limit

	meals, totalItems, err := h.meals.List(offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meals"})
		return
	}

	response := make([]MealResponse, 0, len(meals))
	for _, meal := range meals {
		view, err := computeMealView(h.ratings, h.favorites, meal.ID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meals"})
			return
		}
		response = append(response, newMealResponse(meal, view))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// GetMealByID godoc
// @Summary      Get a single meal by ID
// @Description  Retrieves one meal with the requesting user's derived view.
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Meal ID"
// @Success      200 {object} MealResponse
// @Failure      404 {object} ErrorResponse "Meal not found"
// @Router       /meals/{id} [get]
func (h *MealHandler) GetMealByID(c *gin.Context) {
	userID := c.GetUint("userID")
	id, _ := strconv.Atoi(c.Param("id"))

	meal, err := h.meals.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found"})
		return
	}

	view, err := computeMealView(h.ratings, h.favorites, meal.ID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load meal"})
		return
	}

	c.JSON(http.StatusOK, newMealResponse(meal, view))
}

// endregion

// region --- Rating transitions ---

// RateMeal godoc
// @Summary      Rate a meal
// @Description  Records the requesting user's rating of a meal. Each user may rate a meal once; re-rating goes through PUT.
// @Tags         meals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Meal ID"
// @Param        input body RatingInput true "Rating (1-5)"
// @Success      201 {object} map[string]string "{"message": "Meal rating added"}"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Meal not found"
// @Failure      409 {object} ErrorResponse "Meal rating already exists"
// @Router       /meals/{id}/rate [post]
func (h *MealHandler) RateMeal(c *gin.Context) {
	userID := c.GetUint("userID")
	mealID, _ := strconv.Atoi(c.Param("id"))

	var input RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.meals.GetByID(uint(mealID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found"})
		return
	}

	if _, err := h.ratings.Get(uint(mealID), userID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Meal rating already exists"})
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add rating"})
		return
	}

	rating := models.MealRating{
		MealID: uint(mealID),
		UserID: userID,
		Rating: input.Rating,
	}
	if err := h.ratings.Create(&rating); err != nil {
		// A concurrent request may have won the race since the check above;
		// the composite primary key makes the store the arbiter.
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Meal rating already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add rating"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Meal rating added"})
}

// RerateMeal godoc
// @Summary      Update a meal rating
// @Description  Overwrites the requesting user's existing rating of a meal. Fails if the user has not rated the meal.
// @Tags         meals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Meal ID"
// @Param        input body RatingInput true "Rating (1-5)"
// @Success      200 {object} map[string]string "{"message": "Meal rating updated"}"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Meal or rating not found"
// @Router       /meals/{id}/rate [put]
func (h *MealHandler) RerateMeal(c *gin.Context) {
	userID := c.GetUint("userID")
	mealID, _ := strconv.Atoi(c.Param("id"))

	var input RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.meals.GetByID(uint(mealID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found"})
		return
	}

	if err := h.ratings.UpdateValue(uint(mealID), userID, input.Rating); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meal rating not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal rating updated"})
}

// endregion

// region --- Favorite transitions ---

// StarMeal godoc
// @Summary      Star a meal
// @Description  Adds the meal to the requesting user's favorites. Starring an already-starred meal succeeds without change.
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Meal ID"
// @Success      201 {object} map[string]string "{"message": "Meal favorite added"}"
// @Failure      404 {object} ErrorResponse "Meal not found"
// @Router       /meals/{id}/star [post]
func (h *MealHandler) StarMeal(c *gin.Context) {
	userID := c.GetUint("userID")
	mealID, _ := strconv.Atoi(c.Param("id"))

	if _, err := h.meals.GetByID(uint(mealID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found"})
		return
	}

	if err := h.favorites.Add(uint(mealID), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Meal favorite added"})
}

// UnstarMeal godoc
// @Summary      Unstar a meal
// @Description  Removes the meal from the requesting user's favorites. Unstarring a meal that is not starred succeeds without change.
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Meal ID"
// @Success      200 {object} map[string]string "{"message": "Meal favorite removed"}"
// @Failure      404 {object} ErrorResponse "Meal not found"
// @Router       /meals/{id}/star [delete]
func (h *MealHandler) UnstarMeal(c *gin.Context) {
	userID := c.GetUint("userID")
	mealID, _ := strconv.Atoi(c.Param("id"))

	if _, err := h.meals.GetByID(uint(mealID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found"})
		return
	}

	if err := h.favorites.Remove(uint(mealID), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal favorite removed"})
}

// endregion
