package handler

import (
	"errors"
	"net/http"
	"strconv"

	"favameal/backend/internal/models"
	"favameal/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// RestaurantHandler serves the restaurant endpoints.
type RestaurantHandler struct {
	restaurants repository.RestaurantStore
}

func NewRestaurantHandler(restaurants repository.RestaurantStore) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants}
}

type RestaurantInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

type RestaurantResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func newRestaurantResponse(restaurant models.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:      restaurant.ID,
		Name:    restaurant.Name,
		Address: restaurant.Address,
	}
}

// CreateRestaurant godoc
// @Summary      Create a new restaurant
// @Description  Creates a restaurant that meals can belong to.
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RestaurantInput true "Restaurant Info"
// @Success      201  {object}  RestaurantResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Restaurant already exists"
// @Router       /restaurants [post]
func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var input RestaurantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restaurant := models.Restaurant{
		Name:    input.Name,
		Address: input.Address,
	}
	if err := h.restaurants.Create(&restaurant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Restaurant already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant"})
		return
	}

	c.JSON(http.StatusCreated, newRestaurantResponse(restaurant))
}

// GetRestaurants godoc
// @Summary      Get all restaurants
// @Description  Retrieves a list of all restaurants.
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   RestaurantResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /restaurants [get]
func (h *RestaurantHandler) GetRestaurants(c *gin.Context) {
	restaurants, err := h.restaurants.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve restaurants"})
		return
	}

	response := make([]RestaurantResponse, 0, len(restaurants))
	for _, restaurant := range restaurants {
		response = append(response, newRestaurantResponse(restaurant))
	}
	c.JSON(http.StatusOK, response)
}

// GetRestaurantByID godoc
// @Summary      Get a single restaurant by ID
// @Description  Retrieves details for a single restaurant.
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Restaurant ID"
// @Success      200 {object} RestaurantResponse
// @Failure      404 {object} ErrorResponse "Restaurant not found"
// @Router       /restaurants/{id} [get]
func (h *RestaurantHandler) GetRestaurantByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	restaurant, err := h.restaurants.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	c.JSON(http.StatusOK, newRestaurantResponse(restaurant))
}

// DeleteRestaurant godoc
// @Summary      Delete a restaurant
// @Description  Deletes a restaurant; its meals, their ratings and favorites are removed with it.
// @Tags         admin-restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Restaurant ID"
// @Success      200 {object} map[string]string "{"message": "Restaurant deleted"}"
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Restaurant not found"
// @Router       /admin/restaurants/{id} [delete]
func (h *RestaurantHandler) DeleteRestaurant(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := h.restaurants.Delete(uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete restaurant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted"})
}
