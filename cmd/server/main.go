package main

import (
	"fmt"
	"log"
	"net/http"

	"favameal/backend/internal/auth"
	"favameal/backend/internal/config"
	"favameal/backend/internal/database"
	"favameal/backend/internal/handler"
	"favameal/backend/internal/repository"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "favameal/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           FavaMeal API
// @version         1.0
// @description     This is the API for the FavaMeal service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	db := database.Connect(config.AppConfig.DatabaseURL)

	users := repository.NewGormUserStore(db)
	restaurants := repository.NewGormRestaurantStore(db)
	meals := repository.NewGormMealStore(db)
	ratings := repository.NewGormRatingStore(db)
	favorites := repository.NewGormFavoriteStore(db)

	userHandler := handler.NewUserHandler(users)
	restaurantHandler := handler.NewRestaurantHandler(restaurants)
	mealHandler := handler.NewMealHandler(meals, restaurants, ratings, favorites)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", userHandler.RegisterUser)
			authRoutes.POST("/login", userHandler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", userHandler.GetMe)
		}

		// Restaurant routes (protected)
		restaurantRoutes := apiV1.Group("/restaurants")
		restaurantRoutes.Use(auth.AuthMiddleware())
		{
			restaurantRoutes.POST("", restaurantHandler.CreateRestaurant)
			restaurantRoutes.GET("", restaurantHandler.GetRestaurants)
			restaurantRoutes.GET("/:id", restaurantHandler.GetRestaurantByID)
		}

		// Meal routes (protected)
		mealRoutes := apiV1.Group("/meals")
		mealRoutes.Use(auth.AuthMiddleware())
		{
			mealRoutes.POST("", mealHandler.CreateMeal)
			mealRoutes.GET("", mealHandler.GetMeals)
			mealRoutes.GET("/:id", mealHandler.GetMealByID)
			mealRoutes.POST("/:id/rate", mealHandler.RateMeal)
			mealRoutes.PUT("/:id/rate", mealHandler.RerateMeal)
			mealRoutes.POST("/:id/star", mealHandler.StarMeal)
			mealRoutes.DELETE("/:id/star", mealHandler.UnstarMeal)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware(users))
		{
			adminRoutes.DELETE("/restaurants/:id", restaurantHandler.DeleteRestaurant)
		}
	}

	fmt.Println("Server is running on " + config.AppConfig.ServerAddress)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddress))
}
