package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/astrixglobal/astrix_backend/config"
	"github.com/astrixglobal/astrix_backend/middleware"
	"github.com/astrixglobal/astrix_backend/routes"
	"github.com/astrixglobal/astrix_backend/services"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize Firebase
	config.InitFirebase()

	// Connect to Redis
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.GetDBName())

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Astrix Bonus Engine is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize the bonus engine
	payoutService := services.NewPayoutService(db)
	rankService := services.NewRankService(db)
	clubService := services.NewClubService(db, payoutService)
	matchingService := services.NewMatchingBonusService(db, payoutService, rankService, clubService)
	directService := services.NewDirectSalesService(db, payoutService)
	infinityService := services.NewInfinityBonusService(db, payoutService, rankService, clubService)

	// Start the fixed-time bonus scheduler
	scheduler := services.NewBonusScheduler(matchingService, directService, infinityService)
	scheduler.Start()

	// Register the admin trigger routes
	routes.RegisterBonusRoutes(e, matchingService, directService, infinityService)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
