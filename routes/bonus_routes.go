package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/astrixglobal/astrix_backend/controllers"
	"github.com/astrixglobal/astrix_backend/middleware"
	"github.com/astrixglobal/astrix_backend/services"
)

// RegisterBonusRoutes registers the admin bonus trigger routes
func RegisterBonusRoutes(e *echo.Echo, matching *services.MatchingBonusService, direct *services.DirectSalesService, infinity *services.InfinityBonusService) {
	bonusController := controllers.NewBonusController(matching, direct, infinity)

	bonusGroup := e.Group("/api/admin/bonus")
	bonusGroup.Use(middleware.JWTMiddleware())
	bonusGroup.Use(middleware.RequireAdmin())

	bonusGroup.POST("/matching", bonusController.RunMatchingBonus)
	bonusGroup.POST("/direct-sales", bonusController.RunDirectSalesBonus)
	bonusGroup.POST("/infinity", bonusController.RunInfinityBonus)
	bonusGroup.POST("/daily", bonusController.RunDailyJob)
	bonusGroup.POST("/fortnightly", bonusController.RunFortnightlyJob)
}
