package routes

import (
	"net/http"

	"github.com/cardroid/ruleta/internal/config"
	"github.com/cardroid/ruleta/internal/handlers"
	"github.com/cardroid/ruleta/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies holds the handlers mounted by the router
type HandlerDependencies struct {
	PrizeHandler *handlers.PrizeHandler
}

// SetupRouter sets up the router of the development stub API
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		api.GET("/spin-config", deps.PrizeHandler.SpinConfig)
		api.POST("/register", deps.PrizeHandler.Register)
		api.POST("/spin", deps.PrizeHandler.Spin)
		api.POST("/share", deps.PrizeHandler.Share)
	}

	return router
}
