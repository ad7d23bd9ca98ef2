package http

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(RequestID(), AccessLog("/health"))

	api := router.Group("/api/v1")
	{
		api.GET("/info", handler.ListInfo)
		api.GET("/info/:ticker", handler.GetInfo)

		api.GET("/price", handler.ListPrice)
		api.GET("/price/:ticker", handler.GetPrice)

		api.GET("/ticks", handler.ListTicks)
		api.GET("/ticks/:ticker", handler.GetTicks)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
