package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vtt-bridge/internal/bridge"
	"vtt-bridge/internal/infrastructure/config"
	"vtt-bridge/internal/infrastructure/logger"
	"vtt-bridge/internal/interfaces/rest/v1/handler"
	"vtt-bridge/internal/interfaces/websocket"
	"vtt-bridge/internal/vtt"
)

func InitRouter(dispatcher *bridge.Dispatcher, cfg *config.Config, log logger.Logger) http.Handler {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	rootGroup := router.Group("")

	rootGroup.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "healthy",
			"connections":   dispatcher.Registry().Count(),
			"pending_calls": dispatcher.PendingCalls(),
		})
	})

	docs := handler.NewDocumentsHandler(
		vtt.NewActors(dispatcher),
		vtt.NewItems(dispatcher),
		vtt.NewJournals(dispatcher),
		vtt.NewScenes(dispatcher),
		log,
	)
	docs.RegisterRoutes(rootGroup.Group("/api/v1"))

	connOpts := bridge.ConnOptions{
		WriteTimeout: cfg.WriteTimeout,
		PongTimeout:  cfg.PongTimeout,
		SendBuffer:   cfg.SendBuffer,
	}
	websocket.InitRouter(log, dispatcher, connOpts, rootGroup)

	return router
}
