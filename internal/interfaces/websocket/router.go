package websocket

import (
	"github.com/gin-gonic/gin"

	"vtt-bridge/internal/bridge"
	"vtt-bridge/internal/infrastructure/logger"
)

// InitRouter mounts the websocket endpoint and its info route.
func InitRouter(
	log logger.Logger,
	dispatcher *bridge.Dispatcher,
	opts bridge.ConnOptions,
	rg *gin.RouterGroup,
) {
	h := NewHandler(dispatcher, log, opts)

	rg.GET("/ws", h.Connect)
	rg.GET("/api/v1/connections", h.Connections)
}
