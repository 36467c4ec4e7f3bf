package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"vtt-bridge/internal/bridge"
	"vtt-bridge/internal/infrastructure/logger"
)

// Handler upgrades inbound HTTP requests into bridge connections.
type Handler struct {
	dispatcher *bridge.Dispatcher
	logger     logger.Logger
	opts       bridge.ConnOptions
	upgrader   websocket.Upgrader
}

func NewHandler(dispatcher *bridge.Dispatcher, log logger.Logger, opts bridge.ConnOptions) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		logger:     log.WithField("handler", "websocket"),
		opts:       opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The tabletop client connects from its own origin;
				// the bridge carries no credentials to protect.
				return true
			},
		},
	}
}

// Connect upgrades the request and registers the connection with the bridge.
// It blocks until the client disconnects.
func (h *Handler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("failed to upgrade connection: %v", err)
		return
	}

	id := bridge.NewConnectionID()
	wsConn := bridge.NewWebSocketConnection(id, conn, h.dispatcher.HandleInbound, h.logger, h.opts)

	h.dispatcher.Registry().Register(wsConn)
	h.logger.Infof("client %s connected from %s", id, c.Request.RemoteAddr)

	<-wsConn.Context().Done()
	h.logger.Infof("client %s disconnected", id)
}

// Connections reports the currently connected clients.
func (h *Handler) Connections(c *gin.Context) {
	registry := h.dispatcher.Registry()

	info := make([]gin.H, 0, registry.Count())
	registry.ForEach(func(conn bridge.Connection) {
		info = append(info, gin.H{
			"id":     conn.ID(),
			"closed": conn.IsClosed(),
		})
	})

	c.JSON(http.StatusOK, gin.H{
		"total_connections": len(info),
		"connections":       info,
		"pending_calls":     h.dispatcher.PendingCalls(),
	})
}
