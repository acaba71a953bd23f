package api

import (
	ws "github.com/anhnphe171575/SepCapstone-sub005/internal/websocket"
	"github.com/gin-gonic/gin"
)

type WebSocketHandler struct {
	session *ws.Session
	hub     *ws.Hub
}

func NewWebSocketHandler(session *ws.Session, hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		session: session,
		hub:     hub,
	}
}

// HandleWebSocket upgrades the connection for real-time chat
// @Summary WebSocket connection endpoint
// @Description Upgrade HTTP connection to WebSocket for real-time messaging and presence
// @Tags websocket
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Router /ws [get]
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	ws.Serve(h.session, h.hub, c.Writer, c.Request)
}
