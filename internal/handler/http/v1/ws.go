package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shenikar/electricity_status_map/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Представления открываются с произвольных хостов, аутентификации нет
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Subscribe to the report change feed
// @Description Upgrade to a WebSocket connection delivering every newly stored report as a JSON event.
// @Tags Reports
// @Success 101 "Switching Protocols"
// @Router /ws/reports [get]
func (h *Handler) reportFeed(c *gin.Context) {
	log := h.logger.WithField("method", "reportFeed")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}

	client := realtime.NewClient(h.hub, conn)
	go client.WritePump()
	go client.ReadPump()
}
