package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/SoarAway/donki-wonki/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type RealtimeController struct {
	hub *services.RealtimeHub
}

func NewRealtimeController(hub *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{hub: hub}
}

// Alerts upgrades the connection and subscribes it to alert events
// for the caller's device token.
func (rc *RealtimeController) Alerts(c *gin.Context) {
	token := c.Query("device_token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_token query parameter is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &services.WSClient{DeviceToken: token, Conn: conn}
	rc.hub.Register(client)

	// Reads are discarded; the socket exists for server pushes. Exit
	// unregisters on client disconnect.
	go func() {
		defer rc.hub.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
