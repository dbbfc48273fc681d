package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"iothome/internal/hub"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterWSRoutes wires the live-update WebSocket endpoint. A connection is
// subscribed to the hub for its lifetime; received text is echoed back.
func RegisterWSRoutes(r *gin.Engine, h *hub.Hub) {
	r.GET("/ws", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		h.Subscribe(conn)
		defer func() {
			h.Unsubscribe(conn)
			conn.Close()
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			h.Send(conn, []byte("Echo: "+string(msg)))
		}
	})
}
