package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"vitalog/internal/logger"
	"vitalog/internal/repository"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

// handleWS streams document change events for the authenticated user's
// documents over a websocket, the live-subscription channel the SPA
// listens on.
func (s *Server) handleWS(c *gin.Context) {
	uid := currentUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events, cancel, err := s.store.Watch(c.Request.Context(), repository.UserPrefix(uid))
	if err != nil {
		logger.Error("Failed to open change subscription", "error", err, "user_id", uid)
		_ = conn.Close()
		return
	}

	done := make(chan struct{})

	// writer: document changes plus keepalive pings
	go func() {
		defer cancel()
		ticker := time.NewTicker(25 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					_ = conn.Close()
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	_ = conn.Close()
}
