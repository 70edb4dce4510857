package handler

import (
	"io"
	"log"
	"net/http"
	"trackparty/backend/internal/database"
	"trackparty/backend/internal/hub"
	"trackparty/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client is served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RoomEvents godoc
// @Summary      Subscribe to room events (SSE)
// @Description  Streams room events (joins, round starts, results, ...) as server-sent events.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        code path string true "Room code"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{code}/events [get]
func RoomEvents(c *gin.Context) {
	code := c.Param("code")
	exists, err := roomExists(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up room"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	client := make(hub.Client, 16)
	eventHub.Subscribe(code, client)
	defer eventHub.Unsubscribe(code, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// RoomEventsWS godoc
// @Summary      Subscribe to room events (WebSocket)
// @Description  Streams the same room events as the SSE endpoint over a WebSocket.
// @Tags         events
// @Security     BearerAuth
// @Param        code path string true "Room code"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{code}/ws [get]
func RoomEventsWS(c *gin.Context) {
	code := c.Param("code")
	exists, err := roomExists(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up room"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("handler: websocket upgrade failed: %v", err)
		return
	}

	client := make(hub.Client, 16)
	eventHub.Subscribe(code, client)

	// Reader: the feed is one-way, but reading is required to notice closes.
	go func() {
		defer eventHub.Unsubscribe(code, client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Writer: pump hub messages until the client is unsubscribed.
	go func() {
		defer conn.Close()
		for msg := range client {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()
}

func roomExists(code string) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Room{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}
