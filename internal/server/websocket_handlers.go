package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/tempo/internal/probe"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketMessage is a message sent over the measurement feed.
type WebSocketMessage struct {
	Type    string            `json:"type"`
	Payload probe.Measurement `json:"payload"`
}

// measurementsWebSocketHandler streams every new measurement to the client.
func (s *Server) measurementsWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	measurements, cancel := s.runner.Subscribe()
	defer cancel()

	// Drain client frames so close and pong frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			websocketMessagesTotal.WithLabelValues("received").Inc()
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		case m := <-measurements:
			if err := s.writeMeasurement(conn, m); err != nil {
				slog.Error("Failed to write measurement to WebSocket", "error", err)
				return
			}
		}
	}
}

// writeMeasurement sends one measurement as a JSON text frame.
func (s *Server) writeMeasurement(conn *websocket.Conn, m probe.Measurement) error {
	msg := WebSocketMessage{
		Type:    "measurement",
		Payload: m,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
	return conn.WriteMessage(websocket.TextMessage, data)
}
