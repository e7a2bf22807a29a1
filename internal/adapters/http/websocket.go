package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/jfkcannabis/storefront/internal/pkg/metrics"
)

const (
	maxPreviewBytes = 64 * 1024
	pingInterval    = 30 * time.Second
)

// previewRequest is sent by the editor on every change.
type previewRequest struct {
	Seq      int64  `json:"seq"`
	Markdown string `json:"markdown"`
}

// previewResponse echoes the sequence number so the client can drop stale renders.
type previewResponse struct {
	Seq   int64  `json:"seq"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

// PreviewSocketHandler renders markdown sent over a WebSocket and replies with
// sanitized HTML. Clients send {"seq":1,"markdown":"..."}.
func PreviewSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Debug("ws preview connected", "remote", remoteAddr)

		var mu sync.Mutex
		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(pingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var req previewRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				_ = writeJSON(previewResponse{Error: "invalid JSON"})
				continue
			}
			if len(req.Markdown) > maxPreviewBytes {
				_ = writeJSON(previewResponse{Seq: req.Seq, Error: "markdown too large"})
				continue
			}

			if err := writeJSON(previewResponse{Seq: req.Seq, HTML: deps.Content.Preview("ws", req.Markdown)}); err != nil {
				break
			}
		}

		slog.Debug("ws preview disconnected", "remote", remoteAddr)
	}
}
