package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/sse"
)

const streamPingInterval = 30 * time.Second

type StreamHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	jwtService   jwt.Service
	hub          *sse.Hub
	pingInterval time.Duration
}

func NewStreamHandler(jwtService jwt.Service, hub *sse.Hub) StreamHandler {
	return &streamHandlerImpl{
		jwtService:   jwtService,
		hub:          hub,
		pingInterval: streamPingInterval,
	}
}

// Stream handles GET /stream?token=. EventSource cannot send headers, so the short-lived SSE token rides in the query.
func (h *streamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	slog.Debug("SSE client connected", "user_id", userID, "subscribers", h.hub.TotalSubscribers())

	fmt.Fprintf(w, "event: %s\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", sse.EventConnected, userID)
	flusher.Flush()

	keepalive := time.NewTicker(h.pingInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode SSE event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			slog.Debug("SSE client disconnected", "user_id", userID)
			return
		}
	}
}
