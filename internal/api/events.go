package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Events streams progress over Server-Sent Events. The connection
// stays open until the client goes away; every hub event is one SSE
// data frame.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	id, events := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	h.logger.Info("sse client connected", "listener_id", id)

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("sse client disconnected", "listener_id", id)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("failed to marshal event", "error", err, "event_id", ev.ID)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				h.logger.Warn("sse write failed", "error", err, "listener_id", id)
				return
			}
			flusher.Flush()
		}
	}
}
