package progress

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// listenerBuffer absorbs short bursts so a briefly-busy listener does
// not lose mid-batch events.
const listenerBuffer = 16

// Hub fans events out to every currently-subscribed listener.
// Delivery is synchronous with Publish but isolated per listener: a
// full or abandoned channel drops the event with a log line and never
// blocks the publisher or the other listeners.
type Hub struct {
	mu        sync.RWMutex
	listeners map[string]chan Event
	logger    *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		listeners: make(map[string]chan Event),
		logger:    logger.With("component", "progress_hub"),
	}
}

// Subscribe registers a listener and immediately delivers the
// synthetic connected acknowledgment. Earlier events are not replayed.
func (h *Hub) Subscribe() (string, <-chan Event) {
	id := uuid.New().String()
	ch := make(chan Event, listenerBuffer)

	h.mu.Lock()
	h.listeners[id] = ch
	h.mu.Unlock()

	ch <- Connected()

	h.logger.Debug("listener subscribed", "listener_id", id)
	return id, ch
}

// Unsubscribe removes and closes a listener channel. Safe to call for
// an already-removed id.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	ch, ok := h.listeners[id]
	if ok {
		delete(h.listeners, id)
	}
	h.mu.Unlock()

	if ok {
		close(ch)
		h.logger.Debug("listener unsubscribed", "listener_id", id)
	}
}

// Publish fans the event out to every current listener. The read lock
// is held across the sends so Unsubscribe cannot close a channel
// mid-delivery; the sends are non-blocking, so the lock is only held
// for as long as the fan-out itself takes.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("listener too slow, dropping event",
				"listener_id", id, "event_type", ev.Type)
		}
	}
}

// ListenerCount reports how many listeners are currently subscribed.
func (h *Hub) ListenerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
