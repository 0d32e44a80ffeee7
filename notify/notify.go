// Package notify delivers transient user-facing notifications (the toast
// surface) in publish order. A single worker drains a buffered channel into
// the subscribers, so a burst of failures cannot reorder or interleave.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const channelBuffer = 64

// Level classifies a notification for the rendering surface.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient message for the user.
type Notification struct {
	Level   Level
	Message string
}

// Hub fans notifications out to subscribers, preserving publish order.
type Hub struct {
	ch  chan Notification
	log zerolog.Logger

	mu   sync.RWMutex
	subs []func(Notification)
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		ch:  make(chan Notification, channelBuffer),
		log: log,
	}
}

// Subscribe registers a delivery callback. Callbacks run on the hub's worker
// goroutine and must not block.
func (h *Hub) Subscribe(fn func(Notification)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = append(h.subs, fn)
}

// Publish enqueues a notification without blocking. When the buffer is full
// the notification is dropped: toasts are transient by contract.
func (h *Hub) Publish(n Notification) {
	select {
	case h.ch <- n:
	default:
		h.log.Warn().Str("level", string(n.Level)).Msg("notification buffer full, dropping")
	}
}

// Success publishes a success-level notification.
func (h *Hub) Success(msg string) { h.Publish(Notification{Level: LevelSuccess, Message: msg}) }

// Error publishes an error-level notification.
func (h *Hub) Error(msg string) { h.Publish(Notification{Level: LevelError, Message: msg}) }

// Start launches the delivery worker. It stops when ctx is cancelled.
func (h *Hub) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-h.ch:
				h.deliver(n)
			}
		}
	}()
}

func (h *Hub) deliver(n Notification) {
	h.mu.RLock()
	subs := make([]func(Notification), len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, fn := range subs {
		fn(n)
	}
}
