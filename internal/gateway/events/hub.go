// Package events fans out gateway events (new incidents, escalations)
// to websocket subscribers.
package events

import (
	"context"
	"sync"

	"safespot/internal/incident"
)

const (
	TypeIncidentAdded = "incident_added"
	TypeEscalation    = "escalation"
)

// Event is one broadcast message.
type Event struct {
	Type      string           `json:"type"`
	Incident  *incident.Record `json:"incident,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Timestamp int64            `json:"timestamp"`
}

// Hub is an in-process broadcast channel. Subscribers that fall
// behind have events dropped rather than blocking publishers.
type Hub struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber whose channel closes when ctx is
// canceled.
func (h *Hub) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 32)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish delivers evt to every subscriber, dropping it for any
// subscriber whose buffer is full.
func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = incident.NowMillis()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// PublishIncidentAdded broadcasts a newly stored record.
func (h *Hub) PublishIncidentAdded(rec incident.Record) {
	r := rec
	h.Publish(Event{Type: TypeIncidentAdded, Incident: &r})
}

// PublishEscalation broadcasts a human-review escalation.
func (h *Hub) PublishEscalation(reason string) {
	h.Publish(Event{Type: TypeEscalation, Reason: reason})
}
