package kds

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// Event types
const (
	EventNewOrder = "new-order"
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publisher delivers a message to whoever is listening right now. Publish
// must not block on delivery.
type Publisher interface {
	Publish(msg Message)
}

// Conn is the write side of a viewer connection. *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

const defaultBufferSize = 16

// Subscriber is the handle returned by Subscribe.
type Subscriber struct {
	conn      Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// Done is closed once the subscriber has been removed from the hub.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Hub fans messages out to every live subscriber. Delivery is at-most-once:
// a subscriber whose buffer is full, or that is already gone, misses the
// message and must refresh on its own.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
	bufferSize  int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]struct{}),
		bufferSize:  defaultBufferSize,
	}
}

// Subscribe registers conn and starts its writer goroutine.
func (h *Hub) Subscribe(conn Conn) *Subscriber {
	s := &Subscriber{
		conn: conn,
		send: make(chan []byte, h.bufferSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	go h.writeLoop(s)

	utils.InfoLogger.WithField("subscribers", count).Info("Viewer subscribed")
	return s
}

// Unsubscribe removes s and closes its connection. Safe to call twice.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[s]
	delete(h.subscribers, s)
	count := len(h.subscribers)
	h.mu.Unlock()

	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})

	if ok {
		utils.InfoLogger.WithField("subscribers", count).Info("Viewer unsubscribed")
	}
}

func (h *Hub) Publish(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("Error marshaling message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subscribers {
		select {
		case <-s.done:
		case s.send <- data:
		default:
			utils.InfoLogger.WithField("type", msg.Type).Warn("Viewer buffer full, message dropped")
		}
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close drops every subscriber. Used at shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for s := range h.subscribers {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		h.Unsubscribe(s)
	}
}

func (h *Hub) writeLoop(s *Subscriber) {
	for {
		select {
		case data := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				utils.ErrorLogger.WithError(err).Error("Error sending message to viewer")
				h.Unsubscribe(s)
				return
			}
		case <-s.done:
			return
		}
	}
}

// Fanout publishes to several sinks in order.
type Fanout []Publisher

func (f Fanout) Publish(msg Message) {
	for _, p := range f {
		p.Publish(msg)
	}
}
