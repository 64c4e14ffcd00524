package events

import (
	"context"
	"sync"
	"time"

	"calendar-order-api/internal/models"
)

// EventType represents the type of event.
type EventType string

const (
	// EventOrderPlaced is emitted when an order is successfully placed
	EventOrderPlaced EventType = "order.placed"
	// EventOfferDaysUpdated is emitted when offer days are upserted
	EventOfferDaysUpdated EventType = "offer.updated"
	// EventGridViewed is emitted when a month grid is served
	EventGridViewed EventType = "grid.viewed"
)

// Event represents an event in the system.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// OrderPlacedData contains data for order placed events.
type OrderPlacedData struct {
	Order models.Order
}

// OfferDaysUpdatedData contains data for offer day upsert events.
type OfferDaysUpdatedData struct {
	Days  []models.OfferDay
	Count int
}

// GridViewedData contains data for grid viewed events.
type GridViewedData struct {
	Month    string
	CellsHit int
	ViewedAt time.Time
}

// Handler is a function that handles events.
type Handler func(ctx context.Context, event Event) error

// Manager manages event handlers and event publishing.
type Manager struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	enabled  bool
}

// NewManager creates a new event manager.
func NewManager(enabled bool) *Manager {
	return &Manager{
		handlers: make(map[EventType][]Handler),
		enabled:  enabled,
	}
}

// Subscribe subscribes a handler to a specific event type.
func (m *Manager) Subscribe(eventType EventType, handler Handler) {
	if !m.enabled {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[eventType] = append(m.handlers[eventType], handler)
}

// Publish publishes an event to all subscribed handlers. Handlers run
// asynchronously so publishing never blocks the request path.
func (m *Manager) Publish(ctx context.Context, eventType EventType, data interface{}) {
	if !m.enabled {
		return
	}

	m.mu.RLock()
	handlers := m.handlers[eventType]
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	for _, handler := range handlers {
		go func(h Handler) {
			if err := h(ctx, event); err != nil {
				_ = err
			}
		}(handler)
	}
}

// PublishOrderPlaced publishes an order placed event.
func (m *Manager) PublishOrderPlaced(ctx context.Context, order models.Order) {
	m.Publish(ctx, EventOrderPlaced, OrderPlacedData{Order: order})
}

// PublishOfferDaysUpdated publishes an offer days updated event.
func (m *Manager) PublishOfferDaysUpdated(ctx context.Context, days []models.OfferDay, count int) {
	m.Publish(ctx, EventOfferDaysUpdated, OfferDaysUpdatedData{
		Days:  days,
		Count: count,
	})
}

// PublishGridViewed publishes a grid viewed event.
func (m *Manager) PublishGridViewed(ctx context.Context, month string, cells int) {
	m.Publish(ctx, EventGridViewed, GridViewedData{
		Month:    month,
		CellsHit: cells,
		ViewedAt: time.Now(),
	})
}

// Shutdown shuts down the event manager.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = false
	m.handlers = make(map[EventType][]Handler)
}
