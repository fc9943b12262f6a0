// Package events turns domain changes into broker messages.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"dailydiet/pkg/middleware"
	"dailydiet/pkg/models"

	"github.com/google/uuid"
)

// Publisher defines the interface for publishing events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte, correlationID string) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, []byte, string) error { return nil }

// Emitter wraps domain payloads in an Event envelope and publishes them.
// Publishing is best effort: failures are logged, never returned.
type Emitter struct {
	pub Publisher
	now func() time.Time
}

// NewEmitter creates an Emitter. A nil publisher behaves like NopPublisher.
func NewEmitter(pub Publisher) *Emitter {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Emitter{pub: pub, now: time.Now}
}

// Emit publishes data under eventType, using the correlation ID found in ctx.
func (e *Emitter) Emit(ctx context.Context, eventType models.EventType, data any) {
	correlationID := middleware.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Events] Failed to marshal %s payload: %v correlation_id=%s", eventType, err, correlationID)
		return
	}

	event := models.Event{
		EventID:       uuid.New().String(),
		CorrelationID: correlationID,
		EventType:     eventType,
		Timestamp:     e.now().UTC(),
		Data:          payload,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Events] Failed to marshal %s event: %v correlation_id=%s", eventType, err, correlationID)
		return
	}

	// Don't fail the request: the write already happened.
	if err := e.pub.Publish(ctx, string(eventType), body, correlationID); err != nil {
		log.Printf("[Events] Error publishing %s: %v correlation_id=%s", eventType, err, correlationID)
	}
}
