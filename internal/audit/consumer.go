// Package audit records registrations and login attempts from user.* events.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"dailydiet/pkg/models"

	"github.com/jmoiron/sqlx"
	amqp "github.com/rabbitmq/amqp091-go"
)

const handleTimeout = 10 * time.Second

// Consumer handles account audit events.
type Consumer struct {
	DB *sqlx.DB
}

// NewConsumer creates a new audit consumer.
func NewConsumer(db *sqlx.DB) *Consumer {
	return &Consumer{DB: db}
}

// HandleMessage writes one audit row per account event.
func (c *Consumer) HandleMessage(delivery amqp.Delivery) error {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	var event models.Event
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		log.Printf("[Audit] Failed to unmarshal event: %v correlation_id=%s", err, delivery.CorrelationId)
		return err
	}

	var data models.AccountEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		log.Printf("[Audit] Failed to unmarshal %s payload: %v correlation_id=%s", event.EventType, err, event.CorrelationID)
		return err
	}

	log.Printf("[Audit] Processing event: type=%s event_id=%s correlation_id=%s session_id=%s",
		event.EventType, event.EventID, event.CorrelationID, data.SessionID)

	// Idempotency check
	var exists bool
	err := c.DB.GetContext(ctx, &exists, c.DB.Rebind("SELECT EXISTS(SELECT 1 FROM idempotency_keys WHERE event_id = ?)"), event.EventID)
	if err != nil {
		log.Printf("[Audit] Error checking idempotency: %v correlation_id=%s", err, event.CorrelationID)
		return err
	}
	if exists {
		log.Printf("[Audit] Duplicate event ignored: event_id=%s correlation_id=%s", event.EventID, event.CorrelationID)
		return nil // Already processed, ack it
	}

	_, err = c.DB.ExecContext(ctx, c.DB.Rebind(
		`INSERT INTO account_audit_log (event_id, correlation_id, event_type, session_id, email, matched)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (event_id) DO NOTHING`),
		event.EventID, event.CorrelationID, string(event.EventType),
		data.SessionID, data.Email, data.Matched,
	)
	if err != nil {
		log.Printf("[Audit] Error writing audit log: %v correlation_id=%s", err, event.CorrelationID)
		return err
	}

	// Record idempotency key
	if _, err := c.DB.ExecContext(ctx, c.DB.Rebind("INSERT INTO idempotency_keys (event_id) VALUES (?) ON CONFLICT DO NOTHING"), event.EventID); err != nil {
		log.Printf("[Audit] Error recording idempotency key: %v correlation_id=%s", err, event.CorrelationID)
	}

	log.Printf("[Audit] Recorded: event_id=%s type=%s email=%s matched=%t correlation_id=%s",
		event.EventID, event.EventType, data.Email, data.Matched, event.CorrelationID)

	return nil
}
