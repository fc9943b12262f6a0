// Package analytics keeps per-day meal counters fed by meal.* events.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"dailydiet/pkg/models"

	"github.com/jmoiron/sqlx"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	MetricDietOn  = "diet.on"
	MetricDietOff = "diet.off"
)

const handleTimeout = 10 * time.Second

// Consumer handles analytics events.
type Consumer struct {
	DB *sqlx.DB
}

// NewConsumer creates a new analytics consumer.
func NewConsumer(db *sqlx.DB) *Consumer {
	return &Consumer{DB: db}
}

// HandleMessage processes a meal event for analytics.
func (c *Consumer) HandleMessage(delivery amqp.Delivery) error {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	var event models.Event
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		log.Printf("[Analytics] Failed to unmarshal event: %v correlation_id=%s", err, delivery.CorrelationId)
		return err
	}

	var data models.MealEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		log.Printf("[Analytics] Failed to unmarshal %s payload: %v correlation_id=%s", event.EventType, err, event.CorrelationID)
		return err
	}

	log.Printf("[Analytics] Processing event: type=%s event_id=%s correlation_id=%s meal_id=%s",
		event.EventType, event.EventID, event.CorrelationID, data.MealID)

	// Idempotency check
	var exists bool
	err := c.DB.GetContext(ctx, &exists, c.DB.Rebind("SELECT EXISTS(SELECT 1 FROM idempotency_keys WHERE event_id = ?)"), event.EventID)
	if err != nil {
		log.Printf("[Analytics] Error checking idempotency: %v correlation_id=%s", err, event.CorrelationID)
		return err
	}
	if exists {
		log.Printf("[Analytics] Duplicate event ignored: event_id=%s correlation_id=%s", event.EventID, event.CorrelationID)
		return nil
	}

	metricDate := event.Timestamp.UTC().Format("2006-01-02")
	metrics := []string{string(event.EventType)}
	if data.Diet != nil {
		if *data.Diet {
			metrics = append(metrics, MetricDietOn)
		} else {
			metrics = append(metrics, MetricDietOff)
		}
	}

	if err := c.record(ctx, event.EventID, metricDate, metrics); err != nil {
		log.Printf("[Analytics] Error upserting metrics: %v correlation_id=%s", err, event.CorrelationID)
		return err
	}

	log.Printf("[Analytics] Metrics updated: date=%s metrics=%v correlation_id=%s",
		metricDate, metrics, event.CorrelationID)

	return nil
}

// record applies every increment and the idempotency key in one transaction,
// so a redelivered event is either fully counted or not counted at all.
func (c *Consumer) record(ctx context.Context, eventID, metricDate string, metrics []string) error {
	tx, err := c.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, metric := range metrics {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO meal_metrics (metric_date, metric, count)
			 VALUES (?, ?, 1)
			 ON CONFLICT (metric_date, metric)
			 DO UPDATE SET count = meal_metrics.count + 1`),
			metricDate, metric,
		)
		if err != nil {
			return fmt.Errorf("increment %s on %s: %w", metric, metricDate, err)
		}
	}

	// Record idempotency key
	if _, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO idempotency_keys (event_id) VALUES (?) ON CONFLICT DO NOTHING"), eventID); err != nil {
		return fmt.Errorf("record idempotency key: %w", err)
	}

	return tx.Commit()
}
