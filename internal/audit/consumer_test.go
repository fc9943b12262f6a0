package audit

import (
	"encoding/json"
	"testing"
	"time"

	"dailydiet/pkg/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	amqp "github.com/rabbitmq/amqp091-go"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func makeDelivery(t *testing.T, eventID string, eventType models.EventType, data models.AccountEventData) amqp.Delivery {
	t.Helper()
	payload, _ := json.Marshal(data)
	body, _ := json.Marshal(models.Event{
		EventID:       eventID,
		CorrelationID: "corr-" + eventID,
		EventType:     eventType,
		Timestamp:     time.Now(),
		Data:          payload,
	})
	return amqp.Delivery{
		Body:          body,
		CorrelationId: "corr-" + eventID,
		RoutingKey:    string(eventType),
	}
}

func TestHandleMessage_Registered(t *testing.T) {
	db, mock := newMockDB(t)
	consumer := NewConsumer(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("evt-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec("INSERT INTO account_audit_log").
		WithArgs("evt-001", "corr-evt-001", "user.registered", "tok-1", "luan@example.com", true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec("INSERT INTO idempotency_keys").
		WithArgs("evt-001").
		WillReturnResult(sqlmock.NewResult(1, 1))

	delivery := makeDelivery(t, "evt-001", models.EventUserRegistered,
		models.AccountEventData{SessionID: "tok-1", Email: "luan@example.com", Matched: true})
	if err := consumer.HandleMessage(delivery); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestHandleMessage_FailedLogin(t *testing.T) {
	db, mock := newMockDB(t)
	consumer := NewConsumer(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("evt-002").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO account_audit_log").
		WithArgs("evt-002", "corr-evt-002", "user.logged_in", "tok-2", "ghost@example.com", false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO idempotency_keys").
		WithArgs("evt-002").
		WillReturnResult(sqlmock.NewResult(1, 1))

	delivery := makeDelivery(t, "evt-002", models.EventUserLoggedIn,
		models.AccountEventData{SessionID: "tok-2", Email: "ghost@example.com"})
	if err := consumer.HandleMessage(delivery); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestHandleMessage_DuplicateEvent(t *testing.T) {
	db, mock := newMockDB(t)
	consumer := NewConsumer(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("evt-dup").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	delivery := makeDelivery(t, "evt-dup", models.EventUserLoggedIn, models.AccountEventData{SessionID: "tok"})
	if err := consumer.HandleMessage(delivery); err != nil {
		t.Fatalf("expected no error for duplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	db, _ := newMockDB(t)
	consumer := NewConsumer(db)

	delivery := amqp.Delivery{
		Body:          []byte("not json"),
		CorrelationId: "corr-bad",
	}

	if err := consumer.HandleMessage(delivery); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}
