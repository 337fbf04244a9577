package service

import (
	"context"
	"time"

	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessagePublisher sends a JSON-encodable payload under a routing key.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

type TransactionEvent struct {
	EventID       string            `json:"event_id"`
	Event         EventKind         `json:"event"`
	TransactionID int64             `json:"transaction_id"`
	OccurredAt    time.Time         `json:"occurred_at"`
	Transaction   *EventTransaction `json:"transaction,omitempty"`
}

type EventTransaction struct {
	ID              int64       `json:"id"`
	Amount          string      `json:"amount"`
	Type            string      `json:"type"`
	Category        string      `json:"category"`
	Description     *string     `json:"description"`
	TransactionDate models.Date `json:"transaction_date"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// EventEmitter announces committed transaction changes. A nil emitter, or
// one without a publisher, does nothing.
type EventEmitter struct {
	publisher MessagePublisher
	prefix    string
	logger    *zap.Logger
	now       func() time.Time
}

func NewEventEmitter(publisher MessagePublisher, routingKeyPrefix string, logger *zap.Logger) *EventEmitter {
	return &EventEmitter{
		publisher: publisher,
		prefix:    routingKeyPrefix,
		logger:    logger,
		now:       time.Now,
	}
}

func (e *EventEmitter) RoutingKey(kind EventKind) string {
	if e.prefix == "" {
		return string(kind)
	}
	return e.prefix + "." + string(kind)
}

// Emit never fails the caller: publish errors are only logged.
func (e *EventEmitter) Emit(ctx context.Context, kind EventKind, id int64, tx *models.Transaction) {
	if e == nil || e.publisher == nil {
		return
	}

	event := TransactionEvent{
		EventID:       uuid.NewString(),
		Event:         kind,
		TransactionID: id,
		OccurredAt:    e.now().UTC(),
	}
	if tx != nil {
		event.Transaction = &EventTransaction{
			ID:              tx.ID,
			Amount:          tx.Amount.StringFixed(2),
			Type:            string(tx.Type),
			Category:        string(tx.Category),
			Description:     tx.Description,
			TransactionDate: tx.TransactionDate,
			CreatedAt:       tx.CreatedAt,
			UpdatedAt:       tx.UpdatedAt,
		}
	}

	if err := e.publisher.Publish(ctx, e.RoutingKey(kind), event); err != nil {
		e.logger.Warn("Failed to publish transaction event",
			zap.String("event", string(kind)),
			zap.Int64("transaction_id", id),
			zap.Error(err),
		)
	}
}
