package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"crm-parser-service/internal/contextkeys"
	"crm-parser-service/internal/core/domain"
	"crm-parser-service/internal/core/port"
	"crm-parser-service/pkg/rabbitmq/rabbitmq_producer"
)

// RabbitMQListingEventsQueueAdapter для отправки событий сверки объявлений
type RabbitMQListingEventsQueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewRabbitMQListingEventsQueueAdapter создает новый экземпляр
func NewRabbitMQListingEventsQueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*RabbitMQListingEventsQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routingKey cannot be empty")
	}

	return &RabbitMQListingEventsQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// Enqueue отправляет событие сверки в очередь
func (a *RabbitMQListingEventsQueueAdapter) Enqueue(ctx context.Context, event domain.ListingEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "RabbitMQListingEventsQueueAdapter",
		"routing_key": a.routingKey,
	})

	eventDTO := ListingEventDTO{
		EventID:    uuid.NewString(),
		Outcome:    string(event.Outcome),
		Source:     event.Source,
		ExternalID: event.ExternalID,
		Link:       event.Link,
		OccurredAt: event.OccurredAt,
	}

	eventJSON, err := json.Marshal(eventDTO)
	if err != nil {
		adapterLogger.Error("Failed to marshal listing event to JSON", err, nil)
		return fmt.Errorf("failed to marshal listing event for %s: %w", event.ExternalID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    "ListingReconciledEvent",
			"event-version": "1.0.0",
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = a.producer.Publish(publishCtx, a.routingKey, msg)
	if err != nil {
		adapterLogger.Error("Failed to publish listing event", err, nil)
		return err
	}

	adapterLogger.Debug("Successfully published listing event", port.Fields{
		"outcome":     string(event.Outcome),
		"external_id": event.ExternalID,
	})
	return nil
}
