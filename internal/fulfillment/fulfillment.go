// Package fulfillment hands sold products over to the packing and shipping side.
package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"

	"sklep/internal/services"
	"sklep/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Broker is the message broker the publisher writes to.
type Broker interface {
	Publish(ctx context.Context, queue string, payload interface{}, messageID string) error
}

// Publisher implements services.FulfillmentPublisher on top of a Broker.
type Publisher struct {
	broker Broker
}

// NewPublisher creates a new Publisher.
func NewPublisher(broker Broker) *Publisher {
	return &Publisher{broker: broker}
}

// PublishProductSold queues the sale for fulfillment.
func (p *Publisher) PublishProductSold(ctx context.Context, msg services.ProductSoldMessage) error {
	return p.broker.Publish(ctx, rabbitmq.ProductSoldQueue, msg, uuid.NewString())
}

// HandleProductSold decodes a queued sale and logs the fulfillment request.
func HandleProductSold(msg amqp.Delivery) error {
	var sold services.ProductSoldMessage
	if err := json.Unmarshal(msg.Body, &sold); err != nil {
		return fmt.Errorf("failed to decode product.sold message %s: %w", msg.MessageId, err)
	}
	if sold.ProductID == 0 {
		return fmt.Errorf("product.sold message %s has no product_id", msg.MessageId)
	}
	zap.S().Infow("fulfillment requested",
		"message_id", msg.MessageId,
		"product_id", sold.ProductID,
		"slug", sold.Slug,
		"checkout_session_id", sold.CheckoutSessionID,
		"sold_at", sold.SoldAt,
	)
	return nil
}
