package services

import (
	"context"
	"time"
)

// ProductSoldMessage is emitted once a paid checkout has been reconciled.
type ProductSoldMessage struct {
	ProductID         uint      `json:"product_id"`
	Slug              string    `json:"slug"`
	Name              string    `json:"name"`
	CheckoutSessionID string    `json:"checkout_session_id"`
	SoldAt            time.Time `json:"sold_at"`
}

// FulfillmentPublisher hands sold products over to fulfillment.
type FulfillmentPublisher interface {
	PublishProductSold(ctx context.Context, msg ProductSoldMessage) error
}
