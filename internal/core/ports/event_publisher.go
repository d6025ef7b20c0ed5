package ports

import (
	"context"

	"quetzalship/internal/core/domain/model/order"
)

// OrderEventPublisher notifies interested parties of order state changes.
// Publishing happens after the owning transaction commits; a publish failure
// must not undo the state change, so implementations log and move on.
type OrderEventPublisher interface {
	// PublishOrderCreated announces a newly created order.
	PublishOrderCreated(ctx context.Context, aggregate *order.Order) error

	// PublishOrderCancelled announces an order cancellation.
	PublishOrderCancelled(ctx context.Context, aggregate *order.Order) error
}
