// Package ports defines the contracts between the core and infrastructure:
// repositories, the unit of work, the idempotency ledger, event publishing
// and exchange-rate providers. These interfaces enable dependency inversion
// and testability.
package ports

import (
	"context"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns an object-not-found error when no order has that identifier.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)
}
