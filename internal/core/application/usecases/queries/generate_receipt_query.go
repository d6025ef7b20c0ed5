package queries

import (
	"errors"
	"time"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/pkg/guard"
)

var ErrGenerateReceiptQueryIsNotConstructed = errors.New(
	"GenerateReceiptQuery must be created via NewGenerateReceiptQuery constructor",
)

// GenerateReceiptQuery renders a customer-facing receipt for an order.
// Receipts are generated on read from the stored order; they are never
// persisted.
type GenerateReceiptQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID

	guard guard.ConstructorGuard
}

// NewGenerateReceiptQuery creates a receipt query for the given order.
func NewGenerateReceiptQuery(orderID kernel.OrderID) (GenerateReceiptQuery, error) {
	query := GenerateReceiptQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return GenerateReceiptQuery{}, err
	}
	query.orderID = orderID

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGenerateReceiptQueryIsNotConstructed if validation fails.
func (q GenerateReceiptQuery) Validate() error {
	return q.guard.Validate(ErrGenerateReceiptQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to issue a receipt for.
func (q GenerateReceiptQuery) OrderID() kernel.OrderID {
	return q.orderID
}

// GenerateReceiptQueryResponse is a rendered receipt plus the view it was
// built from.
type GenerateReceiptQueryResponse struct {
	OrderID  kernel.OrderID
	IssuedAt time.Time
	Text     string
	Order    OrderView
}
