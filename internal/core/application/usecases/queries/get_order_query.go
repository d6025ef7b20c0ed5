// Package queries contains read-only operations over the order store.
// Implements the Query side of the CQRS architecture: handlers read the
// database directly and return view structs, bypassing the aggregate
// repositories used by commands.
package queries

import (
	"errors"
	"time"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order with its packages and pricing
// breakdown.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the order with the given identifier.
func NewGetOrderQuery(orderID kernel.OrderID) (GetOrderQuery, error) {
	query := GetOrderQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetOrderQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to fetch.
func (q GetOrderQuery) OrderID() kernel.OrderID {
	return q.orderID
}

func (q *GetOrderQuery) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// PackageView is the read model of a single parcel.
type PackageView struct {
	WeightKg      float64
	HeightCm      float64
	WidthCm       float64
	LengthCm      float64
	Fragile       bool
	DeclaredValue float64
}

// OrderView is the full read model of an order, including packages and the
// pricing breakdown frozen at creation time.
type OrderView struct {
	ID               kernel.OrderID
	CreatedAt        time.Time
	OriginZone       order.Zone
	DestinationZone  order.Zone
	ServiceType      order.ServiceType
	Packages         []PackageView
	DiscountKind     order.DiscountKind
	DiscountValue    float64
	InsuranceEnabled bool
	Status           order.Status
	Breakdown        order.Breakdown
	Total            float64
	CancelledAt      *time.Time
}
