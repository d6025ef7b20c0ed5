package kernel

import (
	"strings"

	"quetzalship/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrOrderIDIsNotConstructed indicates that an OrderID was not properly initialized
// through one of the constructor functions. This error is returned when validating
// a zero-value OrderID.
var ErrOrderIDIsNotConstructed = errs.NewValueIsRequiredError(
	"OrderID must be created via NewOrderID or OrderIDFromString",
)

// orderIDPrefix is the wire prefix carried by every order identifier.
const orderIDPrefix = "ORD-"

// OrderID is a value object that identifies an order. It wraps a random UUID
// (version 4) and renders with the "ORD-" prefix used everywhere the
// identifier leaves the process: API responses, receipts, and storage.
//
// The zero value of OrderID is invalid and must be constructed using one of
// the provided factory functions: NewOrderID or OrderIDFromString.
//
// OrderID is immutable and safe for concurrent use.
//
// Example usage:
//
//	// Generate an identifier for a new order
//	id := kernel.NewOrderID()
//	fmt.Println(id.String()) // e.g. "ORD-550e8400-e29b-41d4-a716-446655440000"
//
//	// Reconstruct from its string representation
//	id, err := kernel.OrderIDFromString("ORD-550e8400-e29b-41d4-a716-446655440000")
//	if err != nil {
//	    // handle error
//	}
type OrderID struct {
	id uuid.UUID
}

// NewOrderID generates a new random order identifier.
// The generated identifier is guaranteed to be unique with extremely
// high probability.
func NewOrderID() OrderID {
	return OrderID{
		id: uuid.New(),
	}
}

// OrderIDFromString parses an order identifier from its string representation.
// The "ORD-" prefix is required; the remainder must be a valid UUID.
//
// This function is typically used when reconstructing orders from persistence
// or when parsing identifiers arriving from clients.
func OrderIDFromString(s string) (OrderID, error) {
	if !strings.HasPrefix(s, orderIDPrefix) {
		return OrderID{}, errs.NewValueIsInvalidError("orderId must start with " + orderIDPrefix)
	}

	id, err := uuid.Parse(strings.TrimPrefix(s, orderIDPrefix))
	if err != nil {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}

	return OrderID{id: id}, nil
}

// OrderIDFromUUID wraps a raw UUID loaded from storage, where identifiers
// are kept without the wire prefix. A nil UUID is rejected.
func OrderIDFromUUID(id uuid.UUID) (OrderID, error) {
	if id == uuid.Nil {
		return OrderID{}, errs.NewValueIsRequiredError("orderId")
	}

	return OrderID{id: id}, nil
}

// String returns the prefixed string representation of the identifier,
// e.g. "ORD-550e8400-e29b-41d4-a716-446655440000".
func (o OrderID) String() string {
	return orderIDPrefix + o.id.String()
}

// UUID returns the underlying UUID without the prefix. It is used by
// persistence adapters that store the identifier as a native uuid column.
func (o OrderID) UUID() uuid.UUID {
	return o.id
}

// IsEqual compares two order identifiers for equality.
func (o OrderID) IsEqual(other OrderID) bool {
	return o.id == other.id
}

// Validate checks if the OrderID is properly constructed.
// Returns ErrOrderIDIsNotConstructed if the OrderID is a zero value.
func (o OrderID) Validate() error {
	if o.id == uuid.Nil {
		return ErrOrderIDIsNotConstructed
	}
	return nil
}
