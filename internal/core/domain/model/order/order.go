package order

import (
	"errors"
	"fmt"
	"time"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order represents a shipment order in the system. It is the aggregate root that
// manages the order lifecycle from creation through cancellation.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and creation timestamp
//   - Must carry at least one package; packages are immutable after creation
//   - Origin zone, destination zone and service type must be valid
//   - The breakdown and total are fixed at creation time and never recomputed
//   - Status transitions only ACTIVE -> CANCELLED; CANCELLED is terminal
//   - The cancellation timestamp is set exactly once, on that transition
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.OrderID

	// createdAt is the creation timestamp, assigned once
	createdAt time.Time

	// originZone is where the shipment departs from
	originZone Zone

	// destinationZone determines the base pricing rate
	destinationZone Zone

	// serviceType determines the pricing multiplier
	serviceType ServiceType

	// packages is the ordered, non-empty list of parcels
	packages []Package

	// discount is the optional price reduction (kind NONE when absent)
	discount Discount

	// insuranceEnabled indicates whether insurance was purchased
	insuranceEnabled bool

	// status is the current state in the order lifecycle
	status Status

	// breakdown is the itemized pricing result computed at creation
	breakdown Breakdown

	// total is the final priced amount, equal to breakdown.Total
	total float64

	// cancelledAt is set exactly once, on the ACTIVE -> CANCELLED transition
	cancelledAt *time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in ACTIVE status with the given priced breakdown.
// This is the only way to create a new order, ensuring all business invariants
// are maintained.
//
// Parameters:
//   - id: unique identifier for the order
//   - createdAt: creation timestamp (must not be zero)
//   - originZone, destinationZone: valid zones
//   - serviceType: valid service type
//   - packages: at least one validated package
//   - discount: validated discount (use NoDiscount for none)
//   - insuranceEnabled: whether insurance was purchased
//   - breakdown: the pricing result; the order total is taken from it
//
// Returns the created order, or a validation error if any parameter is invalid.
func NewOrder(
	id kernel.OrderID,
	createdAt time.Time,
	originZone Zone,
	destinationZone Zone,
	serviceType ServiceType,
	packages []Package,
	discount Discount,
	insuranceEnabled bool,
	breakdown Breakdown,
) (*Order, error) {
	order := &Order{
		createdAt:        createdAt,
		insuranceEnabled: insuranceEnabled,
		breakdown:        breakdown,
		total:            breakdown.Total,
		status:           StatusActive,
		isConstructed:    true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCreatedAt(createdAt),
		order.setOriginZone(originZone),
		order.setDestinationZone(destinationZone),
		order.setServiceType(serviceType),
		order.setPackages(packages),
		order.setDiscount(discount),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persistent storage, including its
// current status and optional cancellation timestamp. Unlike NewOrder, which
// always produces an ACTIVE order, this constructor restores a previously
// persisted state without re-running creation-time business rules.
func RestoreOrder(
	id kernel.OrderID,
	createdAt time.Time,
	originZone Zone,
	destinationZone Zone,
	serviceType ServiceType,
	packages []Package,
	discount Discount,
	insuranceEnabled bool,
	breakdown Breakdown,
	status Status,
	cancelledAt *time.Time,
) (*Order, error) {
	order, err := NewOrder(
		id, createdAt, originZone, destinationZone, serviceType,
		packages, discount, insuranceEnabled, breakdown,
	)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if status == StatusCancelled && cancelledAt == nil {
		return nil, errs.NewValueIsRequiredError("cancelledAt")
	}
	if status != StatusCancelled && cancelledAt != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"cancelledAt",
			fmt.Errorf("%s order cannot have a cancellation timestamp", status.String()),
		)
	}

	order.status = status
	order.cancelledAt = cancelledAt
	return order, nil
}

// Validate ensures the Order instance was properly constructed through a
// factory method. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.OrderID {
	return o.id
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// OriginZone returns the zone the shipment departs from.
func (o *Order) OriginZone() Zone {
	return o.originZone
}

// DestinationZone returns the zone the shipment is delivered to.
func (o *Order) DestinationZone() Zone {
	return o.destinationZone
}

// ServiceType returns the selected delivery speed tier.
func (o *Order) ServiceType() ServiceType {
	return o.serviceType
}

// Packages returns a copy of the order's packages. The order's own list
// cannot be mutated through the returned slice.
func (o *Order) Packages() []Package {
	packages := make([]Package, len(o.packages))
	copy(packages, o.packages)
	return packages
}

// Discount returns the order's discount (kind NONE when no discount applies).
func (o *Order) Discount() Discount {
	return o.discount
}

// InsuranceEnabled reports whether insurance was purchased.
func (o *Order) InsuranceEnabled() bool {
	return o.insuranceEnabled
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Breakdown returns the itemized pricing result computed at creation.
func (o *Order) Breakdown() Breakdown {
	return o.breakdown
}

// Total returns the final priced amount.
func (o *Order) Total() float64 {
	return o.total
}

// CancelledAt returns the cancellation timestamp, or nil if the order has
// not been cancelled.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// Cancel transitions the order to CANCELLED and records the cancellation
// timestamp.
//
// Business rules:
//   - Only an ACTIVE order can be cancelled
//   - A second cancellation fails with a precondition error; it is never a no-op
//
// Returns nil on success, or the transition error otherwise.
func (o *Order) Cancel(at time.Time) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.cancelledAt = &at
	return nil
}

func (o *Order) setID(id kernel.OrderID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}

func (o *Order) setOriginZone(zone Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}
	o.originZone = zone
	return nil
}

func (o *Order) setDestinationZone(zone Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}
	o.destinationZone = zone
	return nil
}

func (o *Order) setServiceType(serviceType ServiceType) error {
	if err := serviceType.Validate(); err != nil {
		return err
	}
	o.serviceType = serviceType
	return nil
}

func (o *Order) setPackages(packages []Package) error {
	if len(packages) == 0 {
		return errs.NewValueIsRequiredError("packages")
	}

	for i, pkg := range packages {
		if err := pkg.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("packages[%d]", i), err)
		}
	}

	o.packages = make([]Package, len(packages))
	copy(o.packages, packages)
	return nil
}

func (o *Order) setDiscount(discount Discount) error {
	if err := discount.Validate(); err != nil {
		return err
	}
	o.discount = discount
	return nil
}
