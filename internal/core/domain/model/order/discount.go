package order

import (
	"errors"
	"fmt"

	"quetzalship/internal/pkg/errs"
	"quetzalship/internal/pkg/guard"
)

// ErrDiscountIsNotConstructed is returned when a Discount instance was not created
// through NewDiscount or NoDiscount. This ensures all discounts are properly validated.
var ErrDiscountIsNotConstructed = errors.New("Discount must be created via NewDiscount or NoDiscount")

// maxPercentDiscount caps percentage discounts; anything above is rejected.
const maxPercentDiscount = 35.0

// DiscountKind enumerates the supported discount semantics.
type DiscountKind int

const (
	// DiscountKindUnknown represents an invalid or undefined discount kind.
	DiscountKindUnknown DiscountKind = iota

	// DiscountKindNone means no discount applies. A NONE discount carries no
	// value and has no pricing effect.
	DiscountKindNone

	// DiscountKindPercent subtracts a percentage of the surcharge-adjusted
	// subtotal. The value is constrained to [0, 35].
	DiscountKindPercent

	// DiscountKindFixed subtracts a flat amount. The value must be >= 0.
	DiscountKindFixed
)

// getDiscountKindStrings returns a map of DiscountKind values to their string representations.
func getDiscountKindStrings() map[DiscountKind]string {
	return map[DiscountKind]string{
		DiscountKindUnknown: "UNKNOWN",
		DiscountKindNone:    "NONE",
		DiscountKindPercent: "PERCENT",
		DiscountKindFixed:   "FIXED",
	}
}

// getValidDiscountKindStrings returns a map of only valid DiscountKind values.
func getValidDiscountKindStrings() map[DiscountKind]string {
	//nolint:exhaustive // DiscountKindUnknown is intentionally excluded as it's invalid
	return map[DiscountKind]string{
		DiscountKindNone:    "NONE",
		DiscountKindPercent: "PERCENT",
		DiscountKindFixed:   "FIXED",
	}
}

// DiscountKindFromString parses a canonical discount kind string
// ("NONE", "PERCENT", "FIXED") into a DiscountKind.
func DiscountKindFromString(s string) (DiscountKind, error) {
	for kind, str := range getValidDiscountKindStrings() {
		if str == s {
			return kind, nil
		}
	}
	return DiscountKindUnknown, errs.NewValueIsInvalidErrorWithCause(
		"discount.kind",
		fmt.Errorf("%q is not a known discount kind", s),
	)
}

// Validate checks if the DiscountKind value is valid.
func (k DiscountKind) Validate() error {
	if _, ok := getValidDiscountKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("discount.kind", fmt.Errorf("%d is not a valid discount kind", k))
	}
	return nil
}

// String returns the canonical name of the discount kind.
func (k DiscountKind) String() string {
	if str, ok := getDiscountKindStrings()[k]; ok {
		return str
	}
	return "UNKNOWN"
}

// Discount is a value object describing an optional price reduction.
// It is immutable once constructed.
//
// Example:
//
//	d, err := order.NewDiscount(order.DiscountKindPercent, 10)
//	if err != nil {
//	    // value outside [0, 35]
//	}
type Discount struct {
	kind  DiscountKind
	value float64

	guard guard.ConstructorGuard
}

// NewDiscount creates a validated Discount.
//
// Validation rules:
//   - PERCENT values must lie in [0, 35]
//   - FIXED values must be >= 0
//   - NONE carries no value; any provided value is discarded
func NewDiscount(kind DiscountKind, value float64) (Discount, error) {
	if err := kind.Validate(); err != nil {
		return Discount{}, err
	}

	switch kind {
	case DiscountKindPercent:
		if value < 0 || value > maxPercentDiscount {
			return Discount{}, errs.NewValueIsOutOfRangeError("discount.value", value, 0, maxPercentDiscount)
		}
	case DiscountKindFixed:
		if value < 0 {
			return Discount{}, errs.NewValueIsInvalidErrorWithCause(
				"discount.value",
				fmt.Errorf("%v is not greater than or equal to 0", value),
			)
		}
	default:
		value = 0
	}

	return Discount{
		kind:  kind,
		value: value,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// NoDiscount returns the discount that has no pricing effect.
func NoDiscount() Discount {
	return Discount{
		kind:  DiscountKindNone,
		guard: guard.NewConstructorGuard(),
	}
}

// Kind returns the discount kind.
func (d Discount) Kind() DiscountKind {
	return d.kind
}

// Value returns the discount value. It is zero for NONE discounts.
func (d Discount) Value() float64 {
	return d.value
}

// Validate ensures the Discount was created through a constructor.
func (d Discount) Validate() error {
	return d.guard.Validate(ErrDiscountIsNotConstructed)
}
