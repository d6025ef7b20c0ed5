package services

import (
	"fmt"
	"math"

	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/pkg/errs"
)

// fragileSurchargePerPackage is the flat surcharge applied per fragile package.
const fragileSurchargePerPackage = 7.0

// insuranceRate is the fraction of the declared value sum charged when
// insurance is enabled.
const insuranceRate = 0.025

// epsilon counters binary floating-point representation error before rounding,
// so values like 2.675 round up instead of sitting just below the half.
var epsilon = math.Nextafter(1, 2) - 1

// PricingRequest is the order-shape input to the pricing computation.
type PricingRequest struct {
	OriginZone       order.Zone
	DestinationZone  order.Zone
	ServiceType      order.ServiceType
	Packages         []order.Package
	Discount         order.Discount
	InsuranceEnabled bool
}

// PricingEngine is a pure domain service that turns package and service
// attributes into an itemized cost breakdown. It holds no state, performs no
// I/O, and always yields the same output for the same input.
//
// The computation:
//  1. billable weight per package = max(actual weight, h x w x l / 5000)
//  2. base subtotal = sum of billable weights x destination zone rate
//     (METRO 8, INTERIOR 12, FRONTERA 16 per kg)
//  3. service subtotal = base subtotal x multiplier
//     (STANDARD 1.0, EXPRESS 1.35, SAME_DAY 1.8)
//  4. surcharges: 7 per fragile package; 2.5% of declared value sum when insured
//  5. discount: NONE 0; PERCENT value% of the surcharge-adjusted subtotal;
//     FIXED the flat value
//  6. total = max(0, subtotal with surcharges - discount)
//
// Intermediate computation runs at full precision. Rounding to 2 decimals
// happens only on output fields, each independently. The discount is computed
// against the unrounded subtotal and the total from the unrounded chain, so
// the displayed discount and total can diverge from each other by one cent;
// this matches the conformance reference and must not be "fixed" by rounding
// once at the end.
type PricingEngine struct{}

// NewPricingEngine creates a new PricingEngine instance.
func NewPricingEngine() PricingEngine {
	return PricingEngine{}
}

// zoneRates maps destination zones to their base rate in currency units per kg.
func zoneRates() map[order.Zone]float64 {
	return map[order.Zone]float64{
		order.ZoneMetro:    8,
		order.ZoneInterior: 12,
		order.ZoneFrontera: 16,
	}
}

// serviceMultipliers maps service types to the factor applied to the base subtotal.
func serviceMultipliers() map[order.ServiceType]float64 {
	return map[order.ServiceType]float64{
		order.ServiceTypeStandard: 1.0,
		order.ServiceTypeExpress:  1.35,
		order.ServiceTypeSameDay:  1.8,
	}
}

// Calculate prices the request and returns the itemized breakdown.
//
// Validation failures surface as invalid-value errors naming the offending
// field: an empty package list, an unmapped destination zone or service type,
// an invalid discount, or insurance enabled with no declared value to insure.
func (e PricingEngine) Calculate(req PricingRequest) (order.Breakdown, error) {
	if len(req.Packages) == 0 {
		return order.Breakdown{}, errs.NewValueIsRequiredError("packages")
	}

	declaredSum := 0.0
	for i, pkg := range req.Packages {
		if err := pkg.Validate(); err != nil {
			return order.Breakdown{}, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("packages[%d]", i), err)
		}
		declaredSum += pkg.DeclaredValue()
	}

	if req.InsuranceEnabled && declaredSum <= 0 {
		return order.Breakdown{}, errs.NewValueIsInvalidErrorWithCause(
			"insuranceEnabled",
			fmt.Errorf("insurance requires a declared value sum greater than 0"),
		)
	}

	if err := req.Discount.Validate(); err != nil {
		return order.Breakdown{}, err
	}

	if err := req.OriginZone.Validate(); err != nil {
		return order.Breakdown{}, errs.NewValueIsInvalidErrorWithCause("originZone", err)
	}

	rate, ok := zoneRates()[req.DestinationZone]
	if !ok {
		return order.Breakdown{}, errs.NewValueIsInvalidError("destinationZone")
	}

	multiplier, ok := serviceMultipliers()[req.ServiceType]
	if !ok {
		return order.Breakdown{}, errs.NewValueIsInvalidError("serviceType")
	}

	orderBillableKg := 0.0
	fragileCount := 0
	for _, pkg := range req.Packages {
		orderBillableKg += pkg.BillableWeightKg()
		if pkg.Fragile() {
			fragileCount++
		}
	}

	baseSubtotal := orderBillableKg * rate
	serviceSubtotal := baseSubtotal * multiplier

	fragileSurcharge := float64(fragileCount) * fragileSurchargePerPackage

	insuranceSurcharge := 0.0
	if req.InsuranceEnabled {
		insuranceSurcharge = insuranceRate * declaredSum
	}

	subtotalWithSurcharges := serviceSubtotal + fragileSurcharge + insuranceSurcharge

	discountAmount := 0.0
	switch req.Discount.Kind() {
	case order.DiscountKindPercent:
		discountAmount = req.Discount.Value() / 100 * subtotalWithSurcharges
	case order.DiscountKindFixed:
		discountAmount = req.Discount.Value()
	}

	total := subtotalWithSurcharges - discountAmount
	if total < 0 {
		total = 0
	}

	return order.Breakdown{
		OrderBillableKg:        round2(orderBillableKg),
		BaseSubtotal:           round2(baseSubtotal),
		ServiceSubtotal:        round2(serviceSubtotal),
		FragileSurcharge:       round2(fragileSurcharge),
		InsuranceSurcharge:     round2(insuranceSurcharge),
		SubtotalWithSurcharges: round2(subtotalWithSurcharges),
		DiscountAmount:         round2(discountAmount),
		Total:                  round2(total),
	}, nil
}

// round2 rounds to 2 decimal places, half away from zero, after nudging the
// value by epsilon to counter representation error.
func round2(x float64) float64 {
	return math.Round((x+epsilon)*100) / 100
}
