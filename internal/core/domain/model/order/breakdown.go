package order

// Breakdown is the itemized set of monetary and weight figures that sum to an
// order's total. Every field is already rounded to 2 decimal places by the
// pricing engine; a Breakdown is derived data and never modified after it has
// been computed.
type Breakdown struct {
	// OrderBillableKg is the sum of per-package billable weights.
	OrderBillableKg float64

	// BaseSubtotal is billable weight times the destination zone rate.
	BaseSubtotal float64

	// ServiceSubtotal is the base subtotal times the service multiplier.
	ServiceSubtotal float64

	// FragileSurcharge is the flat per-fragile-package surcharge.
	FragileSurcharge float64

	// InsuranceSurcharge is the percentage of the declared value sum, when
	// insurance is enabled.
	InsuranceSurcharge float64

	// SubtotalWithSurcharges is service subtotal plus both surcharges.
	SubtotalWithSurcharges float64

	// DiscountAmount is the applied discount, in currency units.
	DiscountAmount float64

	// Total is max(0, subtotal with surcharges minus discount), rounded.
	Total float64
}
