package ports

import (
	"context"
)

// RateProvider resolves the exchange rate from the pricing currency into a
// target currency. Implementations layer caching and provider failover; a
// rate that cannot be resolved from any source surfaces as a
// service-unavailable error.
type RateProvider interface {
	// Rate returns the multiplier that converts an amount in the base pricing
	// currency into the target currency, plus whether the rate was served
	// from a stale source.
	Rate(ctx context.Context, targetCurrency string) (rate float64, stale bool, err error)
}
