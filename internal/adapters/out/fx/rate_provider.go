package fx

import (
	"context"
	"log/slog"
	"time"

	"quetzalship/internal/core/application/usecases/queries"
	"quetzalship/internal/pkg/errs"
)

// rateFetcher is the provider dependency of the chain; satisfied by
// ProviderClient.
type rateFetcher interface {
	Name() string
	FetchRate(ctx context.Context, base, target string) (float64, error)
}

// freshTTL is how long a fetched rate is served from cache before the
// providers are consulted again.
const freshTTL = 5 * time.Minute

// ChainRateProvider implements the rate resolution chain:
//
//	fresh cache -> primary provider -> secondary provider -> stale cache
//
// A successful provider fetch refreshes both the fresh entry (with TTL) and
// the stale entry (without TTL), so a later full provider outage can still
// serve the last known rate, flagged as stale. When even the stale entry is
// missing, resolution fails with a service-unavailable error.
type ChainRateProvider struct {
	cache     rateCache
	primary   rateFetcher
	secondary rateFetcher
	log       *slog.Logger
}

// NewChainRateProvider wires the chain from its sources.
func NewChainRateProvider(
	cache rateCache,
	primary rateFetcher,
	secondary rateFetcher,
	log *slog.Logger,
) *ChainRateProvider {
	return &ChainRateProvider{
		cache:     cache,
		primary:   primary,
		secondary: secondary,
		log:       log,
	}
}

// Rate resolves the conversion rate from the base pricing currency into
// targetCurrency. The stale flag is true only when the rate came from the
// stale fallback entry.
func (p *ChainRateProvider) Rate(ctx context.Context, targetCurrency string) (float64, bool, error) {
	freshKey := "fx:" + queries.BaseCurrency + ":" + targetCurrency
	staleKey := "fx:stale:" + queries.BaseCurrency + ":" + targetCurrency

	rate, hit, err := p.cache.Get(ctx, freshKey)
	if err != nil {
		p.log.Warn("fx cache read failed", "key", freshKey, "error", err)
	} else if hit {
		return rate, false, nil
	}

	for _, provider := range []rateFetcher{p.primary, p.secondary} {
		rate, err = provider.FetchRate(ctx, queries.BaseCurrency, targetCurrency)
		if err != nil {
			p.log.Warn("fx provider failed", "provider", provider.Name(), "currency", targetCurrency, "error", err)
			continue
		}

		if cacheErr := p.cache.Set(ctx, freshKey, rate, freshTTL); cacheErr != nil {
			p.log.Warn("fx cache write failed", "key", freshKey, "error", cacheErr)
		}
		if cacheErr := p.cache.Set(ctx, staleKey, rate, 0); cacheErr != nil {
			p.log.Warn("fx cache write failed", "key", staleKey, "error", cacheErr)
		}

		return rate, false, nil
	}

	rate, hit, err = p.cache.Get(ctx, staleKey)
	if err != nil {
		p.log.Warn("fx stale cache read failed", "key", staleKey, "error", err)
	} else if hit {
		p.log.Warn("serving stale fx rate", "currency", targetCurrency, "rate", rate)
		return rate, true, nil
	}

	return 0, false, errs.NewServiceUnavailableError("fx rate providers")
}

// Refresh fetches targetCurrency from the providers and rewrites both cache
// entries, skipping the fresh-cache short circuit. Used by the periodic
// refresh job to keep the stale fallback warm.
func (p *ChainRateProvider) Refresh(ctx context.Context, targetCurrency string) error {
	freshKey := "fx:" + queries.BaseCurrency + ":" + targetCurrency
	staleKey := "fx:stale:" + queries.BaseCurrency + ":" + targetCurrency

	var lastErr error
	for _, provider := range []rateFetcher{p.primary, p.secondary} {
		rate, err := provider.FetchRate(ctx, queries.BaseCurrency, targetCurrency)
		if err != nil {
			p.log.Warn("fx provider failed", "provider", provider.Name(), "currency", targetCurrency, "error", err)
			lastErr = err
			continue
		}

		if cacheErr := p.cache.Set(ctx, freshKey, rate, freshTTL); cacheErr != nil {
			return cacheErr
		}
		return p.cache.Set(ctx, staleKey, rate, 0)
	}

	return errs.NewServiceUnavailableErrorWithCause("fx rate providers", lastErr)
}
