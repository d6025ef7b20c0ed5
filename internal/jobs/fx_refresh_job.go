package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// rateRefresher re-fetches a currency from the live providers and rewrites
// the cached entries. Satisfied by the fx adapter's ChainRateProvider.
type rateRefresher interface {
	Refresh(ctx context.Context, targetCurrency string) error
}

// FxRefreshJob periodically re-fetches exchange rates for the configured
// currencies so the stale fallback entries stay warm. A provider outage
// during a refresh is logged and retried on the next tick.
type FxRefreshJob struct {
	rates      rateRefresher
	currencies []string
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewFxRefreshJob creates a refresh job for the given currencies.
func NewFxRefreshJob(rates rateRefresher, currencies []string, logger *slog.Logger) *FxRefreshJob {
	return &FxRefreshJob{
		rates:      rates,
		currencies: currencies,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "fx_refresh_job"),
	}
}

// Start begins refreshing rates every five minutes.
func (j *FxRefreshJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		ctx := context.Background()

		for _, currency := range j.currencies {
			if err := j.rates.Refresh(ctx, currency); err != nil {
				j.logger.ErrorContext(ctx, "Fx rate refresh failed", "currency", currency, "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Fx refresh job started (running every five minutes)", "currencies", j.currencies)
	return nil
}

// Stop stops the refresh job.
func (j *FxRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Fx refresh job stopped")
}
