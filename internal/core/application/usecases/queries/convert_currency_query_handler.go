package queries

import (
	"context"
	"math"

	"quetzalship/internal/core/ports"
)

// ConvertCurrencyQueryHandler converts an order total into another currency.
// The rate comes from the RateProvider chain, which may serve a stale rate
// when no live source is reachable; the staleness flag is passed through to
// the caller.
type ConvertCurrencyQueryHandler struct {
	orders GetOrderQueryHandler
	rates  ports.RateProvider
}

// NewConvertCurrencyQueryHandler creates a handler for currency conversion.
func NewConvertCurrencyQueryHandler(
	orders GetOrderQueryHandler,
	rates ports.RateProvider,
) ConvertCurrencyQueryHandler {
	return ConvertCurrencyQueryHandler{
		orders: orders,
		rates:  rates,
	}
}

// Handle executes the conversion. Fails with an object-not-found error for
// unknown orders and a service-unavailable error when no rate source can
// serve the requested currency.
func (h ConvertCurrencyQueryHandler) Handle(
	ctx context.Context,
	query ConvertCurrencyQuery,
) (ConvertCurrencyQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ConvertCurrencyQueryResponse{}, err
	}

	view, err := h.orders.find(ctx, query.OrderID())
	if err != nil {
		return ConvertCurrencyQueryResponse{}, err
	}

	if query.TargetCurrency() == BaseCurrency {
		return ConvertCurrencyQueryResponse{
			OrderID:         view.ID,
			BaseCurrency:    BaseCurrency,
			TargetCurrency:  BaseCurrency,
			Rate:            1,
			BaseAmount:      view.Total,
			ConvertedAmount: view.Total,
		}, nil
	}

	rate, stale, err := h.rates.Rate(ctx, query.TargetCurrency())
	if err != nil {
		return ConvertCurrencyQueryResponse{}, err
	}

	return ConvertCurrencyQueryResponse{
		OrderID:         view.ID,
		BaseCurrency:    BaseCurrency,
		TargetCurrency:  query.TargetCurrency(),
		Rate:            rate,
		BaseAmount:      view.Total,
		ConvertedAmount: math.Round(view.Total*rate*100) / 100,
		Stale:           stale,
	}, nil
}
