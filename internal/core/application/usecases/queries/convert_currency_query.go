package queries

import (
	"errors"
	"fmt"
	"strings"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/pkg/errs"
	"quetzalship/internal/pkg/guard"
)

var ErrConvertCurrencyQueryIsNotConstructed = errors.New(
	"ConvertCurrencyQuery must be created via NewConvertCurrencyQuery constructor",
)

// BaseCurrency is the currency all prices are computed in. Conversions are
// always from this currency into the requested one.
const BaseCurrency = "GTQ"

// ConvertCurrencyQuery converts an order's total into another currency using
// the current exchange rate.
type ConvertCurrencyQuery struct { //nolint:recvcheck //using for validation
	orderID        kernel.OrderID
	targetCurrency string

	guard guard.ConstructorGuard
}

// NewConvertCurrencyQuery creates a conversion query. The target currency
// must be a three-letter ISO 4217 code; it is upper-cased on input.
func NewConvertCurrencyQuery(orderID kernel.OrderID, targetCurrency string) (ConvertCurrencyQuery, error) {
	query := ConvertCurrencyQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setOrderID(orderID),
		query.setTargetCurrency(targetCurrency),
	); err != nil {
		return ConvertCurrencyQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrConvertCurrencyQueryIsNotConstructed if validation fails.
func (q ConvertCurrencyQuery) Validate() error {
	return q.guard.Validate(ErrConvertCurrencyQueryIsNotConstructed)
}

// OrderID returns the identifier of the order whose total to convert.
func (q ConvertCurrencyQuery) OrderID() kernel.OrderID {
	return q.orderID
}

// TargetCurrency returns the upper-cased target currency code.
func (q ConvertCurrencyQuery) TargetCurrency() string {
	return q.targetCurrency
}

func (q *ConvertCurrencyQuery) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

func (q *ConvertCurrencyQuery) setTargetCurrency(targetCurrency string) error {
	currency := strings.ToUpper(strings.TrimSpace(targetCurrency))
	if len(currency) != 3 {
		return errs.NewValueIsInvalidErrorWithCause(
			"currency",
			fmt.Errorf("%q is not a three-letter currency code", targetCurrency),
		)
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return errs.NewValueIsInvalidErrorWithCause(
				"currency",
				fmt.Errorf("%q is not a three-letter currency code", targetCurrency),
			)
		}
	}

	q.targetCurrency = currency
	return nil
}

// ConvertCurrencyQueryResponse is the result of converting an order total.
// Stale reports that the rate came from an expired cache entry because no
// live provider answered.
type ConvertCurrencyQueryResponse struct {
	OrderID         kernel.OrderID
	BaseCurrency    string
	TargetCurrency  string
	Rate            float64
	BaseAmount      float64
	ConvertedAmount float64
	Stale           bool
}
