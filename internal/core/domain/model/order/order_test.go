package order_test

import (
	"testing"
	"time"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPackages(t *testing.T) []order.Package {
	t.Helper()
	pkg, err := order.NewPackage(2.5, 30, 20, 40, true, 500)
	require.NoError(t, err)
	return []order.Package{pkg}
}

func testBreakdown() order.Breakdown {
	return order.Breakdown{
		OrderBillableKg:        4.8,
		BaseSubtotal:           57.6,
		ServiceSubtotal:        77.76,
		FragileSurcharge:       7,
		InsuranceSurcharge:     12.5,
		SubtotalWithSurcharges: 97.26,
		DiscountAmount:         9.73,
		Total:                  87.53,
	}
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	discount, err := order.NewDiscount(order.DiscountKindPercent, 10)
	require.NoError(t, err)

	aggregate, err := order.NewOrder(
		kernel.NewOrderID(),
		time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		order.ZoneMetro,
		order.ZoneInterior,
		order.ServiceTypeExpress,
		testPackages(t),
		discount,
		true,
		testBreakdown(),
	)
	require.NoError(t, err)
	return aggregate
}

func TestNewOrder(t *testing.T) {
	aggregate := testOrder(t)

	assert.NoError(t, aggregate.Validate())
	assert.Equal(t, order.StatusActive, aggregate.Status())
	assert.Equal(t, order.ZoneMetro, aggregate.OriginZone())
	assert.Equal(t, order.ZoneInterior, aggregate.DestinationZone())
	assert.Equal(t, order.ServiceTypeExpress, aggregate.ServiceType())
	assert.True(t, aggregate.InsuranceEnabled())
	assert.Len(t, aggregate.Packages(), 1)
	assert.InDelta(t, 87.53, aggregate.Total(), 1e-9)
	assert.Equal(t, testBreakdown(), aggregate.Breakdown())
	assert.Nil(t, aggregate.CancelledAt())
}

func TestNewOrder_Invalid(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	packages := testPackages(t)

	t.Run("empty order id", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.OrderID{}, createdAt,
			order.ZoneMetro, order.ZoneInterior, order.ServiceTypeStandard,
			packages, order.NoDiscount(), false, testBreakdown(),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero created at", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewOrderID(), time.Time{},
			order.ZoneMetro, order.ZoneInterior, order.ServiceTypeStandard,
			packages, order.NoDiscount(), false, testBreakdown(),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "createdAt")
	})

	t.Run("invalid zone", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewOrderID(), createdAt,
			order.ZoneUnknown, order.ZoneInterior, order.ServiceTypeStandard,
			packages, order.NoDiscount(), false, testBreakdown(),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("no packages", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewOrderID(), createdAt,
			order.ZoneMetro, order.ZoneInterior, order.ServiceTypeStandard,
			nil, order.NoDiscount(), false, testBreakdown(),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "packages")
	})

	t.Run("unconstructed package", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewOrderID(), createdAt,
			order.ZoneMetro, order.ZoneInterior, order.ServiceTypeStandard,
			[]order.Package{{}}, order.NoDiscount(), false, testBreakdown(),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "packages[0]")
	})

	t.Run("unconstructed discount", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewOrderID(), createdAt,
			order.ZoneMetro, order.ZoneInterior, order.ServiceTypeStandard,
			packages, order.Discount{}, false, testBreakdown(),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrDiscountIsNotConstructed)
	})
}

func TestOrder_Cancel(t *testing.T) {
	aggregate := testOrder(t)
	cancelledAt := aggregate.CreatedAt().Add(time.Hour)

	require.NoError(t, aggregate.Cancel(cancelledAt))
	assert.Equal(t, order.StatusCancelled, aggregate.Status())
	require.NotNil(t, aggregate.CancelledAt())
	assert.Equal(t, cancelledAt, *aggregate.CancelledAt())
}

func TestOrder_Cancel_AlreadyCancelled(t *testing.T) {
	aggregate := testOrder(t)
	firstAt := aggregate.CreatedAt().Add(time.Hour)
	require.NoError(t, aggregate.Cancel(firstAt))

	err := aggregate.Cancel(firstAt.Add(time.Hour))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
	assert.Equal(t, firstAt, *aggregate.CancelledAt())
}

func TestRestoreOrder(t *testing.T) {
	source := testOrder(t)
	cancelledAt := source.CreatedAt().Add(time.Hour)

	t.Run("restores cancelled order", func(t *testing.T) {
		restored, err := order.RestoreOrder(
			source.ID(), source.CreatedAt(),
			source.OriginZone(), source.DestinationZone(), source.ServiceType(),
			source.Packages(), source.Discount(), source.InsuranceEnabled(),
			source.Breakdown(), order.StatusCancelled, &cancelledAt,
		)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, restored.Status())
		assert.Equal(t, cancelledAt, *restored.CancelledAt())
		assert.True(t, restored.IsEqual(source))
	})

	t.Run("cancelled requires timestamp", func(t *testing.T) {
		_, err := order.RestoreOrder(
			source.ID(), source.CreatedAt(),
			source.OriginZone(), source.DestinationZone(), source.ServiceType(),
			source.Packages(), source.Discount(), source.InsuranceEnabled(),
			source.Breakdown(), order.StatusCancelled, nil,
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cancelledAt")
	})

	t.Run("active rejects timestamp", func(t *testing.T) {
		_, err := order.RestoreOrder(
			source.ID(), source.CreatedAt(),
			source.OriginZone(), source.DestinationZone(), source.ServiceType(),
			source.Packages(), source.Discount(), source.InsuranceEnabled(),
			source.Breakdown(), order.StatusActive, &cancelledAt,
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Packages_ReturnsCopy(t *testing.T) {
	aggregate := testOrder(t)
	packages := aggregate.Packages()
	packages[0] = order.Package{}

	assert.NoError(t, aggregate.Packages()[0].Validate())
}

func TestOrder_Validate_NotConstructed(t *testing.T) {
	var aggregate order.Order
	assert.ErrorIs(t, aggregate.Validate(), order.ErrOrderIsNotConstructed)
}
