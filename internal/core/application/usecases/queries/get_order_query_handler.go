package queries

import (
	"context"
	"database/sql"
	"errors"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order with its packages from the
// database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns an object-not-found error when no order
// has the requested identifier.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	return h.find(ctx, query.OrderID())
}

// find loads the order row and its package rows. It is shared with the
// receipt and currency-conversion handlers.
func (h GetOrderQueryHandler) find(ctx context.Context, orderID kernel.OrderID) (OrderView, error) {
	var (
		view          OrderView
		id            uuid.UUID
		originZone    string
		destZone      string
		serviceType   string
		discountKind  string
		status        string
		cancelledAt   sql.NullTime
		discountValue float64
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			created_at,
			origin_zone,
			destination_zone,
			service_type,
			discount_kind,
			discount_value,
			insurance_enabled,
			status,
			billable_kg,
			base_subtotal,
			service_subtotal,
			fragile_surcharge,
			insurance_surcharge,
			subtotal_with_surcharges,
			discount_amount,
			total,
			cancelled_at
		FROM orders
		WHERE id = ?
	`, orderID.UUID()).Row()

	err := row.Scan(
		&id,
		&view.CreatedAt,
		&originZone,
		&destZone,
		&serviceType,
		&discountKind,
		&discountValue,
		&view.InsuranceEnabled,
		&status,
		&view.Breakdown.OrderBillableKg,
		&view.Breakdown.BaseSubtotal,
		&view.Breakdown.ServiceSubtotal,
		&view.Breakdown.FragileSurcharge,
		&view.Breakdown.InsuranceSurcharge,
		&view.Breakdown.SubtotalWithSurcharges,
		&view.Breakdown.DiscountAmount,
		&view.Breakdown.Total,
		&cancelledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderView{}, errs.NewObjectNotFoundError("orderId", orderID.String())
	}
	if err != nil {
		return OrderView{}, err
	}

	view.ID = orderID
	view.Total = view.Breakdown.Total
	view.DiscountValue = discountValue

	if view.OriginZone, err = order.ZoneFromString(originZone); err != nil {
		return OrderView{}, err
	}
	if view.DestinationZone, err = order.ZoneFromString(destZone); err != nil {
		return OrderView{}, err
	}
	if view.ServiceType, err = order.ServiceTypeFromString(serviceType); err != nil {
		return OrderView{}, err
	}
	if view.DiscountKind, err = order.DiscountKindFromString(discountKind); err != nil {
		return OrderView{}, err
	}
	if view.Status, err = order.StatusFromString(status); err != nil {
		return OrderView{}, err
	}
	if cancelledAt.Valid {
		at := cancelledAt.Time
		view.CancelledAt = &at
	}

	view.Packages, err = h.findPackages(ctx, id)
	if err != nil {
		return OrderView{}, err
	}

	return view, nil
}

func (h GetOrderQueryHandler) findPackages(ctx context.Context, orderID uuid.UUID) ([]PackageView, error) {
	packages := make([]PackageView, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			weight_kg,
			height_cm,
			width_cm,
			length_cm,
			fragile,
			declared_value
		FROM packages
		WHERE order_id = ?
		ORDER BY seq
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pkg PackageView
		err = rows.Scan(
			&pkg.WeightKg,
			&pkg.HeightCm,
			&pkg.WidthCm,
			&pkg.LengthCm,
			&pkg.Fragile,
			&pkg.DeclaredValue,
		)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return packages, nil
}
