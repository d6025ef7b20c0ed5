package queries

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// GenerateReceiptQueryHandler reads an order and renders its receipt.
type GenerateReceiptQueryHandler struct {
	orders GetOrderQueryHandler
}

// NewGenerateReceiptQueryHandler creates a handler for receipt generation.
func NewGenerateReceiptQueryHandler(orders GetOrderQueryHandler) GenerateReceiptQueryHandler {
	return GenerateReceiptQueryHandler{orders: orders}
}

// Handle executes the query. Returns an object-not-found error when no order
// has the requested identifier.
func (h GenerateReceiptQueryHandler) Handle(
	ctx context.Context,
	query GenerateReceiptQuery,
) (GenerateReceiptQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GenerateReceiptQueryResponse{}, err
	}

	view, err := h.orders.find(ctx, query.OrderID())
	if err != nil {
		return GenerateReceiptQueryResponse{}, err
	}

	return BuildReceipt(view, time.Now().UTC()), nil
}

// BuildReceipt renders the plain-text receipt for an order view. It is a
// pure function of its inputs: the same order and issue time always produce
// the same text.
func BuildReceipt(view OrderView, issuedAt time.Time) GenerateReceiptQueryResponse {
	var b strings.Builder

	line := strings.Repeat("=", 44)
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "QUETZALSHIP SHIPPING RECEIPT\n")
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "Order:      %s\n", view.ID.String())
	fmt.Fprintf(&b, "Created:    %s\n", view.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Status:     %s\n", view.Status.String())
	if view.CancelledAt != nil {
		fmt.Fprintf(&b, "Cancelled:  %s\n", view.CancelledAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "Route:      %s -> %s\n", view.OriginZone.String(), view.DestinationZone.String())
	fmt.Fprintf(&b, "Service:    %s\n", view.ServiceType.String())
	fmt.Fprintf(&b, "%s\n", line)

	for i, pkg := range view.Packages {
		fragile := ""
		if pkg.Fragile {
			fragile = " [FRAGILE]"
		}
		fmt.Fprintf(&b, "Package %d:  %.2f kg, %.0fx%.0fx%.0f cm%s\n",
			i+1, pkg.WeightKg, pkg.HeightCm, pkg.WidthCm, pkg.LengthCm, fragile)
		if pkg.DeclaredValue > 0 {
			fmt.Fprintf(&b, "            declared value %.2f\n", pkg.DeclaredValue)
		}
	}

	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "Billable weight:        %10.2f kg\n", view.Breakdown.OrderBillableKg)
	fmt.Fprintf(&b, "Base subtotal:          %10.2f\n", view.Breakdown.BaseSubtotal)
	fmt.Fprintf(&b, "Service subtotal:       %10.2f\n", view.Breakdown.ServiceSubtotal)
	fmt.Fprintf(&b, "Fragile surcharge:      %10.2f\n", view.Breakdown.FragileSurcharge)
	fmt.Fprintf(&b, "Insurance surcharge:    %10.2f\n", view.Breakdown.InsuranceSurcharge)
	fmt.Fprintf(&b, "Subtotal:               %10.2f\n", view.Breakdown.SubtotalWithSurcharges)
	if view.DiscountKind.String() != "NONE" {
		fmt.Fprintf(&b, "Discount (%s):      %10.2f\n", view.DiscountKind.String(), view.Breakdown.DiscountAmount)
	}
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "TOTAL:                  %10.2f\n", view.Total)
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "Issued at %s\n", issuedAt.Format(time.RFC3339))

	return GenerateReceiptQueryResponse{
		OrderID:  view.ID,
		IssuedAt: issuedAt,
		Text:     b.String(),
		Order:    view,
	}
}
