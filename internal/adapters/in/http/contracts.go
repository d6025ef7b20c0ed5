package http

import (
	"time"

	"quetzalship/internal/core/application/usecases/queries"
	"quetzalship/internal/core/domain/model/order"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PackageRequest describes one package of a new shipment order.
type PackageRequest struct {
	WeightKg      float64 `json:"weightKg"`
	HeightCm      float64 `json:"heightCm"`
	WidthCm       float64 `json:"widthCm"`
	LengthCm      float64 `json:"lengthCm"`
	Fragile       bool    `json:"fragile"`
	DeclaredValue float64 `json:"declaredValue"`
}

// DiscountRequest describes the optional discount of a new shipment order.
// Absent discount means none.
type DiscountRequest struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// CreateOrderRequest is the body of POST /api/v1/orders. The optional
// idempotency token travels in the Idempotency-Key header, not in the body.
type CreateOrderRequest struct {
	OriginZone       string           `json:"originZone"`
	DestinationZone  string           `json:"destinationZone"`
	ServiceType      string           `json:"serviceType"`
	Packages         []PackageRequest `json:"packages"`
	Discount         *DiscountRequest `json:"discount,omitempty"`
	InsuranceEnabled bool             `json:"insuranceEnabled"`
}

// BreakdownResponse carries the priced charge breakdown of an order.
type BreakdownResponse struct {
	BillableKg             float64 `json:"billableKg"`
	BaseSubtotal           float64 `json:"baseSubtotal"`
	ServiceSubtotal        float64 `json:"serviceSubtotal"`
	FragileSurcharge       float64 `json:"fragileSurcharge"`
	InsuranceSurcharge     float64 `json:"insuranceSurcharge"`
	SubtotalWithSurcharges float64 `json:"subtotalWithSurcharges"`
	DiscountAmount         float64 `json:"discountAmount"`
	Total                  float64 `json:"total"`
}

// PackageResponse mirrors PackageRequest on the read side.
type PackageResponse struct {
	WeightKg      float64 `json:"weightKg"`
	HeightCm      float64 `json:"heightCm"`
	WidthCm       float64 `json:"widthCm"`
	LengthCm      float64 `json:"lengthCm"`
	Fragile       bool    `json:"fragile"`
	DeclaredValue float64 `json:"declaredValue"`
}

// DiscountResponse reports the discount the order was priced with.
type DiscountResponse struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// OrderResponse is the full representation of one shipment order.
type OrderResponse struct {
	ID               string            `json:"id"`
	CreatedAt        time.Time         `json:"createdAt"`
	OriginZone       string            `json:"originZone"`
	DestinationZone  string            `json:"destinationZone"`
	ServiceType      string            `json:"serviceType"`
	Packages         []PackageResponse `json:"packages"`
	Discount         DiscountResponse  `json:"discount"`
	InsuranceEnabled bool              `json:"insuranceEnabled"`
	Status           string            `json:"status"`
	Breakdown        BreakdownResponse `json:"breakdown"`
	Total            float64           `json:"total"`
	CancelledAt      *time.Time        `json:"cancelledAt,omitempty"`
}

// OrderSummaryResponse is one row of the order listing.
type OrderSummaryResponse struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	Status          string    `json:"status"`
	OriginZone      string    `json:"originZone"`
	DestinationZone string    `json:"destinationZone"`
	ServiceType     string    `json:"serviceType"`
	PackageCount    int       `json:"packageCount"`
	Total           float64   `json:"total"`
}

// ListOrdersResponse is the paginated body of GET /api/v1/orders.
type ListOrdersResponse struct {
	Orders     []OrderSummaryResponse `json:"orders"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
	TotalPages int                    `json:"totalPages"`
}

// ReceiptResponse is the body of GET /api/v1/orders/:id/receipt.
type ReceiptResponse struct {
	OrderID  string    `json:"orderId"`
	IssuedAt time.Time `json:"issuedAt"`
	Text     string    `json:"text"`
}

// ConversionResponse is the body of GET /api/v1/fx/convert.
type ConversionResponse struct {
	OrderID         string  `json:"orderId"`
	BaseCurrency    string  `json:"baseCurrency"`
	TargetCurrency  string  `json:"targetCurrency"`
	Rate            float64 `json:"rate"`
	BaseAmount      float64 `json:"baseAmount"`
	ConvertedAmount float64 `json:"convertedAmount"`
	Stale           bool    `json:"stale"`
}

func breakdownResponse(b order.Breakdown) BreakdownResponse {
	return BreakdownResponse{
		BillableKg:             b.OrderBillableKg,
		BaseSubtotal:           b.BaseSubtotal,
		ServiceSubtotal:        b.ServiceSubtotal,
		FragileSurcharge:       b.FragileSurcharge,
		InsuranceSurcharge:     b.InsuranceSurcharge,
		SubtotalWithSurcharges: b.SubtotalWithSurcharges,
		DiscountAmount:         b.DiscountAmount,
		Total:                  b.Total,
	}
}

func orderResponseFromAggregate(aggregate *order.Order) OrderResponse {
	packages := make([]PackageResponse, 0, len(aggregate.Packages()))
	for _, pkg := range aggregate.Packages() {
		packages = append(packages, PackageResponse{
			WeightKg:      pkg.WeightKg(),
			HeightCm:      pkg.HeightCm(),
			WidthCm:       pkg.WidthCm(),
			LengthCm:      pkg.LengthCm(),
			Fragile:       pkg.Fragile(),
			DeclaredValue: pkg.DeclaredValue(),
		})
	}

	return OrderResponse{
		ID:              aggregate.ID().String(),
		CreatedAt:       aggregate.CreatedAt(),
		OriginZone:      aggregate.OriginZone().String(),
		DestinationZone: aggregate.DestinationZone().String(),
		ServiceType:     aggregate.ServiceType().String(),
		Packages:        packages,
		Discount: DiscountResponse{
			Kind:  aggregate.Discount().Kind().String(),
			Value: aggregate.Discount().Value(),
		},
		InsuranceEnabled: aggregate.InsuranceEnabled(),
		Status:           aggregate.Status().String(),
		Breakdown:        breakdownResponse(aggregate.Breakdown()),
		Total:            aggregate.Total(),
		CancelledAt:      aggregate.CancelledAt(),
	}
}

func orderResponseFromView(view queries.OrderView) OrderResponse {
	packages := make([]PackageResponse, 0, len(view.Packages))
	for _, pkg := range view.Packages {
		packages = append(packages, PackageResponse{
			WeightKg:      pkg.WeightKg,
			HeightCm:      pkg.HeightCm,
			WidthCm:       pkg.WidthCm,
			LengthCm:      pkg.LengthCm,
			Fragile:       pkg.Fragile,
			DeclaredValue: pkg.DeclaredValue,
		})
	}

	return OrderResponse{
		ID:              view.ID.String(),
		CreatedAt:       view.CreatedAt,
		OriginZone:      view.OriginZone.String(),
		DestinationZone: view.DestinationZone.String(),
		ServiceType:     view.ServiceType.String(),
		Packages:        packages,
		Discount: DiscountResponse{
			Kind:  view.DiscountKind.String(),
			Value: view.DiscountValue,
		},
		InsuranceEnabled: view.InsuranceEnabled,
		Status:           view.Status.String(),
		Breakdown:        breakdownResponse(view.Breakdown),
		Total:            view.Total,
		CancelledAt:      view.CancelledAt,
	}
}

func listOrdersResponse(result queries.ListOrdersQueryResponse) ListOrdersResponse {
	orders := make([]OrderSummaryResponse, 0, len(result.Orders))
	for _, summary := range result.Orders {
		orders = append(orders, OrderSummaryResponse{
			ID:              summary.ID.String(),
			CreatedAt:       summary.CreatedAt,
			Status:          summary.Status.String(),
			OriginZone:      summary.OriginZone.String(),
			DestinationZone: summary.DestinationZone.String(),
			ServiceType:     summary.ServiceType.String(),
			PackageCount:    summary.PackageCount,
			Total:           summary.Total,
		})
	}

	return ListOrdersResponse{
		Orders:     orders,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}
