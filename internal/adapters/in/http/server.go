// Package http exposes the shipment order service over REST. Request bodies
// are translated into application commands and queries; application errors
// are mapped onto HTTP status codes in writeError.
package http

import (
	"context"
	"net/http"
	"strconv"

	"quetzalship/internal/core/application/usecases/commands"
	"quetzalship/internal/core/application/usecases/queries"
	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/metrics"

	"github.com/labstack/echo/v4"
)

// idempotencyKeyHeader carries the optional client-chosen token that makes
// order creation retry-safe. Requests without it are created directly.
const idempotencyKeyHeader = "Idempotency-Key"

type createOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
}

type cancelOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
}

type getOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
}

type listOrdersHandler interface {
	Handle(ctx context.Context, query queries.ListOrdersQuery) (queries.ListOrdersQueryResponse, error)
}

type generateReceiptHandler interface {
	Handle(ctx context.Context, query queries.GenerateReceiptQuery) (queries.GenerateReceiptQueryResponse, error)
}

type convertCurrencyHandler interface {
	Handle(ctx context.Context, query queries.ConvertCurrencyQuery) (queries.ConvertCurrencyQueryResponse, error)
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler     createOrderHandler
	cancelOrderHandler     cancelOrderHandler
	getOrderHandler        getOrderHandler
	listOrdersHandler      listOrdersHandler
	generateReceiptHandler generateReceiptHandler
	convertCurrencyHandler convertCurrencyHandler
	registry               *metrics.Registry
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	createOrder createOrderHandler,
	cancelOrder cancelOrderHandler,
	getOrder getOrderHandler,
	listOrders listOrdersHandler,
	generateReceipt generateReceiptHandler,
	convertCurrency convertCurrencyHandler,
	registry *metrics.Registry,
) *Server {
	return &Server{
		createOrderHandler:     createOrder,
		cancelOrderHandler:     cancelOrder,
		getOrderHandler:        getOrder,
		listOrdersHandler:      listOrders,
		generateReceiptHandler: generateReceipt,
		convertCurrencyHandler: convertCurrency,
		registry:               registry,
	}
}

// RegisterRoutes mounts the API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.GET("/orders/:id/receipt", s.GetReceipt)
	api.GET("/fx/convert", s.ConvertCurrency)
}

// CreateOrder handles POST /api/v1/orders - prices and persists a new
// shipment order, idempotently when an Idempotency-Key header is sent.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := s.buildCreateOrderCommand(ctx.Request().Header.Get(idempotencyKeyHeader), request)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	s.registry.OrdersCreated.Inc()
	return ctx.JSON(http.StatusCreated, orderResponseFromAggregate(aggregate))
}

func (s *Server) buildCreateOrderCommand(token string, request CreateOrderRequest) (commands.CreateOrderCommand, error) {
	originZone, err := order.ZoneFromString(request.OriginZone)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	destinationZone, err := order.ZoneFromString(request.DestinationZone)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	serviceType, err := order.ServiceTypeFromString(request.ServiceType)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	packages := make([]order.Package, 0, len(request.Packages))
	for _, pkg := range request.Packages {
		domainPkg, pkgErr := order.NewPackage(
			pkg.WeightKg, pkg.HeightCm, pkg.WidthCm, pkg.LengthCm, pkg.Fragile, pkg.DeclaredValue,
		)
		if pkgErr != nil {
			return commands.CreateOrderCommand{}, pkgErr
		}
		packages = append(packages, domainPkg)
	}

	discount, err := buildDiscount(request.Discount)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(
		token,
		originZone,
		destinationZone,
		serviceType,
		packages,
		discount,
		request.InsuranceEnabled,
	)
}

func buildDiscount(request *DiscountRequest) (order.Discount, error) {
	if request == nil {
		return order.NewDiscount(order.DiscountKindNone, 0)
	}

	kind, err := order.DiscountKindFromString(request.Kind)
	if err != nil {
		return order.Discount{}, err
	}

	return order.NewDiscount(kind, request.Value)
}

// GetOrder handles GET /api/v1/orders/:id - returns one order in full.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.OrderIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseFromView(view))
}

// ListOrders handles GET /api/v1/orders - returns a page of order summaries,
// newest first, optionally filtered by status. Out-of-range paging inputs
// fall back to defaults instead of failing.
func (s *Server) ListOrders(ctx echo.Context) error {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	pageSize, _ := strconv.Atoi(ctx.QueryParam("page_size"))

	query, err := queries.NewListOrdersQuery(ctx.QueryParam("status"), page, pageSize)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, listOrdersResponse(result))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - cancels an active
// order. Cancelling an already cancelled order answers 409.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.OrderIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	s.registry.OrdersCancelled.Inc()
	return ctx.JSON(http.StatusOK, orderResponseFromAggregate(aggregate))
}

// GetReceipt handles GET /api/v1/orders/:id/receipt - renders a plain-text
// receipt for the order.
func (s *Server) GetReceipt(ctx echo.Context) error {
	orderID, err := kernel.OrderIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGenerateReceiptQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	receipt, err := s.generateReceiptHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ReceiptResponse{
		OrderID:  receipt.OrderID.String(),
		IssuedAt: receipt.IssuedAt,
		Text:     receipt.Text,
	})
}

// ConvertCurrency handles GET /api/v1/fx/convert - converts an order total
// into the requested currency via the rate source chain.
func (s *Server) ConvertCurrency(ctx echo.Context) error {
	orderID, err := kernel.OrderIDFromString(ctx.QueryParam("orderId"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewConvertCurrencyQuery(orderID, ctx.QueryParam("currency"))
	if err != nil {
		return writeError(ctx, err)
	}

	conversion, err := s.convertCurrencyHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	if conversion.Stale {
		s.registry.FxStaleServed.Inc()
	}

	return ctx.JSON(http.StatusOK, ConversionResponse{
		OrderID:         conversion.OrderID.String(),
		BaseCurrency:    conversion.BaseCurrency,
		TargetCurrency:  conversion.TargetCurrency,
		Rate:            conversion.Rate,
		BaseAmount:      conversion.BaseAmount,
		ConvertedAmount: conversion.ConvertedAmount,
		Stale:           conversion.Stale,
	})
}
