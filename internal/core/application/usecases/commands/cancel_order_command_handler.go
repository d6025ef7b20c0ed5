package commands

import (
	"context"
	"time"

	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/core/ports"
)

// CancelOrderCommandHandler handles the business logic for order cancellation.
//
// Cancellation is deliberately not idempotent: the first cancellation of an
// ACTIVE order succeeds and records the cancellation timestamp; cancelling an
// already-cancelled order fails with a precondition error.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
// Requires an OrderUoWFactory for transactional persistence and an event
// publisher notified after commit.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the cancellation command and returns the cancelled order.
// Fails with an object-not-found error for unknown identifiers and with a
// precondition error when the order is already cancelled.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.Cancel(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	// Best effort after commit; the publisher logs its own failures.
	_ = h.publisher.PublishOrderCancelled(ctx, aggregate)

	return aggregate, nil
}
