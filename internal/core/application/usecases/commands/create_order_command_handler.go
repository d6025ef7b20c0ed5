package commands

import (
	"context"
	"errors"
	"time"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/core/domain/services"
	"quetzalship/internal/core/ports"
	"quetzalship/internal/pkg/errs"
)

// priceCalculator is the narrow pricing dependency of the handler. Declared
// here so tests can count how often pricing runs: a replayed creation must
// not price again.
type priceCalculator interface {
	Calculate(req services.PricingRequest) (order.Breakdown, error)
}

// CreateOrderCommandHandler handles the business logic for order creation.
//
// Creation is idempotent per client-supplied token. The first request under a
// token prices the shipment, persists the order and claims the token in the
// same transaction. A retry with the same token and payload replays the
// stored order without pricing again; the same token with a different payload
// is a precondition failure. When two requests race on one token, the unique
// constraint on the ledger decides the winner and the loser returns the
// winner's order. The token is optional: a request without one is priced and
// persisted directly and never touches the ledger.
type CreateOrderCommandHandler struct {
	uowFactory CreateOrderUoWFactory
	pricing    priceCalculator
	publisher  ports.OrderEventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires a CreateOrderUoWFactory for transactional persistence, the pricing
// engine, and an event publisher notified after commit.
func NewCreateOrderCommandHandler(
	uowFactory CreateOrderUoWFactory,
	pricing priceCalculator,
	publisher ports.OrderEventPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		publisher:  publisher,
	}
}

// Handle processes the order creation command and returns the created (or
// replayed) order aggregate.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	payloadHash := cmd.PayloadHash()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if cmd.HasIdempotencyToken() {
		record, lookupErr := uow.IdempotencyLedger().Get(ctx, cmd.IdempotencyToken())
		switch {
		case lookupErr == nil:
			return h.replay(ctx, uow, record, payloadHash)
		case !errors.Is(lookupErr, errs.ErrObjectNotFound):
			return nil, lookupErr
		}
	}

	breakdown, err := h.pricing.Calculate(services.PricingRequest{
		OriginZone:       cmd.OriginZone(),
		DestinationZone:  cmd.DestinationZone(),
		ServiceType:      cmd.ServiceType(),
		Packages:         cmd.Packages(),
		Discount:         cmd.Discount(),
		InsuranceEnabled: cmd.InsuranceEnabled(),
	})
	if err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(
		kernel.NewOrderID(),
		time.Now().UTC(),
		cmd.OriginZone(),
		cmd.DestinationZone(),
		cmd.ServiceType(),
		cmd.Packages(),
		cmd.Discount(),
		cmd.InsuranceEnabled(),
		breakdown,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if cmd.HasIdempotencyToken() {
		err = uow.IdempotencyLedger().Add(ctx, ports.IdempotencyRecord{
			Token:       cmd.IdempotencyToken(),
			PayloadHash: payloadHash,
			OrderID:     aggregate.ID(),
		})
		if err != nil {
			// Lost the race for the token: another transaction claimed it
			// first. Resolve against the winner's record.
			if errors.Is(err, errs.ErrPreconditionFailed) {
				_ = uow.Rollback(ctx)
				return h.resolveWinner(ctx, cmd.IdempotencyToken(), payloadHash)
			}
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	// Best effort after commit; the publisher logs its own failures.
	_ = h.publisher.PublishOrderCreated(ctx, aggregate)

	return aggregate, nil
}

// replay returns the order stored under an already-claimed token, provided
// the payload fingerprint matches the original request.
func (h *CreateOrderCommandHandler) replay(
	ctx context.Context,
	uow CreateOrderUoW,
	record ports.IdempotencyRecord,
	payloadHash string,
) (*order.Order, error) {
	if record.PayloadHash != payloadHash {
		return nil, errs.NewPreconditionFailedError("idempotency token reused with a different payload")
	}

	return uow.OrderRepository().Get(ctx, record.OrderID)
}

// resolveWinner re-reads the winning record after losing a same-token race
// and replays it in a fresh transaction.
func (h *CreateOrderCommandHandler) resolveWinner(
	ctx context.Context,
	token string,
	payloadHash string,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := uow.IdempotencyLedger().Get(ctx, token)
	if err != nil {
		return nil, err
	}

	return h.replay(ctx, uow, record, payloadHash)
}
