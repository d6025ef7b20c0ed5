package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quetzalship/internal/core/application/usecases/commands"
	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/core/domain/services"
	"quetzalship/internal/core/ports"
	"quetzalship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockIdempotencyLedger struct{ mock.Mock }

func (m *MockIdempotencyLedger) Add(ctx context.Context, record ports.IdempotencyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockIdempotencyLedger) Get(ctx context.Context, token string) (ports.IdempotencyRecord, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(ports.IdempotencyRecord), args.Error(1)
}

type MockCreateOrderUoW struct{ mock.Mock }

func (m *MockCreateOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCreateOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCreateOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCreateOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockCreateOrderUoW) IdempotencyLedger() ports.IdempotencyLedger {
	args := m.Called()
	return args.Get(0).(ports.IdempotencyLedger)
}

type MockCreateOrderUoWFactory struct{ mock.Mock }

func (m *MockCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	args := m.Called()
	return args.Get(0).(commands.CreateOrderUoW)
}

type MockOrderEventPublisher struct{ mock.Mock }

func (m *MockOrderEventPublisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderEventPublisher) PublishOrderCancelled(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// countingPriceCalculator wraps the real engine and counts invocations, so
// tests can assert that replays never price twice.
type countingPriceCalculator struct {
	engine services.PricingEngine
	calls  int
}

func (c *countingPriceCalculator) Calculate(req services.PricingRequest) (order.Breakdown, error) {
	c.calls++
	return c.engine.Calculate(req)
}

func storedOrder(t *testing.T, cmd commands.CreateOrderCommand) *order.Order {
	t.Helper()
	breakdown, err := services.NewPricingEngine().Calculate(services.PricingRequest{
		OriginZone:       cmd.OriginZone(),
		DestinationZone:  cmd.DestinationZone(),
		ServiceType:      cmd.ServiceType(),
		Packages:         cmd.Packages(),
		Discount:         cmd.Discount(),
		InsuranceEnabled: cmd.InsuranceEnabled(),
	})
	require.NoError(t, err)

	aggregate, err := order.NewOrder(
		kernel.NewOrderID(), time.Now().UTC(),
		cmd.OriginZone(), cmd.DestinationZone(), cmd.ServiceType(),
		cmd.Packages(), cmd.Discount(), cmd.InsuranceEnabled(), breakdown,
	)
	require.NoError(t, err)
	return aggregate
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateOrderCommand(t, "tok-1")

	repo := new(MockOrderRepository)
	ledger := new(MockIdempotencyLedger)
	uow := new(MockCreateOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("IdempotencyLedger").Return(ledger).Once(),
		ledger.On("Get", mock.Anything, "tok-1").
			Return(ports.IdempotencyRecord{}, errs.NewObjectNotFoundError("token", "tok-1")).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("IdempotencyLedger").Return(ledger).Once(),
		ledger.On("Add", mock.Anything, mock.AnythingOfType("ports.IdempotencyRecord")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCreateOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockOrderEventPublisher)
	publisher.On("PublishOrderCreated", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	pricing := &countingPriceCalculator{engine: services.NewPricingEngine()}
	h := commands.NewCreateOrderCommandHandler(factory, pricing, publisher)

	created, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, order.StatusActive, created.Status())
	assert.InDelta(t, 87.53, created.Total(), 1e-9)
	assert.Equal(t, 1, pricing.calls)

	repo.AssertExpectations(t)
	ledger.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_WithoutToken_SkipsLedger(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateOrderCommand(t, "")
	require.False(t, cmd.HasIdempotencyToken())

	repo := new(MockOrderRepository)
	ledger := new(MockIdempotencyLedger)
	uow := new(MockCreateOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCreateOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockOrderEventPublisher)
	publisher.On("PublishOrderCreated", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	pricing := &countingPriceCalculator{engine: services.NewPricingEngine()}
	h := commands.NewCreateOrderCommandHandler(factory, pricing, publisher)

	created, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, order.StatusActive, created.Status())
	assert.Equal(t, 1, pricing.calls)

	// A token-less creation never reads or writes the ledger.
	ledger.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ReplaySametokenSamePayload(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateOrderCommand(t, "tok-1")
	winner := storedOrder(t, cmd)

	repo := new(MockOrderRepository)
	ledger := new(MockIdempotencyLedger)
	uow := new(MockCreateOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("IdempotencyLedger").Return(ledger).Once(),
		ledger.On("Get", mock.Anything, "tok-1").
			Return(ports.IdempotencyRecord{
				Token:       "tok-1",
				PayloadHash: cmd.PayloadHash(),
				OrderID:     winner.ID(),
			}, nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, winner.ID()).Return(winner, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCreateOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockOrderEventPublisher)
	pricing := &countingPriceCalculator{engine: services.NewPricingEngine()}
	h := commands.NewCreateOrderCommandHandler(factory, pricing, publisher)

	replayed, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, replayed.IsEqual(winner))
	assert.Zero(t, pricing.calls)

	repo.AssertExpectations(t)
	ledger.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertNotCalled(t, "PublishOrderCreated", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_SameTokenDifferentPayload(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateOrderCommand(t, "tok-1")

	ledger := new(MockIdempotencyLedger)
	uow := new(MockCreateOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("IdempotencyLedger").Return(ledger).Once(),
		ledger.On("Get", mock.Anything, "tok-1").
			Return(ports.IdempotencyRecord{
				Token:       "tok-1",
				PayloadHash: "a-different-fingerprint",
				OrderID:     kernel.NewOrderID(),
			}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCreateOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	pricing := &countingPriceCalculator{engine: services.NewPricingEngine()}
	h := commands.NewCreateOrderCommandHandler(factory, pricing, new(MockOrderEventPublisher))

	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
	assert.Zero(t, pricing.calls)

	ledger.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_LosesTokenRace(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateOrderCommand(t, "tok-1")
	winner := storedOrder(t, cmd)

	repo := new(MockOrderRepository)
	ledger := new(MockIdempotencyLedger)

	// First transaction: token not claimed yet, then the ledger insert loses
	// the unique-constraint race.
	first := new(MockCreateOrderUoW)
	mock.InOrder(
		first.On("Begin", ctx).Return(nil).Once(),
		first.On("IdempotencyLedger").Return(ledger).Once(),
		ledger.On("Get", mock.Anything, "tok-1").
			Return(ports.IdempotencyRecord{}, errs.NewObjectNotFoundError("token", "tok-1")).Once(),
		first.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		first.On("IdempotencyLedger").Return(ledger).Once(),
		ledger.On("Add", mock.Anything, mock.AnythingOfType("ports.IdempotencyRecord")).
			Return(errs.NewPreconditionFailedError("idempotency token already claimed")).Once(),
	)
	first.On("Rollback", ctx).Return(nil)

	// Second transaction: resolve against the winner's record.
	second := new(MockCreateOrderUoW)
	mock.InOrder(
		second.On("Begin", ctx).Return(nil).Once(),
		second.On("IdempotencyLedger").Return(ledger).Once(),
		ledger.On("Get", mock.Anything, "tok-1").
			Return(ports.IdempotencyRecord{
				Token:       "tok-1",
				PayloadHash: cmd.PayloadHash(),
				OrderID:     winner.ID(),
			}, nil).Once(),
		second.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, winner.ID()).Return(winner, nil).Once(),
		second.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCreateOrderUoWFactory)
	factory.On("Create").Return(first).Once()
	factory.On("Create").Return(second).Once()

	pricing := &countingPriceCalculator{engine: services.NewPricingEngine()}
	h := commands.NewCreateOrderCommandHandler(factory, pricing, new(MockOrderEventPublisher))

	resolved, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, resolved.IsEqual(winner))
	assert.Equal(t, 1, pricing.calls)

	repo.AssertExpectations(t)
	ledger.AssertExpectations(t)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{} // not constructed properly

	factory := new(MockCreateOrderUoWFactory)
	pricing := &countingPriceCalculator{engine: services.NewPricingEngine()}
	h := commands.NewCreateOrderCommandHandler(factory, pricing, new(MockOrderEventPublisher))

	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := testCreateOrderCommand(t, "tok-1")

	uow := new(MockCreateOrderUoW)
	factory := new(MockCreateOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	pricing := &countingPriceCalculator{engine: services.NewPricingEngine()}
	h := commands.NewCreateOrderCommandHandler(factory, pricing, new(MockOrderEventPublisher))

	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}
