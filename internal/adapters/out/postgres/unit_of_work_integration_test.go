package postgres_test

import (
	"context"
	"testing"
	"time"

	postgresadapter "quetzalship/internal/adapters/out/postgres"
	"quetzalship/internal/adapters/out/postgres/idemrepo"
	"quetzalship/internal/adapters/out/postgres/orderrepo"
	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/core/domain/services"
	"quetzalship/internal/core/ports"
	"quetzalship/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies that the order row and its
// idempotency ledger row commit and roll back as one transaction.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.PackageDTO{}, &idemrepo.RecordDTO{})
	suite.Require().NoError(err)

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, packages, idempotency_records").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	pkg, err := order.NewPackage(1, 10, 10, 10, false, 0)
	suite.Require().NoError(err)

	packages := []order.Package{pkg}
	breakdown, err := services.NewPricingEngine().Calculate(services.PricingRequest{
		OriginZone:      order.ZoneMetro,
		DestinationZone: order.ZoneMetro,
		ServiceType:     order.ServiceTypeStandard,
		Packages:        packages,
		Discount:        order.NoDiscount(),
	})
	suite.Require().NoError(err)

	aggregate, err := order.NewOrder(
		kernel.NewOrderID(),
		time.Now().UTC().Truncate(time.Microsecond),
		order.ZoneMetro,
		order.ZoneMetro,
		order.ServiceTypeStandard,
		packages,
		order.NoDiscount(),
		false,
		breakdown,
	)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsOrderAndLedgerTogether() {
	ctx := context.Background()
	aggregate := suite.createTestOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.OrderRepository().Add(ctx, aggregate))
	suite.Require().NoError(uow.IdempotencyLedger().Add(ctx, ports.IdempotencyRecord{
		Token:       "tok-1",
		PayloadHash: "hash-a",
		OrderID:     aggregate.ID(),
	}))

	suite.Require().NoError(uow.Commit(ctx))

	var orderCount, recordCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&idemrepo.RecordDTO{}).Count(&recordCount).Error)
	suite.Equal(int64(1), orderCount)
	suite.Equal(int64(1), recordCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsOrderAndLedgerTogether() {
	ctx := context.Background()
	aggregate := suite.createTestOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.OrderRepository().Add(ctx, aggregate))
	suite.Require().NoError(uow.IdempotencyLedger().Add(ctx, ports.IdempotencyRecord{
		Token:       "tok-1",
		PayloadHash: "hash-a",
		OrderID:     aggregate.ID(),
	}))

	suite.Require().NoError(uow.Rollback(ctx))

	var orderCount, recordCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&idemrepo.RecordDTO{}).Count(&recordCount).Error)
	suite.Zero(orderCount)
	suite.Zero(recordCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUncommittedChanges_InvisibleOutsideTransaction() {
	ctx := context.Background()
	aggregate := suite.createTestOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, aggregate))

	// A repository on the main connection must not see the uncommitted row.
	outside := postgresadapter.NewGormUnitOfWorkFactory(suite.db).Create()
	_, err := outside.OrderRepository().Get(ctx, aggregate.ID())
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_Fails() {
	ctx := context.Background()

	uow := suite.factory.Create()
	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentTokenClaims_SingleWinner() {
	ctx := context.Background()

	// Claim the token in a committed transaction, then try again from a
	// second unit of work. The unique constraint on the token column makes
	// the second claim fail with a precondition error.
	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	winner := suite.createTestOrder()
	suite.Require().NoError(first.OrderRepository().Add(ctx, winner))
	suite.Require().NoError(first.IdempotencyLedger().Add(ctx, ports.IdempotencyRecord{
		Token:       "tok-race",
		PayloadHash: "hash-a",
		OrderID:     winner.ID(),
	}))
	suite.Require().NoError(first.Commit(ctx))

	second := suite.factory.Create()
	suite.Require().NoError(second.Begin(ctx))
	loser := suite.createTestOrder()
	suite.Require().NoError(second.OrderRepository().Add(ctx, loser))

	err := second.IdempotencyLedger().Add(ctx, ports.IdempotencyRecord{
		Token:       "tok-race",
		PayloadHash: "hash-a",
		OrderID:     loser.ID(),
	})
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrPreconditionFailed)
	suite.Require().NoError(second.Rollback(ctx))

	// Only the winner's order and record remain.
	record, err := suite.factory.Create().IdempotencyLedger().Get(ctx, "tok-race")
	suite.Require().NoError(err)
	suite.Equal(winner.ID(), record.OrderID)

	var orderCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Equal(int64(1), orderCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentCancellations_SingleWinner() {
	ctx := context.Background()

	seed := suite.factory.Create()
	suite.Require().NoError(seed.Begin(ctx))
	aggregate := suite.createTestOrder()
	suite.Require().NoError(seed.OrderRepository().Add(ctx, aggregate))
	suite.Require().NoError(seed.Commit(ctx))

	// Both transactions read the order before either cancels: each observes
	// ACTIVE, exactly as two racing cancel requests would.
	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	firstCopy, err := first.OrderRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusActive, firstCopy.Status())

	second := suite.factory.Create()
	suite.Require().NoError(second.Begin(ctx))
	secondCopy, err := second.OrderRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusActive, secondCopy.Status())

	firstCancelledAt := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(firstCopy.Cancel(firstCancelledAt))
	suite.Require().NoError(first.OrderRepository().Update(ctx, firstCopy))
	suite.Require().NoError(first.Commit(ctx))

	// The second transaction still holds an ACTIVE copy, but its conditional
	// update matches nothing against the committed CANCELLED row.
	suite.Require().NoError(secondCopy.Cancel(firstCancelledAt.Add(time.Minute)))
	err = second.OrderRepository().Update(ctx, secondCopy)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrPreconditionFailed)
	suite.Require().NoError(second.Rollback(ctx))

	// The winner's cancellation timestamp is untouched.
	stored, err := suite.factory.Create().OrderRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusCancelled, stored.Status())
	suite.Require().NotNil(stored.CancelledAt())
	suite.Equal(firstCancelledAt, stored.CancelledAt().UTC())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
