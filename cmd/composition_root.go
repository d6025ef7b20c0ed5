package cmd

import (
	"log/slog"
	"strings"
	"time"

	"quetzalship/internal/adapters/out/fx"
	"quetzalship/internal/adapters/out/kafka"
	"quetzalship/internal/adapters/out/postgres"
	"quetzalship/internal/core/application/usecases/commands"
	"quetzalship/internal/core/application/usecases/queries"
	"quetzalship/internal/core/domain/services"
	"quetzalship/internal/core/ports"
	"quetzalship/internal/jobs"
	"quetzalship/internal/metrics"

	"gorm.io/gorm"
)

const fxProviderTimeout = 3 * time.Second

// CompositionRoot wires adapters into use case handlers. All dependencies
// are created once and shared.
type CompositionRoot struct {
	gormDB       *gorm.DB
	uowFactory   *postgres.GormUnitOfWorkFactory
	pricing      services.PricingEngine
	publisher    *kafka.OrderEventPublisher
	rateCache    *fx.RedisRateCache
	rateProvider *fx.ChainRateProvider
	registry     *metrics.Registry
	logger       *slog.Logger
	currencies   []string
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	rateCache := fx.NewRedisRateCache(config.RedisAddr)
	rateProvider := fx.NewChainRateProvider(
		rateCache,
		fx.NewProviderClient("primary", config.FxPrimaryURL, fxProviderTimeout),
		fx.NewProviderClient("secondary", config.FxSecondaryURL, fxProviderTimeout),
		logger,
	)

	return &CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   postgres.NewGormUnitOfWorkFactory(gormDB),
		pricing:      services.NewPricingEngine(),
		publisher:    kafka.NewOrderEventPublisher(strings.Split(config.KafkaHost, ","), config.KafkaOrderEventTopic, logger),
		rateCache:    rateCache,
		rateProvider: rateProvider,
		registry:     metrics.NewRegistry(),
		logger:       logger,
		currencies:   splitCurrencies(config.FxRefreshCurrencies),
	}
}

func splitCurrencies(configured string) []string {
	currencies := make([]string, 0)
	for _, currency := range strings.Split(configured, ",") {
		currency = strings.ToUpper(strings.TrimSpace(currency))
		if currency != "" {
			currencies = append(currencies, currency)
		}
	}
	return currencies
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.CreateOrderUoWFactory = FuncCreateOrderUoWFactory(func() commands.CreateOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.pricing, c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGenerateReceiptQueryHandler() queries.GenerateReceiptQueryHandler {
	return queries.NewGenerateReceiptQueryHandler(c.CreateGetOrderQueryHandler())
}

func (c *CompositionRoot) CreateConvertCurrencyQueryHandler() queries.ConvertCurrencyQueryHandler {
	return queries.NewConvertCurrencyQueryHandler(c.CreateGetOrderQueryHandler(), c.RateProvider())
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.rateProvider, c.currencies, c.logger)
}

func (c *CompositionRoot) RateProvider() ports.RateProvider {
	return c.rateProvider
}

func (c *CompositionRoot) MetricsRegistry() *metrics.Registry {
	return c.registry
}

// Close releases the long-lived adapter resources.
func (c *CompositionRoot) Close() {
	if err := c.publisher.Close(); err != nil {
		c.logger.Error("failed to close kafka publisher", "error", err)
	}
	if err := c.rateCache.Close(); err != nil {
		c.logger.Error("failed to close redis cache", "error", err)
	}
}

type FuncCreateOrderUoWFactory func() commands.CreateOrderUoW

func (f FuncCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
