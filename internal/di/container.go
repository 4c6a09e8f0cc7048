package di

import (
	"github.com/FRWD789/je-m-inspire-sub000/internal/gateway"
	"github.com/FRWD789/je-m-inspire-sub000/internal/handler"
	"github.com/FRWD789/je-m-inspire-sub000/internal/metrics"
	"github.com/FRWD789/je-m-inspire-sub000/internal/repository"
	"github.com/FRWD789/je-m-inspire-sub000/internal/service"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/database"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/redis"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/retry"
)

// Container holds all dependencies for the reservation engine
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories and stores
	EventRepo       repository.EventRepository
	ReservationRepo repository.ReservationRepository
	PaymentRepo     repository.PaymentRepository
	CommissionRepo  repository.CommissionRepository
	RefundRepo      repository.RefundRequestRepository
	VendorRepo      repository.VendorRepository
	CheckoutStore   repository.CheckoutStore
	Reconciliation  repository.ReconciliationStore

	// Gateways
	Gateways *gateway.Registry

	// Services
	CheckoutService       service.CheckoutService
	ReconciliationService service.ReconciliationService
	PaymentService        service.PaymentService
	EventService          service.EventService
	RefundService         service.RefundService

	// Handlers
	CheckoutHandler    *handler.CheckoutHandler
	PaymentHandler     *handler.PaymentHandler
	ReservationHandler *handler.ReservationHandler
	EventHandler       *handler.EventHandler
	WebhookHandler     *handler.WebhookHandler
	HealthHandler      *handler.HealthHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB       *database.PostgresDB
	Redis    *redis.Client
	Gateways *gateway.Registry

	// Stripe and PayPal parse their own webhook deliveries; nil disables
	// the corresponding endpoint
	StripeWebhooks handler.StripeWebhookParser
	PayPalWebhooks handler.PayPalWebhookParser

	Publisher     service.EventPublisher
	Metrics       *metrics.Metrics
	CheckoutCfg   *service.CheckoutServiceConfig
	RefundRetries *retry.Config
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:       cfg.DB,
		Redis:    cfg.Redis,
		Gateways: cfg.Gateways,
	}

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = service.NewNoopPublisher()
	}

	// Repositories
	c.EventRepo = repository.NewPostgresEventRepository(c.DB)
	c.ReservationRepo = repository.NewPostgresReservationRepository(c.DB)
	c.PaymentRepo = repository.NewPostgresPaymentRepository(c.DB)
	c.CommissionRepo = repository.NewPostgresCommissionRepository(c.DB)
	c.RefundRepo = repository.NewPostgresRefundRequestRepository(c.DB)
	c.VendorRepo = repository.NewPostgresVendorRepository(c.DB)
	c.CheckoutStore = repository.NewPostgresCheckoutStore(c.DB)
	c.Reconciliation = repository.NewPostgresReconciliationStore(c.DB)

	// Services
	var deduper service.WebhookDeduper
	if c.Redis != nil {
		deduper = service.NewRedisWebhookDeduper(c.Redis)
	}

	c.CheckoutService = service.NewCheckoutService(
		c.EventRepo, c.VendorRepo, c.PaymentRepo, c.CheckoutStore,
		c.Gateways, publisher, cfg.Metrics, cfg.CheckoutCfg,
	)
	c.ReconciliationService = service.NewReconciliationService(
		c.Reconciliation, c.Gateways, deduper, publisher, cfg.Metrics, cfg.RefundRetries,
	)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.ReservationRepo, c.CommissionRepo, c.EventRepo)
	c.EventService = service.NewEventService(c.EventRepo, c.Reconciliation, publisher)
	c.RefundService = service.NewRefundService(c.ReservationRepo, c.PaymentRepo, c.RefundRepo, publisher)

	// Handlers
	c.CheckoutHandler = handler.NewCheckoutHandler(c.CheckoutService)
	c.PaymentHandler = handler.NewPaymentHandler(c.PaymentService)
	c.ReservationHandler = handler.NewReservationHandler(c.ReconciliationService, c.RefundService)
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.WebhookHandler = handler.NewWebhookHandler(cfg.StripeWebhooks, cfg.PayPalWebhooks, c.ReconciliationService)
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)

	return c
}
