package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FRWD789/je-m-inspire-sub000/internal/di"
	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/internal/gateway"
	"github.com/FRWD789/je-m-inspire-sub000/internal/handler"
	"github.com/FRWD789/je-m-inspire-sub000/internal/metrics"
	"github.com/FRWD789/je-m-inspire-sub000/internal/service"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/config"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/database"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/kafka"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/logger"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/middleware"
	pkgredis "github.com/FRWD789/je-m-inspire-sub000/pkg/redis"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       logLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting reservation engine",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn("Telemetry init failed", zap.Error(err))
	}
	defer telemetry.Shutdown(ctx)

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()

	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: 100 * time.Millisecond,
	})
	if err != nil {
		// Webhook dedupe degrades gracefully without Redis
		appLog.Warn("Redis connection failed", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var publisher service.EventPublisher = service.NewNoopPublisher()
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(&kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn("Kafka connection failed", zap.Error(err))
		} else {
			defer producer.Close()
			publisher = service.NewKafkaPublisher(producer, "reservation.lifecycle")
		}
	}

	m, err := metrics.New()
	if err != nil {
		appLog.Warn("Metrics init failed", zap.Error(err))
	}

	useMock := cfg.Stripe.SecretKey == "" && cfg.PayPal.ClientID == ""
	gateways, err := gateway.NewRegistryFromConfig(ctx, &gateway.RegistryConfig{
		Mock: useMock,
		Stripe: &gateway.StripeGatewayConfig{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
		},
		PayPal: &gateway.PayPalGatewayConfig{
			ClientID:  cfg.PayPal.ClientID,
			Secret:    cfg.PayPal.ClientSecret,
			WebhookID: cfg.PayPal.WebhookID,
			Live:      cfg.PayPal.Environment == "live",
		},
	})
	if err != nil {
		appLog.Fatal("Gateway init failed", zap.Error(err))
	}
	if useMock {
		appLog.Warn("No provider credentials configured, using mock gateways")
	}

	var stripeWebhooks handler.StripeWebhookParser
	var paypalWebhooks handler.PayPalWebhookParser
	if !useMock {
		if gw, err := gateways.Get(domain.ProviderStripe); err == nil {
			stripeWebhooks = gw.(*gateway.StripeGateway)
		}
		if gw, err := gateways.Get(domain.ProviderPayPal); err == nil {
			paypalWebhooks = gw.(*gateway.PayPalGateway)
		}
	}

	container := di.NewContainer(&di.ContainerConfig{
		DB:             db,
		Redis:          redisClient,
		Gateways:       gateways,
		StripeWebhooks: stripeWebhooks,
		PayPalWebhooks: paypalWebhooks,
		Publisher:      publisher,
		Metrics:        m,
		CheckoutCfg: &service.CheckoutServiceConfig{
			SuccessURL:      cfg.Checkout.SuccessURL,
			CancelURL:       cfg.Checkout.CancelURL,
			DefaultCurrency: cfg.Checkout.DefaultCurrency,
		},
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// Provider callbacks authenticate by signature, not by bearer token
	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/stripe", container.WebhookHandler.HandleStripe)
		webhooks.POST("/paypal", container.WebhookHandler.HandlePayPal)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/events", container.EventHandler.ListEvents)
		v1.GET("/events/:id", container.EventHandler.GetEvent)

		authed := v1.Group("")
		authed.Use(middleware.Auth(cfg.JWT.Secret, cfg.JWT.Issuer))
		{
			authed.POST("/checkout", container.CheckoutHandler.StartCheckout)
			authed.GET("/payments", container.PaymentHandler.ListPayments)
			authed.GET("/payments/session/:provider/:ref", container.PaymentHandler.GetPaymentBySession)
			authed.GET("/payments/:id", container.PaymentHandler.GetPaymentStatus)
			authed.GET("/reservations", container.PaymentHandler.ListReservations)
			authed.DELETE("/reservations/:id", container.ReservationHandler.CancelReservation)
			authed.GET("/reservations/:id/refund-requests", container.ReservationHandler.ListRefundRequests)
			authed.POST("/refund-requests", container.ReservationHandler.RequestRefund)

			authed.POST("/vendor/events/:id/cancel", container.EventHandler.CancelEvent)
			authed.GET("/vendor/commissions", container.PaymentHandler.ListCommissions)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		appLog.Info("Listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}
