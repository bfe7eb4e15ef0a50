package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/bibbank/credit-module/internal/application/authz"
	"github.com/bibbank/credit-module/internal/application/usecase"
	"github.com/bibbank/credit-module/internal/domain/service"
	"github.com/bibbank/credit-module/internal/infrastructure/config"
	"github.com/bibbank/credit-module/internal/infrastructure/messaging"
	"github.com/bibbank/credit-module/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/credit-module/internal/infrastructure/seed"
	"github.com/bibbank/credit-module/internal/infrastructure/telemetry"
	grpcPresentation "github.com/bibbank/credit-module/internal/presentation/grpc"
	"github.com/bibbank/credit-module/internal/presentation/rest"
	"github.com/bibbank/credit-module/internal/presentation/transport"
	"github.com/bibbank/credit-module/pkg/auth"
	pkgkafka "github.com/bibbank/credit-module/pkg/kafka"
	"github.com/bibbank/credit-module/pkg/observability"
	pkgpostgres "github.com/bibbank/credit-module/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("credit-module exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting credit-module",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	recorder, err := telemetry.NewRecorder(otel.Meter(cfg.ServiceName))
	if err != nil {
		return fmt.Errorf("init business metrics: %w", err)
	}

	// Database.
	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: int32(cfg.DB.MaxConns),
	}

	if err := pkgpostgres.RunMigrations(dbCfg.DSN(), cfg.DB.MigrationsPath); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	dbCancel()
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	uow := postgres.NewUnitOfWork(pool)
	stores := postgres.NewStores(pool)

	if cfg.Seed.Enabled {
		seeder := seed.NewSeeder(uow, seed.Config{
			AdminPassword:    cfg.Seed.AdminPassword,
			CustomerPassword: cfg.Seed.CustomerPassword,
		}, logger)
		if err := seeder.Run(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	// Outbox relay.
	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLEnabled,
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	})
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer producer.Close()

	publisher := messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, logger)
	relay := messaging.NewOutboxRelay(stores.Outbox, publisher, cfg.Outbox.BatchSize, logger)
	if err := relay.Start(ctx, cfg.Outbox.Schedule); err != nil {
		return fmt.Errorf("start outbox relay: %w", err)
	}
	defer relay.Stop()

	// Auth.
	jwtCfg := auth.JWTConfig{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.JWTIssuer,
		Expiration: cfg.Auth.JWTTTL,
	}
	if cfg.Auth.JWTPrivateKeyFile != "" {
		key, err := auth.LoadKeyFromFile(cfg.Auth.JWTPrivateKeyFile)
		if err != nil {
			return fmt.Errorf("load JWT private key: %w", err)
		}
		jwtCfg.PrivateKeyPEM = key
	}
	jwtService, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return fmt.Errorf("init JWT service: %w", err)
	}

	// Use cases.
	services := transport.Services{
		CreateLoan:       usecase.NewCreateLoanUseCase(uow, service.NewLoanPolicy(), recorder),
		ListLoans:        usecase.NewListLoansUseCase(stores.Loans),
		ListInstallments: usecase.NewListInstallmentsUseCase(stores.Installments),
		PayLoan:          usecase.NewPayLoanUseCase(uow, service.NewPaymentAllocator(), recorder),
		IssueToken:       usecase.NewIssueTokenUseCase(stores.Users, jwtService),
		Authorizer:       authz.NewOwnershipAuthorizer(usecase.NewOwnershipQuery(stores.Users, stores.Loans)),
	}

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(grpcPresentation.ServerConfig{
		ServiceName: cfg.ServiceName,
		TLSCertFile: cfg.GRPC.TLSCertFile,
		TLSKeyFile:  cfg.GRPC.TLSKeyFile,
		Reflection:  cfg.GRPC.Reflection,
	}, grpcPresentation.NewCreditHandler(services, logger), jwtService, logger)
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	// HTTP server.
	health := rest.NewHealthHandler(cfg.ServiceName, func(ctx context.Context) error {
		return pkgpostgres.HealthCheck(ctx, pool)
	}, logger)
	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(services, rest.RouterConfig{
			Validator: jwtService,
			Health:    health,
			Metrics:   metricsHandler,
			Logger:    logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit-module stopped")
	return serveErr
}
