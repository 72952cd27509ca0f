package paymentservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"taxi-trips/internal/general/config"
	"taxi-trips/internal/general/logger"
	"taxi-trips/internal/general/postgres"
	"taxi-trips/internal/general/rabbitmq"
	"taxi-trips/internal/software/payment/gateway"
	"taxi-trips/internal/software/payment/handler"
	"taxi-trips/internal/software/payment/service"
)

// Run wires the payment service and blocks until ctx is cancelled. The main
// workload is the settlement consumer; the HTTP server only serves payment
// lookups and health.
func Run(ctx context.Context, prefetch, maxConcurrent int) error {
	// set up a new logger and context for payment service with a static request ID for startup logs
	logger := logger.New("payment-service")
	ctx = logger.WithRequestID(ctx, "startup-001")

	// load a config from file
	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err, nil)
		return err
	}

	// set up a Postgres connection pool
	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err, nil)
		return err
	}
	defer pool.Close()

	// connect to RabbitMQ
	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}
	defer rmq.Close()

	// set up the repos and collaborators
	uow := postgres.NewUnitOfWork(pool)
	paymentRepo := postgres.NewPaymentRepo()
	captureGateway := gateway.NewSimulated(logger)

	// set up the payment service
	svc := service.NewPaymentService(logger, uow, paymentRepo, captureGateway, rmq, rmq, prefetch)

	// run the settlement consumer in the background
	go svc.RunBackgroundConsumer(ctx)

	// set up the HTTP handler and its routes
	mux := http.NewServeMux()
	httpHandler := handler.NewPaymentHTTPHandler(svc, logger)
	httpHandler.RegisterRoutes(mux)

	limitedHandler := withConcurrencyLimit(maxConcurrent, mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Services.PaymentServicePort),
		Handler:           limitedHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.Info(ctx, "service_started",
		fmt.Sprintf("Payment Service started on port %d", cfg.Services.PaymentServicePort),
		map[string]any{"port": cfg.Services.PaymentServicePort, "prefetch": prefetch, "max_concurrent": maxConcurrent},
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info(ctx, "shutdown_started", "Starting graceful shutdown", nil)
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_shutdown_failed", "Failed to gracefully shut down HTTP server", err, nil)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_server_error", "HTTP server terminated with error", err, map[string]any{"port": cfg.Services.PaymentServicePort})
			return err
		}
		return nil
	}

	return nil
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}: // acquire
			defer func() { <-sem }() // release
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
