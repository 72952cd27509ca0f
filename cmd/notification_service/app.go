package notificationservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"taxi-trips/internal/general/config"
	"taxi-trips/internal/general/logger"
	"taxi-trips/internal/general/rabbitmq"
	"taxi-trips/internal/software/notification/mailer"
	"taxi-trips/internal/software/notification/service"
)

// Run wires the notification service and blocks until ctx is cancelled. The
// service is a pure consumer; the HTTP listener only answers health checks.
func Run(ctx context.Context, prefetch int) error {
	// set up a new logger and context for notification service with a static request ID for startup logs
	logger := logger.New("notification-service")
	ctx = logger.WithRequestID(ctx, "startup-001")

	// load a config from file
	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err, nil)
		return err
	}

	// connect to RabbitMQ
	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}
	defer rmq.Close()

	// set up the mailer and the notification service
	m := mailer.NewLogMailer(cfg, logger)
	svc := service.NewNotificationService(logger, m, rmq, prefetch)

	// run the dispatch consumer in the background
	go svc.RunBackgroundConsumer(ctx)

	// minimal HTTP surface: health only
	mux := http.NewServeMux()
	mux.HandleFunc("GET /notifications/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Services.NotificationServicePort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.Info(ctx, "service_started",
		fmt.Sprintf("Notification Service started on port %d", cfg.Services.NotificationServicePort),
		map[string]any{"port": cfg.Services.NotificationServicePort, "prefetch": prefetch},
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
			logger.Error(ctx, "http_server_error", "HTTP server terminated with error", err, map[string]any{"port": cfg.Services.NotificationServicePort})
			return err
		}
		return nil
	}

	return nil
}
