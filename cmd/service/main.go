package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	application "dispatch/internal/app"
	"dispatch/internal/gateway/notification"
	"dispatch/internal/handlers/rest/courier_account_get"
	"dispatch/internal/handlers/rest/courier_deliveries_get"
	"dispatch/internal/handlers/rest/courier_get"
	"dispatch/internal/handlers/rest/courier_post"
	"dispatch/internal/handlers/rest/courier_put"
	"dispatch/internal/handlers/rest/couriers_get"
	"dispatch/internal/handlers/rest/deliveries_available_get"
	"dispatch/internal/handlers/rest/delivery_accept_post"
	"dispatch/internal/handlers/rest/delivery_get"
	"dispatch/internal/handlers/rest/delivery_post"
	"dispatch/internal/handlers/rest/delivery_rating_post"
	"dispatch/internal/handlers/rest/delivery_status_post"
	"dispatch/internal/handlers/rest/healthcheck_head"
	"dispatch/internal/handlers/rest/payment_initialize_post"
	"dispatch/internal/handlers/rest/payment_verify_get"
	"dispatch/internal/handlers/rest/payment_webhook_post"
	"dispatch/internal/handlers/rest/ping_get"
	"dispatch/internal/pkg/config"
	"dispatch/internal/pkg/dotenv"
	"dispatch/internal/pkg/kafka"
	metrics_system "dispatch/internal/pkg/metrics"
	"dispatch/internal/pkg/middlewares/graceful_shutdown"
	"dispatch/internal/pkg/middlewares/metrics"
	"dispatch/internal/pkg/middlewares/rate_limiter"
	"dispatch/internal/pkg/middlewares/timeout"
	"dispatch/internal/pkg/postgres"
	"dispatch/internal/pkg/redis"
	"dispatch/internal/repository/payment_cache"
	"dispatch/pkg/logger"
	"dispatch/pkg/logger/zap_adapter"
	"dispatch/pkg/token_bucket"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	loaded, envErr := dotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}

	zapLogger, err := zap_adapter.NewZapAdapter(cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With(logger.NewField("app", "dispatch-service"))

	mainLog.Info("starting dispatch service")
	switch {
	case envErr != nil:
		mainLog.Error("failed to load .env file", logger.ErrorField(envErr))
		return
	case !loaded:
		mainLog.Warn("no .env file found, using system environment variables")
	}

	if err := run(context.Background(), cfg, appLogger); err != nil {
		mainLog.Error("application failed", logger.ErrorField(err))
		return
	}
}

//nolint:contextcheck // shutdown contexts derive from context.Background() on purpose
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With(logger.NewField("component", "runner"))

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	cache, closeCache, err := newProcessedCache(ctx, log, cfg)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer closeCache()

	notifier, closeNotifier, err := newNotifier(ctx, log, cfg)
	if err != nil {
		return fmt.Errorf("notifications: %w", err)
	}
	defer closeNotifier()

	// The worker context outlives SIGTERM until the HTTP server has drained, so
	// reconcile runs are not cut off mid-batch.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	businessApp, err := application.InitializeApplication(workerCtx, log, pool, pgxv5.DefaultCtxGetter, notifier, cache, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}

	metrics_system.StartSystemMetricsCollector(workerCtx)

	// ongoingCtx is the BaseContext of every request. It is not cancelled on
	// SIGTERM, only after server.Shutdown() has let in-flight requests finish.
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, pool, businessApp, cfg.Server),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown, pool),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				pprofServerErr <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		runLog.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-pprofServerErr: // nil channel when pprof is disabled
		return fmt.Errorf("pprof server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx must not derive from ctx, which is already cancelled here.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.ErrorField(shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()
	stopWorkers()
	if err != nil || shutdownErr != nil {
		runLog.Info("graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	runLog.Info("server stopped")
	return nil
}

// newProcessedCache returns the Redis-backed processed-reference cache, or a
// no-op when Redis is not configured.
func newProcessedCache(ctx context.Context, log logger.Logger, cfg *config.Config) (application.ProcessedCache, func(), error) {
	client, err := redis.NewClient(ctx, log, &cfg.Redis)
	if errors.Is(err, redis.ErrNotConfigured) {
		log.Warn("redis is not configured, processed-reference cache disabled")
		return payment_cache.NewNop(), func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Error("failed to close redis client", logger.ErrorField(err))
		}
	}
	return payment_cache.New(client, cfg.Redis.ProcessedRefTTL), closeFn, nil
}

// newNotifier returns the Kafka notification publisher, or a no-op when no
// notifications topic is configured.
func newNotifier(ctx context.Context, log logger.Logger, cfg *config.Config) (application.Notifier, func(), error) {
	if cfg.Kafka.NotificationsTopic == "" {
		log.Warn("notifications topic is not configured, notifications disabled")
		return notification.Nop{}, func() {}, nil
	}

	producer, err := kafka.NewAsyncProducer(ctx, log, &cfg.Kafka)
	if err != nil {
		return nil, nil, err
	}

	publisher := notification.New(producer, cfg.Kafka.NotificationsTopic, log)
	closeFn := func() {
		if err := publisher.Close(); err != nil {
			log.Error("failed to close notification producer", logger.ErrorField(err))
		}
	}
	return publisher, closeFn, nil
}

func initRouter(
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	pool *pgxpool.Pool,
	app *application.Application,
	cfg config.HTTPServer,
) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(log, isShuttingDown, ongoingCtx))
	router.Use(timeout.Middleware(cfg.RequestTimeout))
	router.Use(metrics.Middleware(log))
	router.Use(rate_limiter.Middleware(log, cfg.RateLimiterQPS, token_bucket.NewTokenBucket(cfg.RateLimiterQPS, float64(cfg.RateLimiterBurst))))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, pool)).Methods(http.MethodHead)
	router.Handle("/ping", ping_get.New(log)).Methods(http.MethodGet)

	router.Handle("/courier", courier_post.New(log, app.ServiceCourier)).Methods(http.MethodPost)
	router.Handle("/courier", courier_put.New(log, app.ServiceCourier)).Methods(http.MethodPut)
	router.Handle("/courier/{id}", courier_get.New(log, app.ServiceCourier)).Methods(http.MethodGet)
	router.Handle("/couriers", couriers_get.New(log, app.ServiceCourier)).Methods(http.MethodGet)
	router.Handle("/courier/{id}/account", courier_account_get.New(log, app.ServiceEarnings)).Methods(http.MethodGet)
	router.Handle("/courier/{id}/deliveries", courier_deliveries_get.New(log, app.ServiceDelivery)).Methods(http.MethodGet)

	router.Handle("/delivery", delivery_post.New(log, app.ServiceDelivery)).Methods(http.MethodPost)
	router.Handle("/delivery/{id}", delivery_get.New(log, app.ServiceDelivery)).Methods(http.MethodGet)
	router.Handle("/deliveries/available", deliveries_available_get.New(log, app.ServiceDelivery)).Methods(http.MethodGet)
	router.Handle("/delivery/{id}/accept", delivery_accept_post.New(log, app.ServiceAcceptance)).Methods(http.MethodPost)
	router.Handle("/delivery/{id}/status", delivery_status_post.New(log, app.ServiceDelivery)).Methods(http.MethodPost)
	router.Handle("/delivery/{id}/rating", delivery_rating_post.New(log, app.ServiceDelivery)).Methods(http.MethodPost)

	router.Handle("/delivery/{id}/payment", payment_initialize_post.New(log, app.ServiceSettlement)).Methods(http.MethodPost)
	router.Handle("/payments/verify/{reference}", payment_verify_get.New(log, app.ServiceSettlement)).Methods(http.MethodGet)
	router.Handle("/payments/webhook", payment_webhook_post.New(log, app.ServiceSettlement)).Methods(http.MethodPost)

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool, pool *pgxpool.Pool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, pool)).Methods(http.MethodHead)
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
