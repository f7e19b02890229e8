package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cancelBookingHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_client_bookings"
	getPolicyHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_policy"
	getTenantBookingsHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_tenant_bookings"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/health"
	transitionStatusHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/transition_status"
	updatePolicyHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/update_policy"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/config"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/messaging"
	bookingRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/migrations"
	outboxRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/outbox"
	policyRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/policy"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/salonservice"
	bookingsService "github.com/m04kA/SMC-SalonScheduler/internal/service/bookings"
	outboxService "github.com/m04kA/SMC-SalonScheduler/internal/service/outbox"
	policyService "github.com/m04kA/SMC-SalonScheduler/internal/service/policy"
	createBookingUC "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-SalonScheduler/internal/usecase/get_availability"
	transitionStatusUC "github.com/m04kA/SMC-SalonScheduler/internal/usecase/transition_status"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduler/pkg/metrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/tracing"
	"github.com/m04kA/SMC-SalonScheduler/pkg/txmanager"
)

// NewServeCommand запускает HTTP API и relay outbox
func NewServeCommand(root *RootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduling HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.ConfigPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema migrations before start")

	return cmd
}

func serve(parent context.Context, cfg *config.Config, migrate bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting salon-scheduler...")

	// Трейсинг
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("Failed to flush traces: %v", err)
		}
	}()

	// Метрики (nil, если выключены: все потребители это допускают)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := openDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Successfully connected to database (driver=%s, host=%s, port=%d, db=%s)",
		cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if migrate {
		applied, err := migrations.Apply(ctx, db)
		if err != nil {
			return err
		}
		log.Info("Schema migrations applied: %d", len(applied))
	}

	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	policyRepository := policyRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)

	// Интеграции
	salonClient := salonservice.NewClient(
		cfg.SalonService.URL,
		time.Duration(cfg.SalonService.Timeout)*time.Second,
		log,
	)
	log.Info("SalonService client initialized (url=%s, timeout=%ds)", cfg.SalonService.URL, cfg.SalonService.Timeout)

	// Сервисы и use cases
	bookingSvc := bookingsService.NewService(bookingRepository, salonClient, log)
	policySvc := policyService.NewService(policyRepository, salonClient, log)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		policyRepository,
		salonClient,
		txMgr,
		metricsCollector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		outboxRepository,
		policyRepository,
		salonClient,
		txMgr,
		metricsCollector,
		log,
	)
	transitionStatusUseCase := transitionStatusUC.NewUseCase(
		bookingRepository,
		outboxRepository,
		policyRepository,
		txMgr,
		metricsCollector,
		log,
	)

	readyChecks := []health.Check{{Name: "postgres", Check: db.PingContext}}

	// Relay outbox -> Kafka
	if cfg.Kafka.Enabled {
		brokers := messaging.SplitBrokers(cfg.Kafka.Brokers)
		publisher := messaging.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
		defer publisher.Close()

		reader := outboxRepo.NewReader(sqlx.NewDb(db, cfg.Database.Driver))
		relay := outboxService.NewRelay(
			reader,
			publisher,
			metricsCollector,
			log,
			time.Duration(cfg.Kafka.PollInterval)*time.Millisecond,
			cfg.Kafka.BatchSize,
		)
		go relay.Run(ctx)

		readyChecks = append(readyChecks, health.Check{Name: "kafka", Check: messaging.ReadyCheck(brokers)})
		log.Info("Outbox relay started (brokers=%v, topic=%s)", brokers, cfg.Kafka.Topic)
	}

	// Ограничение запросов к публичной доступности
	var limiter *middleware.RateLimiter
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		defer rdb.Close()

		limiter = middleware.NewRateLimiter(
			rdb,
			cfg.Redis.RateLimitPerWindow,
			time.Duration(cfg.Redis.RateLimitWindow)*time.Second,
			"rl:availability",
		)
		readyChecks = append(readyChecks, health.Check{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		log.Info("Redis rate limiter enabled (addr=%s, %d req / %ds)",
			cfg.Redis.Addr, cfg.Redis.RateLimitPerWindow, cfg.Redis.RateLimitWindow)
	}

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	transitionStatus := transitionStatusHandler.NewHandler(transitionStatusUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(transitionStatusUseCase, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getPolicy := getPolicyHandler.NewHandler(policySvc, log)
	updatePolicy := updatePolicyHandler.NewHandler(policySvc, log)
	healthHandler := health.NewHandler(readyChecks...)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log.Slog(), metricsCollector))

	r.HandleFunc("/healthz", healthHandler.Live).Methods(http.MethodGet)
	r.HandleFunc("/readyz", healthHandler.Ready).Methods(http.MethodGet)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без X-Tenant-ID)
	// ============================================================

	var availability http.Handler = http.HandlerFunc(getAvailability.Handle)
	if limiter != nil {
		availability = limiter.Middleware(log, true)(availability)
	}
	api.Handle("/tenants/{tenantId}/availability", availability).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{tenantId}/policy", getPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Tenant-ID, X-User-ID опционален)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", transitionStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Управление салоном ---
	protected.HandleFunc("/tenants/{tenantId}/bookings", getTenantBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/policy", updatePolicy.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидаем сигнал завершения или падение сервера
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
