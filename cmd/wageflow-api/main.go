package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wageflow/wageflow-backend/internal/auth/jwt"
	"github.com/wageflow/wageflow-backend/internal/workforce/events"
	"github.com/wageflow/wageflow-backend/internal/workforce/handler"
	"github.com/wageflow/wageflow-backend/internal/workforce/repository"
	"github.com/wageflow/wageflow-backend/internal/workforce/service"
	"github.com/wageflow/wageflow-backend/migrations"
	"github.com/wageflow/wageflow-backend/pkg/config"
	"github.com/wageflow/wageflow-backend/pkg/database"
	"github.com/wageflow/wageflow-backend/pkg/httputil"
	"github.com/wageflow/wageflow-backend/pkg/logger"
	"github.com/wageflow/wageflow-backend/pkg/messaging"
)

const serviceName = "wageflow-api"

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Server.Environment, cfg.Server.LogLevel)
	log.Info().Msg("starting WageFlow API")

	loc, err := cfg.Server.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone")
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(cfg.Database.ConnectionURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
		log.Info().Msg("migrations applied")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Messaging is optional; without it events are dropped.
	var (
		rmq       *messaging.RabbitMQ
		publisher *events.PayrollEventPublisher
	)
	if cfg.RabbitMQ.Enabled {
		rmq, err = messaging.New(ctx, &cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		publisher, err = events.NewRabbitMQPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		go rmq.Watch(ctx)
	} else {
		log.Info().Msg("messaging disabled, payroll events will not be published")
		publisher = events.NewPayrollEventPublisher(messaging.NopPublisher{}, log)
	}

	limiterStore, closeStore, err := httputil.NewLimiterStore(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create rate limiter store")
	}
	defer closeStore()

	rateLimit, err := httputil.RateLimit(cfg.RateLimit, limiterStore, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid rate limit")
	}

	// Initialize repositories
	employeeRepo := repository.NewEmployeeRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	siteTransactionRepo := repository.NewSiteTransactionRepository(db)

	// Initialize services
	attendanceService := service.NewAttendanceService(employeeRepo, siteRepo, attendanceRepo, loc, log)
	ledgerService := service.NewLedgerService(ledgerRepo)
	salaryService := service.NewSalaryService(transactionRepo, publisher, time.Now, loc, log)
	transactionService := service.NewTransactionService(employeeRepo, transactionRepo, publisher, log)
	siteIncomeService := service.NewSiteIncomeService(siteRepo, siteTransactionRepo, log)

	// Initialize handlers
	handlers := &handler.Handlers{
		Attendance:   handler.NewAttendanceHandler(attendanceService, loc, log),
		Ledger:       handler.NewLedgerHandler(ledgerService, loc, log),
		Salary:       handler.NewSalaryHandler(salaryService, log),
		Transactions: handler.NewTransactionHandler(transactionService, loc, log),
		SiteIncome:   handler.NewSiteIncomeHandler(siteIncomeService, loc, log),
	}

	health := func(ctx context.Context) map[string]any {
		status := map[string]any{
			"status":   "healthy",
			"service":  serviceName,
			"database": db.Health(ctx),
		}
		if rmq != nil {
			status["rabbitmq"] = rmq.Health()
		} else {
			status["rabbitmq"] = map[string]string{"status": "disabled"}
		}
		return status
	}

	r := newRouter(routerDeps{
		allowedOrigins: cfg.Server.AllowedOrigins,
		trustProxy:     cfg.RateLimit.TrustForwardHeader,
		auth:           jwt.NewManager(&cfg.JWT),
		rateLimit:      rateLimit,
		handlers:       handlers,
		health:         health,
		logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Str("timezone", loc.String()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
