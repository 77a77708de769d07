package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tably/api/routes"
	"tably/internal/assignment"
	"tably/internal/availability"
	"tably/internal/calendar"
	"tably/internal/escalation"
	"tably/internal/learning"
	"tably/internal/notifications"
	"tably/internal/reservations"
	"tably/internal/shared/clock"
	"tably/internal/shared/config"
	"tably/internal/shared/database"
	"tably/internal/tables"
	"tably/internal/waitlist"
	"tably/internal/weather"
	"tably/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog snapshot plus its background refresher.
	tableRepo := tables.NewRepository(db.GetPostgreSQL())
	catalog, err := tables.NewCatalog(ctx, tableRepo)
	if err != nil {
		appLogger.Error("failed to load table catalog", slog.Any("error", err))
		os.Exit(1)
	}
	refresher := tables.NewRefresher(catalog, cfg.Venue.CatalogRefreshInterval)
	refresher.Start(ctx)
	defer refresher.Stop()

	// Occupancy ledger: in-process by default, Redis for multi-process
	// deployments.
	var ledger availability.Ledger
	if cfg.Venue.UseRedisLedger && db.Redis != nil {
		ledger = availability.NewRedisLedger(db.GetRedisClient(), cfg.Redis.LedgerKeyTTL)
		appLogger.Info("Using Redis occupancy ledger")
	} else {
		ledger = availability.NewMemoryLedger()
		appLogger.Info("Using in-memory occupancy ledger")
	}

	clk := clock.New()
	advisor := weather.NewAdvisor(weather.NewHTTPProvider(cfg.Weather), cfg.Weather.CacheTTL, clk)
	aggregator := learning.NewAggregator(ctx, db.GetPostgreSQL())
	calendarService := calendar.NewService(db.GetPostgreSQL())
	reservationRepo := reservations.NewRepository(db.GetPostgreSQL())

	engine := assignment.NewEngine(assignment.Deps{
		Catalog:           catalog,
		Ledger:            ledger,
		Weather:           advisor,
		Learning:          aggregator,
		Store:             reservationRepo,
		TableStore:        tableRepo,
		Clock:             clk,
		Logger:            appLogger,
		AutoAssignCeiling: cfg.Venue.AutoAssignCeiling,
		HoldRetryLimit:    cfg.Venue.HoldRetryLimit,
	})

	policy := escalation.NewPolicy(calendarService, cfg.Venue.AutoAssignCeiling)

	// Messaging channel: Kafka when brokers are configured, log-only
	// fallback otherwise.
	var sender notifications.Sender
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSender, err := notifications.NewKafkaSender(cfg.Kafka)
		if err != nil {
			appLogger.Error("Kafka unavailable, falling back to log sender", slog.Any("error", err))
			sender = notifications.NewLogSender(appLogger)
		} else {
			defer kafkaSender.Close()
			sender = kafkaSender
			appLogger.Info("Kafka message sender initialized", slog.Any("brokers", cfg.Kafka.Brokers))
		}
	} else {
		sender = notifications.NewLogSender(appLogger)
		appLogger.Info("No Kafka brokers configured, using log sender")
	}

	waitlistRepo := waitlist.NewRepository(db.GetPostgreSQL())
	waitlistService := waitlist.NewService(waitlistRepo, sender, clk, appLogger,
		cfg.Waitlist.ConfirmWindow, cfg.Waitlist.SweepBatch)
	sweeper := waitlist.NewJobProcessor(waitlistService, cfg.Waitlist.SweepInterval, appLogger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	router := setupRouter(routes.Deps{
		Config:          cfg,
		DB:              db,
		TableService:    tables.NewService(tableRepo, catalog),
		CalendarService: calendarService,
		Engine:          engine,
		Policy:          policy,
		WaitlistService: waitlistService,
	})

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("venue", cfg.Venue.Name),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis_ledger", cfg.Venue.UseRedisLedger && db.Redis != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(deps routes.Deps) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	// Built-in middleware: logs requests + recovers from panics
	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRouter := routes.NewRouter(deps)
	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
