package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/receptionist/cmd/mainconfig"
	"github.com/clinicdesk/receptionist/internal/analytics"
	"github.com/clinicdesk/receptionist/internal/api/router"
	"github.com/clinicdesk/receptionist/internal/auth"
	appconfig "github.com/clinicdesk/receptionist/internal/config"
	"github.com/clinicdesk/receptionist/internal/doctors"
	"github.com/clinicdesk/receptionist/internal/events"
	"github.com/clinicdesk/receptionist/internal/http/handlers"
	"github.com/clinicdesk/receptionist/internal/notify"
	"github.com/clinicdesk/receptionist/internal/observability/metrics"
	"github.com/clinicdesk/receptionist/internal/scheduling"
	"github.com/clinicdesk/receptionist/internal/users"
	"github.com/clinicdesk/receptionist/internal/visitors"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting receptionist API server", "env", cfg.Env, "port", cfg.Port)

	calendar, err := scheduling.NewCalendar(
		cfg.WorkingHoursStart, cfg.WorkingHoursEnd, cfg.SlotMinutes,
		cfg.WorkingDays, cfg.FacilityHolidays, cfg.FacilityTZ,
	)
	if err != nil {
		logger.Error("invalid calendar configuration", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	schedMetrics := metrics.NewSchedulingMetrics(registry)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store       scheduling.Store
		directory   doctors.Repository
		userRepo    users.Repository
		visitorRepo visitors.Repository
		recorder    scheduling.EventRecorder
		summarizer  analytics.Summarizer
	)

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(runCtx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		store = scheduling.NewPostgresStore(pool)
		directory = doctors.NewPostgresRepository(pool)
		userRepo = users.NewPostgresRepository(pool)
		visitorRepo = visitors.NewPostgresRepository(pool)

		outbox := events.NewOutboxStore(pool)
		eventsLogger := logger.Named("events")
		recorder = events.NewRecorder(outbox, eventsLogger)
		go events.NewDeliverer(outbox, buildDeliveryHandler(runCtx, cfg, eventsLogger), eventsLogger).
			WithInterval(cfg.OutboxPollInterval).
			Start(runCtx)

		// Reporting runs on its own database/sql handle so dashboard scans
		// never compete with the booking pool.
		reportDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open reporting connection", "error", err)
			os.Exit(1)
		}
		defer func() { _ = reportDB.Close() }()
		summarizer = buildSummarizer(cfg, reportDB, logger)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		store = scheduling.NewMemoryStore()
		directory = seedDirectory()
		userRepo = users.NewInMemoryRepository()
		visitorRepo = visitors.NewInMemoryRepository()
	}

	engine := scheduling.NewEngine(store, directory, calendar, logger).
		WithScorer(scheduling.HeuristicScorer{}).
		WithMetrics(schedMetrics).
		WithHorizonDays(cfg.SearchHorizonDays).
		WithTolerance(time.Duration(cfg.ScorerToleranceMins) * time.Minute).
		WithStoreTimeout(cfg.StoreTimeout)
	if recorder != nil {
		engine = engine.WithEvents(recorder)
	}

	issuer := auth.NewTokenIssuer(cfg.AuthJWTSecret, 24*time.Hour)
	authSvc := auth.NewService(userRepo, issuer, logger)

	routerCfg := &router.Config{
		Logger:             logger,
		Auth:               handlers.NewAuthHandler(authSvc, logger),
		Appointments:       handlers.NewAppointmentsHandler(engine, logger),
		Visitors:           handlers.NewVisitorsHandler(visitorRepo, logger),
		TokenIssuer:        issuer,
		StaffAuthSecret:    cfg.StaffJWTSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSOrigins,
		AuthRateLimit:      5,
	}
	if summarizer != nil {
		routerCfg.Analytics = handlers.NewAnalyticsHandler(summarizer, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-runCtx.Done()
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildDeliveryHandler assembles the outbox fanout from whatever transports
// are configured; with none, events still land in the log.
func buildDeliveryHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) events.DeliveryHandler {
	var fanout events.Fanout

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	awsReady := err == nil
	if !awsReady {
		logger.Warn("AWS config unavailable, skipping SQS and SES transports", "error", err)
	}

	if awsReady && cfg.EventsQueueURL != "" {
		fanout = append(fanout, events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL))
	}

	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	} else if awsReady && cfg.SESFromEmail != "" {
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	}
	if sender != nil {
		fanout = append(fanout, events.NewEmailNotifier(sender, logger))
	}

	if len(fanout) == 0 {
		return events.NewLogHandler(logger)
	}
	return fanout
}

func buildSummarizer(cfg *appconfig.Config, db *sql.DB, logger *logging.Logger) analytics.Summarizer {
	store := analytics.NewStore(db)
	if cfg.RedisAddr == "" {
		return store
	}
	opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return analytics.NewCachedStore(store, redis.NewClient(opts), cfg.AnalyticsTTL, logger)
}

// seedDirectory mirrors the seed data so the in-memory mode answers the same
// questions a seeded database would.
func seedDirectory() *doctors.InMemoryRepository {
	directory := doctors.NewInMemoryRepository()
	directory.Add("Dr. Smith", "General Medicine")
	directory.Add("Dr. Johnson", "Cardiology")
	directory.Add("Dr. Williams", "Dermatology")
	directory.Add("Dr. Brown", "Orthopedics")
	directory.Add("Dr. Jones", "Pediatrics")

	directory.MapDisease("fever", "General Medicine")
	directory.MapDisease("cold", "General Medicine")
	directory.MapDisease("chest pain", "Cardiology")
	directory.MapDisease("hypertension", "Cardiology")
	directory.MapDisease("rash", "Dermatology")
	directory.MapDisease("acne", "Dermatology")
	directory.MapDisease("back pain", "Orthopedics")
	directory.MapDisease("fracture", "Orthopedics")
	directory.MapDisease("child fever", "Pediatrics")
	return directory
}
