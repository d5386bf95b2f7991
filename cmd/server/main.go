package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ajanda/internal/agenda/handler"
	agendametrics "ajanda/internal/agenda/metrics"
	"ajanda/internal/agenda/service"
	companystore "ajanda/internal/agenda/store/company"
	customerstore "ajanda/internal/agenda/store/customer"
	notestore "ajanda/internal/agenda/store/note"
	policystore "ajanda/internal/agenda/store/policy"
	reminderstore "ajanda/internal/agenda/store/reminder"
	"ajanda/internal/platform/config"
	"ajanda/internal/platform/httpserver"
	"ajanda/internal/platform/logger"
	platformredis "ajanda/internal/platform/redis"
	audit "ajanda/pkg/platform/audit"
	auditkafka "ajanda/pkg/platform/audit/kafka"
	auditmemory "ajanda/pkg/platform/audit/store/memory"
	"ajanda/pkg/platform/middleware/metadata"
	"ajanda/pkg/platform/middleware/requesttime"
)

// main wires the stores, the timeline service and the HTTP surface, then
// runs the refresh loop until shutdown. Business logic lives in the internal
// packages; everything here is assembly.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := agendametrics.New()

	var (
		policies  policystore.Store
		reminders reminderstore.Store
		notes     notestore.Store
		companies companystore.Store
		customers customerstore.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("database open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		policies = policystore.NewPostgres(db)
		reminders = reminderstore.NewPostgres(db)
		notes = notestore.NewPostgres(db)
		companies = companystore.NewPostgres(db)
		customers = customerstore.NewPostgres(db)
		log.Info("stores backed by postgres")
	} else {
		policies = policystore.NewInMemory()
		reminders = reminderstore.NewInMemory()
		notes = notestore.NewInMemory()
		companies = companystore.NewInMemory()
		customers = customerstore.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		companies = companystore.NewCached(companies, redisClient.Client, config.CompanyCacheTTL, log)
		log.Info("company list cache enabled")
	}

	var auditStore audit.Store
	if len(cfg.KafkaBrokers) > 0 {
		kafkaStore, err := auditkafka.New(ctx, cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		if err != nil {
			log.Error("kafka audit store failed", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
		log.Info("audit events flowing to kafka", "topic", cfg.KafkaAuditTopic)
	} else {
		auditStore = auditmemory.NewInMemoryStore()
		log.Warn("KAFKA_BROKERS not set, audit events held in memory")
	}
	auditor := audit.NewPublisher(auditStore, audit.WithAsyncBuffer(256), audit.WithLogger(log))
	defer auditor.Close()

	svc := service.NewTimeline(policies, reminders, notes, companies, customers,
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithAuditor(auditor),
	)
	if err := svc.Refresh(ctx); err != nil {
		log.Warn("initial refresh failed, serving empty agenda", "error", err)
	}

	go refreshLoop(ctx, svc, cfg.RefreshInterval)

	agendaHandler := handler.New(svc, log)
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(requesttime.Middleware)
	router.Use(metadata.Middleware)
	router.Route("/api/v1", agendaHandler.Routes)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				log.Error("health check failed", "error", err)
				http.Error(w, "redis unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)
	go func() {
		log.Info("agenda server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// refreshLoop keeps the snapshot current between user-triggered refreshes.
// Stale-generation discarding makes overlap with manual refreshes harmless.
func refreshLoop(ctx context.Context, svc *service.Timeline, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = svc.Refresh(ctx)
		}
	}
}
