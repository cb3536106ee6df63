package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"certseal/internal/certificate"
	"certseal/internal/compliance"
	"certseal/internal/fraud"
	fraudstore "certseal/internal/fraud/store"
	"certseal/internal/integrity"
	"certseal/internal/platform/config"
	"certseal/internal/platform/httpserver"
	"certseal/internal/platform/logger"
	platformredis "certseal/internal/platform/redis"
	"certseal/internal/security"
	securityhandler "certseal/internal/security/handler"
	securitymetrics "certseal/internal/security/metrics"
	"certseal/internal/security/receipt"
	securitystore "certseal/internal/security/store"
	"certseal/internal/signature"
	httptransport "certseal/internal/transport/http"
	"certseal/internal/verifycode"
	audit "certseal/pkg/platform/audit"
	auditkafka "certseal/pkg/platform/audit/publishers/kafka"
	auditmemory "certseal/pkg/platform/audit/store/memory"
	auditpostgres "certseal/pkg/platform/audit/store/postgres"
	auditworker "certseal/pkg/platform/audit/worker"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	healthChecks := map[string]httptransport.HealthCheck{}

	// Fraud history: Redis when configured, otherwise process-local.
	var history fraud.HistoryStore = fraudstore.NewInMemoryHistoryStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		history = fraudstore.NewRedisHistoryStore(redisClient.Client, 0)
		healthChecks["redis"] = redisClient.Health
		log.Info("fraud history backed by redis")
	} else {
		log.Warn("redis not configured, duplicate detection is process-local")
	}

	// Audit trail: Postgres when configured, otherwise in-memory.
	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	if cfg.Postgres.DSN != "" {
		pool, poolErr := pgxpool.New(ctx, cfg.Postgres.DSN)
		if poolErr != nil {
			log.Error("postgres connection failed", slog.String("error", poolErr.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		pgStore := auditpostgres.New(pool)
		if migrateErr := pgStore.Migrate(ctx); migrateErr != nil {
			log.Error("audit schema migration failed", slog.String("error", migrateErr.Error()))
			os.Exit(1)
		}
		auditStore = pgStore
		healthChecks["postgres"] = pool.Ping
		log.Info("audit trail backed by postgres")
	} else {
		log.Warn("postgres not configured, audit trail is in-memory")
	}

	// Optional Kafka fan-out, fed through a queue so brokers never block
	// request handling.
	var sinks []audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, kafkaErr := auditkafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if kafkaErr != nil {
			log.Error("kafka connection failed", slog.String("error", kafkaErr.Error()))
			os.Exit(1)
		}
		defer kafkaSink.Close()

		queue := audit.NewChannelSink(1024, log)
		go func() {
			_ = auditworker.NewWorker(kafkaSink, queue.Inbox(), log).Run(ctx)
		}()
		sinks = append(sinks, queue)
		log.Info("audit events fanned out to kafka", slog.String("topic", cfg.Kafka.Topic))
	}
	auditor := audit.NewPublisher(audit.NewFanout(auditStore, log, sinks...))

	signer, err := signature.New([]byte(cfg.Security.MasterSecret), cfg.Security.Issuer)
	if err != nil {
		log.Error("signer init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	detector, err := fraud.New(history, fraud.WithLogger(log))
	if err != nil {
		log.Error("fraud detector init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	svc, err := security.NewService(
		verifycode.New(verifycode.WithLogger(log)),
		signer,
		integrity.New(),
		detector,
		compliance.New(),
		securitystore.NewInMemoryStore(),
		security.WithLogger(log),
		security.WithMetrics(securitymetrics.New()),
		security.WithAuditPublisher(auditor),
		security.WithDefaultLevel(certificate.SecurityLevel(cfg.Security.DefaultLevel)),
	)
	if err != nil {
		log.Error("security service init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	receipts, err := receipt.NewService([]byte(cfg.Security.ReceiptSigningKey), cfg.Security.Issuer)
	if err != nil {
		log.Error("receipt service init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handler := securityhandler.New(svc, receipts, log, securityhandler.WithAuditPublisher(auditor))
	router := httptransport.NewRouter(handler, log, healthChecks)
	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting certseal", slog.String("addr", cfg.Server.Addr))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
