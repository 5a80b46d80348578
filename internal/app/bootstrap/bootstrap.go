package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	votingsession "ballotbox/contexts/election-core/voting-session"
	ownerbridge "ballotbox/contexts/election-core/voting-session/adapters/ownership"
	votingpostgres "ballotbox/contexts/election-core/voting-session/adapters/postgres"
	votingworkers "ballotbox/contexts/election-core/voting-session/application/workers"
	ownership "ballotbox/contexts/identity-access/ownership-service"
	ownershipevents "ballotbox/contexts/identity-access/ownership-service/adapters/events"
	ownershippostgres "ballotbox/contexts/identity-access/ownership-service/adapters/postgres"
	"ballotbox/internal/platform/config"
	"ballotbox/internal/platform/db"
	"ballotbox/internal/platform/httpserver"
	"ballotbox/internal/platform/messaging"
	"ballotbox/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  votingworkers.OutboxRelay
	auditTrail   votingworkers.AuditTrailConsumer
	enabled      bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	ownerRepo := ownershippostgres.NewRepository(pg.DB, logger)
	ownershipModule := ownership.NewModule(ownership.Dependencies{
		Owners:    ownerRepo,
		Publisher: ownershipevents.NewPublisher(logger),
		Clock:     ownershippostgres.SystemClock{},
		IDGen:     ownershippostgres.UUIDGenerator{},
		Logger:    logger,
	})

	sessionRepo := votingpostgres.NewRepository(pg.DB, logger)
	votingModule := votingsession.NewModule(votingsession.Dependencies{
		Sessions: sessionRepo,
		Ownership: ownerbridge.Registry{
			Ownership: ownershipModule.Ownership,
			Queries:   ownershipModule.Queries,
		},
		Clock:  votingpostgres.SystemClock{},
		IDGen:  votingpostgres.UUIDGenerator{},
		Logger: logger,
	})

	server := httpserver.New(votingModule, ownershipModule, metrics.New(), logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	sessionRepo := votingpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: votingworkers.OutboxRelay{
			Outbox:    sessionRepo,
			Publisher: kafka,
			Clock:     votingpostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		auditTrail: votingworkers.AuditTrailConsumer{
			Subscriber:    kafka,
			Topics:        votingworkers.AuditTopics(),
			ConsumerGroup: "voting-session-audit-cg",
			Logger:        logger,
		},
		enabled:      cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.auditTrail.Start(ctx); err != nil {
		return err
	}

	if !w.enabled {
		w.logger.Info("outbox relay disabled, worker idle",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
