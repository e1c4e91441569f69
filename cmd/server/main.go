package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"kontra/internal/audit"
	"kontra/internal/billing"
	"kontra/internal/check"
	"kontra/internal/history"
	"kontra/internal/platform/config"
	"kontra/internal/platform/httpserver"
	"kontra/internal/platform/logger"
	"kontra/internal/platform/metrics"
	"kontra/internal/platform/postgres"
	"kontra/internal/platform/redis"
	"kontra/internal/provider"
	"kontra/internal/quota"
	"kontra/internal/report"
	"kontra/internal/risk"
	"kontra/internal/token"
	httptransport "kontra/internal/transport/http"
)

// main wires the dependency graph and owns the process lifecycle. Business
// logic lives in the internal service packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: postgres when DATABASE_URL is set, in-memory otherwise.
	var (
		quotaStore   quota.Store   = quota.NewInMemoryStore()
		historyStore history.Store = history.NewInMemoryStore()
		billingStore billing.Store = billing.NewInMemoryStore()
	)
	healthChecks := map[string]httptransport.HealthCheck{}

	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		quotaStore = quota.NewPostgresStore(db)
		historyStore = history.NewPostgresStore(db)
		billingStore = billing.NewPostgresStore(db)
		healthChecks["postgres"] = db.Health
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	var cache check.CompanyCache = check.NewMemoryCache(cfg.BundleCacheTTL)
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = check.NewRedisCache(redisClient, cfg.BundleCacheTTL)
		healthChecks["redis"] = redisClient.Health
		log.Info("using redis bundle cache")
	}

	registry, err := provider.New(cfg.Provider)
	if err != nil {
		return err
	}

	// Audit pipeline: events flow through a buffered publisher into a sink
	// drained by a background worker.
	var sink audit.Sink = audit.NewInMemoryStore()
	if len(cfg.Audit.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Audit)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit events go to kafka", slog.Any("brokers", cfg.Audit.KafkaBrokers))
	}
	publisher := audit.NewPublisher(audit.WithLogger(log))
	worker := audit.NewWorker(sink, publisher.Inbox(), log)

	quotaSvc := quota.NewService(quotaStore,
		quota.WithAdmins(cfg.AdminUsers),
		quota.WithFreeChecks(cfg.FreeChecks),
		quota.WithLogger(log))
	historySvc := history.NewService(historyStore,
		history.WithLogger(log),
		history.WithAudit(publisher))

	var billingSvc httptransport.BillingService
	if cfg.Billing.ShopID != "" {
		payments, err := billing.NewClient(cfg.Billing)
		if err != nil {
			return err
		}
		billingSvc = billing.NewService(payments, billingStore, quotaSvc,
			billing.WithLogger(log),
			billing.WithAudit(publisher))
	} else {
		log.Warn("BILLING_SHOP_ID not set, payments disabled")
	}

	checkSvc := check.NewService(registry, quotaSvc, risk.New(), historySvc, cache, publisher,
		check.WithLogger(log),
		check.WithMetrics(metrics.New()),
		check.WithRenderer(report.NewChromiumRenderer()))

	tokens := token.NewService(cfg.JWTSigningKey)
	handler := httptransport.NewHandler(checkSvc, quotaSvc, historySvc, billingSvc, log)
	router := httptransport.NewRouter(handler, tokens, quotaSvc.IsAdmin, log, healthChecks)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(ctx)
	})
	g.Go(func() error {
		log.Info("server listening", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
