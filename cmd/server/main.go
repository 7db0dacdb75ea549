package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"docvault/internal/audit"
	audithandler "docvault/internal/audit/handler"
	"docvault/internal/facility"
	facilityhandler "docvault/internal/facility/handler"
	jwttoken "docvault/internal/jwt_token"
	"docvault/internal/ledger"
	"docvault/internal/platform/config"
	"docvault/internal/platform/httpserver"
	"docvault/internal/platform/logger"
	"docvault/internal/platform/metrics"
	platformredis "docvault/internal/platform/redis"
	"docvault/internal/registry"
	registryhandler "docvault/internal/registry/handler"
	"docvault/internal/registry/service"
	"docvault/internal/registry/store"
	httptransport "docvault/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Domain behavior
// lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]httptransport.HealthChecker{}

	// Command log: durable in Postgres when configured, in memory otherwise.
	var cmdLog registry.CommandLog
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		pgLog := store.NewPostgresLog(db)
		if err := pgLog.EnsureSchema(ctx); err != nil {
			log.Error("ensure command log schema", "error", err.Error())
			os.Exit(1)
		}
		cmdLog = pgLog
		checks["postgres"] = func(r *http.Request) error { return db.PingContext(r.Context()) }
		log.Info("command log backed by postgres")
	} else {
		cmdLog = store.NewInMemoryLog()
		log.Info("command log in memory, state will not survive restarts")
	}

	bus := registry.NewBus()

	// Audit trail consumes registry events in the background.
	auditStore := audit.NewInMemoryStore()
	var sink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("connect kafka", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit entries published to kafka", "topic", cfg.KafkaTopic)
	}
	auditWorker := audit.NewWorker(auditStore, sink, log, 256)
	bus.Subscribe(auditWorker.Intake())

	reg := registry.New(registry.WallClock{}, cmdLog, bus, log)
	if err := reg.Load(ctx); err != nil {
		log.Error("replay command log", "error", err.Error())
		os.Exit(1)
	}

	var transport ledger.Transport = ledger.NewLoopback()
	if cfg.LedgerRPCURL != "" {
		transport = ledger.NewLive(cfg.LedgerRPCURL, cfg.SubmitTimeout)
		log.Info("using live ledger transport", "endpoint", cfg.LedgerRPCURL)
	} else {
		log.Info("using loopback ledger transport")
	}

	coordinator := service.New(reg, transport, log, m)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "docvault", "docvault")
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService)

	// Facility directory, optionally cached in Redis.
	var facilityStore facility.Store = facility.NewInMemoryStore()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		facilityStore = facility.NewCachedStore(facilityStore, redisClient, config.FacilityCacheTTL)
		checks["redis"] = func(r *http.Request) error { return redisClient.Health(r.Context()) }
		log.Info("facility directory cached in redis")
	}
	if err := facility.Seed(ctx, facilityStore); err != nil {
		log.Error("seed facility directory", "error", err.Error())
		os.Exit(1)
	}
	directory := facility.NewDirectory(facilityStore)

	router := httptransport.NewRouter(checks,
		registryhandler.New(coordinator, log, m, jwtValidator),
		facilityhandler.New(directory, log, m),
		audithandler.New(auditStore, log, m, jwtValidator),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := auditWorker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting docvault", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
