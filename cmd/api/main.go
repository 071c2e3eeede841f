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

	"github.com/eliteprep/eliteprep-api/internal/cache"
	"github.com/eliteprep/eliteprep-api/internal/coach"
	"github.com/eliteprep/eliteprep-api/internal/config"
	"github.com/eliteprep/eliteprep-api/internal/db"
	httpx "github.com/eliteprep/eliteprep-api/internal/http"
	"github.com/eliteprep/eliteprep-api/internal/observability"
	"github.com/eliteprep/eliteprep-api/internal/repo/memory"
	"github.com/eliteprep/eliteprep-api/internal/repo/mongodb"
	"github.com/eliteprep/eliteprep-api/internal/repo/postgres"
	"github.com/eliteprep/eliteprep-api/internal/security"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	for _, w := range cfg.Warnings {
		log.Warn("config", "warning", w)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if cfg.OTelEnabled {
		shutdownTracer, err := observability.InitTracer(ctx, cfg.Env, cfg.OTelEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			sctx, cancel := config.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_ = shutdownTracer(sctx)
		}()
	}

	prom := observability.NewProm()

	store, closeStore, err := openStore(ctx, cfg, prom, log)
	if err != nil {
		log.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	verifier, err := security.NewVerifier(cfg.PasswordScheme)
	if err != nil {
		log.Error("invalid password scheme", "err", err)
		os.Exit(1)
	}

	deps := httpx.Deps{
		Store:    store,
		Verifier: verifier,
		Prom:     prom,
	}

	switch cfg.AveragesCache {
	case config.CacheMemory:
		deps.Cache = cache.NewMemory(cfg.AveragesCacheTTL)
	case config.CacheRedis:
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.AveragesCacheTTL,
		})
		defer rc.Close()

		pctx, cancel := config.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pctx); err != nil {
			// reads fall back to the store on every cache error
			log.Warn("redis unreachable, averages cache degraded", "addr", cfg.RedisAddr, "err", err)
		}
		cancel()

		deps.Cache = rc
	}

	if cfg.OpenAIKey != "" {
		c, err := coach.NewOpenAICoach(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		if err != nil {
			log.Error("coach init failed", "err", err)
			os.Exit(1)
		}
		deps.Coach = c
	}

	sctx, cancel := config.WithTimeout(ctx, 5*time.Second)
	seeded, err := db.EnsureUser(sctx, store, verifier, cfg.SeedEmail, cfg.SeedPassword)
	cancel()
	if err != nil {
		log.Error("seed user failed", "email", cfg.SeedEmail, "err", err)
		os.Exit(1)
	}
	if seeded {
		log.Info("seed user created", "email", cfg.SeedEmail)
	}

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting",
			"port", cfg.Port,
			"env", cfg.Env,
			"store", cfg.StoreDriver,
			"averages_cache", cfg.AveragesCache,
			"coach", deps.Coach != nil,
		)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctxTimeOut := 10 * time.Second

		ctx, cancel := config.WithTimeout(ctx, ctxTimeOut)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

// openStore connects the configured driver and returns its cleanup.
func openStore(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (httpx.UserStore, func(), error) {
	cctx, cancel := config.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := db.NewPool(cctx, cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}

		if err := db.Migrate(cctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return postgres.NewUsersRepo(pool, prom), pool.Close, nil

	case config.StoreMongo:
		repo, err := mongodb.Connect(cctx, cfg.MongoURI, cfg.MongoDatabase, prom)
		if err != nil {
			return nil, nil, err
		}

		closeFn := func() {
			dctx, cancel := config.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := repo.Close(dctx); err != nil {
				log.Error("mongo disconnect failed", "err", err)
			}
		}

		return repo, closeFn, nil

	default:
		log.Warn("using in-memory store, data is lost on restart")
		return memory.NewUsersRepo(), func() {}, nil
	}
}
