package main

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"volley-app/internal/config"
	"volley-app/internal/game"
	"volley-app/internal/logging"
	"volley-app/internal/season"
	"volley-app/internal/simulator"
	"volley-app/internal/store"
	"volley-app/internal/web"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Production() || cfg.Lambda)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	appStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("store", zap.Error(err))
	}
	if closer, ok := appStore.(io.Closer); ok {
		defer closer.Close()
	}

	svc := game.NewService(appStore, newSimulator(cfg), logger, game.Options{
		BenchSize:       cfg.Squad.BenchSize,
		StrictPositions: cfg.Squad.StrictPositions,
		SaveTimeout:     cfg.Squad.SaveTimeout,
		RevealDelay:     cfg.Sim.RevealDelay,
	})
	defer svc.Close()

	r := chi.NewRouter()
	r.Mount("/", web.NewServer(svc, logger).Routes())

	if cfg.Lambda {
		logger.Info("starting in lambda mode")
		adapter := httpadapter.New(r)
		lambda.Start(adapter.ProxyWithContext)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Season.AutoAdvanceInterval > 0 {
		sched, err := season.NewScheduler(logger)
		if err != nil {
			logger.Fatal("scheduler", zap.Error(err))
		}
		err = sched.StartAutoAdvance(cfg.Season.AutoAdvanceInterval, func(ctx context.Context) error {
			_, _, err := svc.AdvanceMatchday(ctx)
			if errors.Is(err, game.ErrSeasonFinished) {
				return nil
			}
			return err
		})
		if err != nil {
			logger.Fatal("scheduler", zap.Error(err))
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				logger.Warn("scheduler shutdown", zap.Error(err))
			}
		}()
	}

	httpServer := &http.Server{Addr: cfg.Addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info("starting locally", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func openStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch {
	case cfg.PostgresDSN != "":
		logger.Info("using postgres store")
		return store.NewPostgresStore(cfg.PostgresDSN, store.PostgresOptions{MigrationsDir: cfg.PostgresMigrationsDir})
	case cfg.DBPath != "":
		logger.Info("using sqlite store", zap.String("path", cfg.DBPath))
		return store.NewSQLiteStore(cfg.DBPath, store.SQLiteOptions{MigrationsDir: cfg.DBMigrationsDir})
	default:
		seed := !cfg.Production()
		logger.Info("using in-memory store", zap.Bool("seeded", seed))
		return store.NewMemoryStore(seed), nil
	}
}

func newSimulator(cfg *config.Config) *simulator.Simulator {
	var rng simulator.Random
	if cfg.Sim.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Sim.Seed))
	}
	return simulator.New(rng,
		simulator.WithOpponent(cfg.Sim.OpponentBase, cfg.Sim.OpponentSpread),
		simulator.WithDistribution(simulator.Distribution(cfg.Sim.Distribution)),
		simulator.WithTieBreak(simulator.TieBreak(cfg.Sim.TieBreak)),
	)
}
