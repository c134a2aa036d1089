package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/agroledger/internal/adapter/http"
	"github.com/iho/agroledger/internal/adapter/http/handler"
	"github.com/iho/agroledger/internal/adapter/http/middleware"
	"github.com/iho/agroledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/agroledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/agroledger/internal/adapter/repository/redis"
	"github.com/iho/agroledger/internal/infrastructure/config"
	"github.com/iho/agroledger/internal/infrastructure/metrics"
	"github.com/iho/agroledger/internal/infrastructure/postgres"
	"github.com/iho/agroledger/internal/infrastructure/redis"
	"github.com/iho/agroledger/internal/infrastructure/sweeper"
	"github.com/iho/agroledger/internal/usecase"
)

// stores groups the persistence ports for one backend.
type stores struct {
	txManager   usecase.TransactionManager
	ledgerRepo  usecase.LedgerRepository
	advanceRepo usecase.AdvanceRepository
	loanRepo    usecase.LoanRepository
	postingRepo usecase.InterestPostingRepository
	directory   interface {
		usecase.PartyDirectory
		handler.PartyLookup
	}
	guard       usecase.PartyGuard
	idempotency usecase.IdempotencyStore
	checks      map[string]handler.Checker
	closers     []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// app is the wired service.
type app struct {
	router      http.Handler
	rateLimiter *middleware.RateLimiter
	sweeper     *sweeper.OverdueSweeper
	stores      *stores
}

func (a *app) close() {
	a.stores.close()
}

func buildApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	var (
		st  *stores
		err error
	)
	if cfg.UseMemoryStore() {
		st, err = memoryStores(cfg, logger)
	} else {
		st, err = postgresStores(ctx, cfg, logger)
	}
	if err != nil {
		return nil, err
	}

	m := metrics.New(reg)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(logger)

	ledgerUC := usecase.NewLedgerUseCase(st.txManager, st.ledgerRepo, st.guard, retrier, idGen, logger, usecase.WithMetrics(m))
	loanUC := usecase.NewLoanUseCase(ledgerUC, st.advanceRepo, st.loanRepo, st.directory, cfg.Lending, idGen, logger, usecase.WithMetrics(m))
	interestUC := usecase.NewInterestUseCase(ledgerUC, st.ledgerRepo, st.postingRepo, st.directory, idGen, cfg.ChartConcurrency, logger, usecase.WithMetrics(m))
	reconUC := usecase.NewReconciliationUseCase(st.ledgerRepo, st.guard, logger, usecase.WithMetrics(m))

	var rl *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rl = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC, reconUC, st.directory),
		InterestHandler:  handler.NewInterestHandler(interestUC),
		AdvanceHandler:   handler.NewAdvanceHandler(loanUC),
		LoanHandler:      handler.NewLoanHandler(loanUC),
		HealthHandler:    handler.NewHealthHandler(st.checks),
		IdempotencyStore: st.idempotency,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rl,
		Metrics:          m,
		Gatherer:         reg,
		Logger:           logger,
	})

	a := &app{router: router, rateLimiter: rl, stores: st}
	if cfg.OverdueSweepInterval > 0 && len(cfg.OverdueSweepOrganizations) > 0 {
		a.sweeper = sweeper.NewOverdueSweeper(sweeper.Config{
			Marker:        loanUC,
			Organizations: cfg.OverdueSweepOrganizations,
			Logger:        logger,
			Interval:      cfg.OverdueSweepInterval,
		})
	}

	return a, nil
}

func memoryStores(cfg *config.Config, logger zerolog.Logger) (*stores, error) {
	store := memory.New()
	if cfg.MemorySeedFile != "" {
		if err := store.LoadSeedFile(cfg.MemorySeedFile); err != nil {
			return nil, err
		}
	}
	logger.Warn().Msg("using in-memory store, data is lost on restart")

	return &stores{
		txManager:   memory.NewTxManager(store),
		ledgerRepo:  memory.NewLedgerRepository(store),
		advanceRepo: memory.NewAdvanceRepository(store),
		loanRepo:    memory.NewLoanRepository(store),
		postingRepo: memory.NewInterestPostingRepository(store),
		directory:   memory.NewPartyDirectory(store),
		guard:       memory.NewPartyGuard(),
		idempotency: memory.NewIdempotencyStore(),
	}, nil
}

func postgresStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*stores, error) {
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info().Msg("connected to redis")

	return &stores{
		txManager:   postgresRepo.NewTxManager(pool),
		ledgerRepo:  postgresRepo.NewLedgerRepository(pool),
		advanceRepo: postgresRepo.NewAdvanceRepository(pool),
		loanRepo:    postgresRepo.NewLoanRepository(pool),
		postingRepo: postgresRepo.NewInterestPostingRepository(pool),
		directory:   postgresRepo.NewPartyDirectory(pool),
		guard:       redisRepo.NewPartyGuard(redisClient, cfg.LockTTL, logger),
		idempotency: redisRepo.NewIdempotencyStore(redisClient),
		checks: map[string]handler.Checker{
			"postgres": handler.CheckerFunc(pool.Ping),
			"redis":    redis.NewChecker(redisClient),
		},
		closers: []func(){
			pool.Close,
			func() { _ = redisClient.Close() },
		},
	}, nil
}
