// Package bootstrap arma las dependencias compartidas por la API y el CLI a partir de la configuración.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/assistant"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ledger"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/masterdata"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/ports"
	"github.com/jeffperkel/CPG-POD-TEST/internal/application/summary"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/catalog"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/pod"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain/repository"
	"github.com/jeffperkel/CPG-POD-TEST/internal/infrastructure/ai"
	"github.com/jeffperkel/CPG-POD-TEST/internal/infrastructure/cache"
	"github.com/jeffperkel/CPG-POD-TEST/internal/infrastructure/memory"
	"github.com/jeffperkel/CPG-POD-TEST/internal/infrastructure/postgres"
	"github.com/jeffperkel/CPG-POD-TEST/pkg/config"
	"github.com/jeffperkel/CPG-POD-TEST/pkg/logger"
)

// App casos de uso listos para los adaptadores de entrada.
type App struct {
	MasterData *masterdata.UseCase
	Ledger     *ledger.UseCase
	Summary    *summary.UseCase
	Assistant  *assistant.UseCase

	closers []func()
}

// Close libera pool y caché en orden inverso de apertura.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type storage struct {
	products     repository.ProductRepository
	retailers    repository.RetailerRepository
	transactions repository.TransactionRepository
	txRunner     ledger.TxRunner
}

// Build abre el almacenamiento elegido por STORAGE_DRIVER, siembra el catálogo si está vacío
// y construye los casos de uso. Redis y el LLM son opcionales: sin ellos se degrada sin fallar.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	app := &App{}

	store, err := openStorage(ctx, cfg, log, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	loc := cfg.App.Location()
	app.MasterData = masterdata.NewUseCase(store.products, store.retailers)
	app.Ledger = ledger.NewUseCase(store.txRunner, store.products, store.retailers,
		pod.NewResolver(cfg.Ledger.MatchThreshold),
		ledger.WithLocation(loc),
		ledger.WithLogger(log.Named("ledger")),
	)
	app.Summary = summary.NewUseCase(store.transactions,
		summary.WithCache(openCache(ctx, cfg.Redis, log, app), cfg.Summary.CacheTTL),
		summary.WithLocation(loc),
		summary.WithLogger(log.Named("summary")),
	)

	llm, err := ai.NewFromConfig(cfg.AI)
	if err != nil {
		app.Close()
		return nil, err
	}
	if llm == nil {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("asistente IA deshabilitado: falta API key o AI_PROVIDER=none")
	}
	app.Assistant = assistant.NewUseCase(llm, app.Summary, log.Named("assistant"))
	return app, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger, app *App) (*storage, error) {
	if cfg.App.Storage == "memory" {
		store := memory.NewSeededStore()
		log.Warn().Msg("almacenamiento en memoria: el libro se pierde al reiniciar")
		return &storage{
			products:     store.Products(),
			retailers:    store.Retailers(),
			transactions: store.Transactions(),
			txRunner:     store,
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conectar a PostgreSQL: %w", err)
	}
	app.closers = append(app.closers, pool.Close)

	if err := postgres.Migrate(ctx, pool); err != nil {
		return nil, err
	}
	np, nr, err := postgres.Seed(ctx, pool, catalog.DefaultProducts, catalog.DefaultRetailers)
	if err != nil {
		return nil, err
	}
	if np > 0 || nr > 0 {
		log.Info().Int("products", np).Int("retailers", nr).Msg("catálogo sembrado")
	}

	return &storage{
		products:     postgres.NewProductRepository(pool),
		retailers:    postgres.NewRetailerRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		txRunner:     postgres.NewTxRunner(pool),
	}, nil
}

func openCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger, app *App) ports.SummaryCache {
	if cfg.Addr == "" {
		return cache.NoopCache{}
	}
	rc := cache.NewRedisCache(cfg.Addr, cfg.Password, cfg.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis no disponible, resumen sin caché")
		_ = rc.Close()
		return cache.NoopCache{}
	}
	app.closers = append(app.closers, func() { _ = rc.Close() })
	log.Info().Str("addr", cfg.Addr).Msg("caché Redis conectada")
	return rc
}
