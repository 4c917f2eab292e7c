// internal/app/runtime.go
package app

import (
	"context"
	"fmt"
	"time"

	"finops-assessment/internal/catalog"
	"finops-assessment/internal/common/config"
	"finops-assessment/internal/common/database"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/observability"
	"finops-assessment/internal/evaluator"
	"finops-assessment/internal/oracle"
	"finops-assessment/internal/recommendations"
	"finops-assessment/internal/service"
	"finops-assessment/internal/store"
)

// Runtime holds the connections and the assessment service shared by the
// manager and the admin tool.
type Runtime struct {
	Config   *config.Config
	Catalog  *catalog.Catalog
	Postgres *database.PostgresClient
	Redis    *database.RedisClient
	Elastic  *database.ElasticsearchClient
	Oracle   oracle.Oracle
	Service  *service.AssessmentService

	logger logger.Logger
}

// Options tunes start-up. Attempts is how often each connection is tried
// before giving up.
type Options struct {
	Attempts     int
	InitialDelay time.Duration
	Migrate      bool
}

// NewRuntime connects to Postgres and the optional Redis and Elasticsearch
// backends, then wires the assessment service on top of them.
func NewRuntime(ctx context.Context, cfg *config.Config, log logger.Logger, otel *observability.Metrics, opts Options) (*Runtime, error) {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 2 * time.Second
	}
	rt := &Runtime{Config: cfg, Catalog: catalog.Default(), logger: log}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	rt.Postgres = pg
	if err := RetryWithBackoff(ctx, func() error { return pg.Ping(ctx) },
		opts.Attempts, opts.InitialDelay, log, "PostgreSQL connection"); err != nil {
		rt.Close()
		return nil, err
	}
	log.Info("PostgreSQL connected", nil)

	if opts.Migrate {
		if err := store.Migrate(ctx, pg.DB); err != nil {
			rt.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
	}

	deps := service.Dependencies{
		Catalog: rt.Catalog,
		Store:   store.NewPostgresStore(pg.DB),
		Logger:  log,
	}

	if rt.Redis = database.NewRedis(cfg.Database.Redis); rt.Redis != nil {
		if err := RetryWithBackoff(ctx, func() error { return rt.Redis.Ping(ctx) },
			opts.Attempts, opts.InitialDelay, log, "Redis connection"); err != nil {
			rt.Close()
			return nil, err
		}
		deps.Cache = store.NewBenchmarkCache(rt.Redis.Client, cfg.Benchmark.GetCacheTTL())
		log.Info("Redis connected, benchmark cache enabled", nil)
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if es != nil {
		rt.Elastic = es
		if err := RetryWithBackoff(ctx, func() error { return es.Ping(ctx) },
			opts.Attempts, opts.InitialDelay, log, "Elasticsearch connection"); err != nil {
			rt.Close()
			return nil, err
		}
		indexer := store.NewResultIndexer(es.Client, es.Index)
		if err := indexer.EnsureIndex(ctx); err != nil {
			log.Warn("results index unavailable, indexing disabled", map[string]interface{}{
				"index": es.Index,
				"error": err.Error(),
			})
		} else {
			deps.Indexer = indexer
			log.Info("Elasticsearch connected, result indexing enabled", map[string]interface{}{"index": es.Index})
		}
	}

	rt.Oracle = oracle.New(ctx, cfg.Oracle, otel, log)

	var evalOpts []evaluator.Option
	if cfg.Oracle.ScoreAnswers {
		evalOpts = append(evalOpts, evaluator.WithOracle(rt.Oracle, cfg.Oracle.MaxTokens, cfg.Oracle.Temperature))
	}
	deps.Evaluator = evaluator.New(rt.Catalog, log, evalOpts...)
	deps.Recommendations = recommendations.NewGenerator(rt.Catalog, rt.Oracle, log, cfg.Oracle.MaxTokens, cfg.Oracle.Temperature)

	rt.Service = service.NewAssessmentService(deps)
	return rt, nil
}

// Close releases every connection. It is safe on a partly built runtime.
func (r *Runtime) Close() {
	if err := r.Redis.Close(); err != nil {
		r.logger.Error("error closing redis", map[string]interface{}{"error": err.Error()})
	}
	if r.Postgres != nil {
		if err := r.Postgres.Close(); err != nil {
			r.logger.Error("error closing postgres", map[string]interface{}{"error": err.Error()})
		}
	}
}
