package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/norden-group/locintel-cli/internal/db"
	"github.com/norden-group/locintel-cli/internal/enrich"
	"github.com/norden-group/locintel-cli/internal/normalize"
	"github.com/norden-group/locintel-cli/internal/resolve"
	"github.com/norden-group/locintel-cli/internal/source"
	"github.com/norden-group/locintel-cli/pkg/geocode"
)

// pipelineEnv bundles the pipeline components with the resources they
// own. Adapters and the normalizer are shared; the enricher is built per
// run so its geocode cache and limiter live exactly as long as the run
// they serve.
type pipelineEnv struct {
	Adapters    []source.Adapter
	normalizer  *normalize.Normalizer
	newEnricher func() *enrich.Enricher
	closers     []func()
}

// Pipeline assembles a resolution pipeline for a single run.
func (e *pipelineEnv) Pipeline() *resolve.Pipeline {
	return resolve.New(e.normalizer, e.newEnricher(), e.Adapters...)
}

// Close releases pools and handles in reverse construction order.
func (e *pipelineEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// initPipeline assembles the adapters, normalizer, and enricher from the
// loaded config. The database link is optional: without a configured URL
// the chain starts at the scraped source.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	env := &pipelineEnv{}

	dbAdapter, err := initDatabaseAdapter(ctx, env)
	if err != nil {
		return nil, err
	}
	if dbAdapter != nil {
		env.Adapters = append(env.Adapters, dbAdapter)
	}

	env.Adapters = append(env.Adapters,
		source.NewScrapedAdapter(cfg.Scrape.URL,
			source.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Scrape.TimeoutSecs) * time.Second})),
		source.NewSyntheticAdapter(cfg.Synthetic.Count, cfg.Synthetic.Seed),
	)

	normalizer, err := normalize.New()
	if err != nil {
		return nil, err
	}
	env.normalizer = normalizer

	cascade := geocode.NewCascade(
		geocode.NewNominatim(cfg.Geocode.UserAgent, geocode.WithBaseURL(cfg.Geocode.NominatimURL)),
		geocode.NewCityTable(),
	)
	env.newEnricher = func() *enrich.Enricher {
		return enrich.New(cascade,
			enrich.WithRateLimit(cfg.Geocode.RateRPS),
			enrich.WithLookupTimeout(time.Duration(cfg.Geocode.TimeoutSecs)*time.Second),
			enrich.WithWorkers(cfg.Geocode.Workers),
		)
	}

	return env, nil
}

// initDatabaseAdapter builds the primary-source adapter for the
// configured driver, or nil when no database is configured.
func initDatabaseAdapter(ctx context.Context, env *pipelineEnv) (source.Adapter, error) {
	if cfg.Database.DatabaseURL == "" {
		zap.L().Info("no database configured, fallback chain starts at scraped source")
		return nil, nil
	}

	timeout := time.Duration(cfg.Database.TimeoutSecs) * time.Second

	switch cfg.Database.Driver {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.Database.DatabaseURL, &cfg.Database.Pool)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, pool.Close)
		return source.NewDatabaseAdapter(pool, timeout), nil

	case "sqlite":
		adapter, err := source.NewSQLite(cfg.Database.DatabaseURL, timeout)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, func() { _ = adapter.Close() })
		return adapter, nil

	default:
		return nil, eris.Errorf("unknown database driver: %q (valid: postgres, sqlite)", cfg.Database.Driver)
	}
}
