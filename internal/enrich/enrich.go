// Package enrich fills in missing geocoordinates for normalized records.
package enrich

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/norden-group/locintel-cli/internal/model"
	"github.com/norden-group/locintel-cli/pkg/geocode"
)

// Geocoder is the lookup capability the enricher needs. The geocode
// cascade satisfies it.
type Geocoder interface {
	Geocode(ctx context.Context, q geocode.Query) (*geocode.Result, error)
}

// Stats counts the outcomes of enriching one batch.
type Stats struct {
	Attempted int `json:"attempted"`
	Enriched  int `json:"enriched"`
	Failed    int `json:"failed"`
	CacheHits int `json:"cache_hits"`
}

// Enricher resolves coordinates for records lacking them. It owns the
// per-run lookup cache and the rate limiter shared by all workers, so
// the throttle's lifetime matches the pipeline run that constructed it.
type Enricher struct {
	client        Geocoder
	limiter       *rate.Limiter
	lookupTimeout time.Duration
	workers       int

	flight singleflight.Group
	mu     sync.Mutex
	cache  map[string]*geocode.Result
	calls  int
}

// Option configures the Enricher.
type Option func(*Enricher)

// WithRateLimit sets the minimum spacing between external lookups as
// requests per second.
func WithRateLimit(rps float64) Option {
	return func(e *Enricher) {
		if rps > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLookupTimeout bounds each external lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(e *Enricher) {
		if d > 0 {
			e.lookupTimeout = d
		}
	}
}

// WithWorkers sets how many enrichment lookups may run concurrently.
// The rate limiter stays shared across all of them.
func WithWorkers(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an Enricher for one pipeline run.
func New(client Geocoder, opts ...Option) *Enricher {
	e := &Enricher{
		client:        client,
		limiter:       rate.NewLimiter(1, 1), // Nominatim policy: 1 req/s
		lookupTimeout: 10 * time.Second,
		workers:       4,
		cache:         make(map[string]*geocode.Result),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich resolves coordinates for a single record. Records that already
// carry a coordinate pair come back unchanged without any lookup, which
// makes the operation idempotent. A lookup miss or error marks the record
// enrichment-failed and leaves both coordinates unset.
func (e *Enricher) Enrich(ctx context.Context, rec model.Record) model.Record {
	if rec.HasCoordinates() {
		return rec
	}

	result := e.lookup(ctx, geocode.Query{
		Street:     rec.Address,
		City:       rec.City,
		Country:    rec.Country,
		PostalCode: rec.PostalCode,
	})
	if result == nil || !result.Matched {
		rec.EnrichFailed = true
		return rec
	}

	rec.SetCoordinates(result.Latitude, result.Longitude)
	rec.EnrichFailed = false
	return rec
}

// EnrichAll enriches a batch, parallelizing independent lookups while the
// shared limiter keeps external calls spaced. Per-record failures never
// abort the batch.
func (e *Enricher) EnrichAll(ctx context.Context, records []model.Record) ([]model.Record, Stats) {
	out := make([]model.Record, len(records))
	var mu sync.Mutex
	var stats Stats

	e.mu.Lock()
	startCalls := e.calls
	e.mu.Unlock()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, rec := range records {
		g.Go(func() error {
			needed := !rec.HasCoordinates()
			enriched := e.Enrich(gCtx, rec)
			out[i] = enriched

			mu.Lock()
			if needed {
				stats.Attempted++
				if enriched.HasCoordinates() {
					stats.Enriched++
				} else {
					stats.Failed++
				}
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	e.mu.Lock()
	stats.CacheHits = stats.Attempted - (e.calls - startCalls)
	e.mu.Unlock()

	return out, stats
}

// lookup consults the cache first, then performs a throttled external
// call. Concurrent lookups for the same address collapse into one
// flight, and misses are cached too, so a repeated address within one
// run costs exactly one call no matter how many workers ask for it.
func (e *Enricher) lookup(ctx context.Context, q geocode.Query) *geocode.Result {
	key := cacheKey(q)

	if cached, ok := e.cached(key); ok {
		return cached
	}

	v, err, _ := e.flight.Do(key, func() (any, error) {
		// A flight that finished between the caller's cache check and
		// joining here has already cached its result.
		if cached, ok := e.cached(key); ok {
			return cached, nil
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
		defer cancel()

		result, err := e.client.Geocode(lookupCtx, q)
		if err != nil {
			zap.L().Warn("enrich: lookup failed",
				zap.String("address", q.OneLine()),
				zap.Error(err),
			)
			result = &geocode.Result{Matched: false}
		}

		e.mu.Lock()
		e.cache[key] = result
		e.calls++
		e.mu.Unlock()
		return result, nil
	})
	if err != nil {
		zap.L().Debug("enrich: limiter wait aborted", zap.Error(err))
		return nil
	}
	return v.(*geocode.Result)
}

func (e *Enricher) cached(key string) (*geocode.Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cached, ok := e.cache[key]
	return cached, ok
}

// cacheKey returns SHA-256 hex of the normalized address text.
func cacheKey(q geocode.Query) string {
	normalized := fmt.Sprintf("%s|%s|%s|%s",
		strings.ToLower(strings.TrimSpace(q.Street)),
		strings.ToLower(strings.TrimSpace(q.City)),
		strings.ToLower(strings.TrimSpace(q.Country)),
		strings.TrimSpace(q.PostalCode),
	)
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}
