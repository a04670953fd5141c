// Package resolve orchestrates the multi-source fallback chain that
// produces one well-formed dataset per run.
package resolve

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/norden-group/locintel-cli/internal/enrich"
	"github.com/norden-group/locintel-cli/internal/model"
	"github.com/norden-group/locintel-cli/internal/normalize"
	"github.com/norden-group/locintel-cli/internal/source"
)

// Attempt records the outcome of trying one adapter.
type Attempt struct {
	Adapter string `json:"adapter"`
	Outcome string `json:"outcome"` // "resolved", "failed", "empty", "all_dropped", "filtered_out"
	Reason  string `json:"reason,omitempty"`
	Fetched int    `json:"fetched"`
	Dropped int    `json:"dropped"`
}

// Stats summarizes one resolution run.
type Stats struct {
	Attempts []Attempt     `json:"attempts"`
	Dropped  int           `json:"dropped"`
	Enrich   enrich.Stats  `json:"enrich"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Pipeline tries adapters in priority order, normalizes the first
// non-empty batch, enriches missing coordinates, and tags the result
// with its provenance.
type Pipeline struct {
	adapters   []source.Adapter
	normalizer *normalize.Normalizer
	enricher   *enrich.Enricher
}

// New creates a Pipeline. Adapters are tried in the order given; by
// convention the last one is the synthetic generator, which never fails
// and never comes back empty.
func New(normalizer *normalize.Normalizer, enricher *enrich.Enricher, adapters ...source.Adapter) *Pipeline {
	return &Pipeline{
		adapters:   adapters,
		normalizer: normalizer,
		enricher:   enricher,
	}
}

// Resolve runs the fallback chain once. Adapter failures and empty
// results advance the chain without retry; the only error return is a
// construction defect (no adapter produced data, or an invariant broke),
// never an upstream outage.
func (p *Pipeline) Resolve(ctx context.Context, filter model.Filter) (*model.Dataset, *Stats, error) {
	started := time.Now()
	stats := &Stats{}
	log := zap.L().With(zap.String("component", "resolve"))

	for _, adapter := range p.adapters {
		attempt := Attempt{Adapter: adapter.Name()}

		raws, err := adapter.Fetch(ctx, filter)
		if err != nil {
			attempt.Outcome = "failed"
			attempt.Reason = source.FailureKind(err)
			stats.Attempts = append(stats.Attempts, attempt)
			log.Warn("adapter failed, advancing to next source",
				zap.String("adapter", adapter.Name()),
				zap.String("kind", source.FailureKind(err)),
				zap.Error(err),
			)
			continue
		}
		attempt.Fetched = len(raws)

		if len(raws) == 0 {
			attempt.Outcome = "empty"
			stats.Attempts = append(stats.Attempts, attempt)
			log.Info("adapter returned no rows, advancing to next source",
				zap.String("adapter", adapter.Name()),
			)
			continue
		}

		records, dropped := p.normalizer.Batch(raws, adapter.Source())
		attempt.Dropped = dropped
		stats.Dropped += dropped

		if len(records) == 0 {
			// A non-empty fetch where every record failed validation is
			// treated the same as an empty result.
			attempt.Outcome = "all_dropped"
			stats.Attempts = append(stats.Attempts, attempt)
			log.Warn("every record failed normalization, advancing to next source",
				zap.String("adapter", adapter.Name()),
				zap.Int("dropped", dropped),
			)
			continue
		}

		// The database pushes the filter into its query and the synthetic
		// generator narrows itself; scraped batches are filtered here.
		if adapter.Source() == model.SourceScraped {
			records = filter.Apply(records)
			if len(records) == 0 {
				attempt.Outcome = "filtered_out"
				stats.Attempts = append(stats.Attempts, attempt)
				log.Info("no scraped records match the filter, advancing to next source",
					zap.String("adapter", adapter.Name()),
				)
				continue
			}
		}

		enriched, enrichStats := p.enricher.EnrichAll(ctx, records)
		stats.Enrich = enrichStats

		dataset := &model.Dataset{
			RunID:      uuid.NewString(),
			Source:     adapter.Source(),
			ResolvedAt: time.Now().UTC(),
			Records:    enriched,
		}
		if err := checkInvariants(dataset); err != nil {
			return nil, nil, err
		}

		attempt.Outcome = "resolved"
		stats.Attempts = append(stats.Attempts, attempt)
		stats.Elapsed = time.Since(started)
		log.Info("resolved dataset",
			zap.String("source", dataset.Source.String()),
			zap.String("run_id", dataset.RunID),
			zap.Int("records", dataset.Len()),
			zap.Int("dropped", stats.Dropped),
			zap.Int("enriched", enrichStats.Enriched),
			zap.Int("enrich_failed", enrichStats.Failed),
		)
		return dataset, stats, nil
	}

	// The synthetic adapter is infallible and non-empty by construction,
	// so reaching this point means the chain was misassembled.
	return nil, nil, eris.New("resolve: every adapter failed or returned empty; fallback chain is misconfigured")
}

// checkInvariants verifies every record of a resolved dataset before it
// is handed to the caller. A violation is a bug, not a runtime condition.
func checkInvariants(d *model.Dataset) error {
	for i := range d.Records {
		if err := d.Records[i].Validate(); err != nil {
			return eris.Wrap(err, "resolve: invariant violation in resolved dataset")
		}
		if d.Records[i].Source != d.Source {
			return eris.Errorf("resolve: record %s carries source %s in a %s dataset",
				d.Records[i].ID, d.Records[i].Source, d.Source)
		}
	}
	return nil
}
