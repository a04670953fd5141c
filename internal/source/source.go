// Package source provides the adapters that fetch raw property records
// from each upstream origin: relational database, listings website, and
// seeded sample generator.
package source

import (
	"context"

	"github.com/norden-group/locintel-cli/internal/model"
)

// RawRecord is one unnormalized property as key/value pairs in the
// source's own field naming. The normalizer maps it into model.Record.
type RawRecord map[string]string

// Adapter fetches raw records from one origin. An empty slice with a nil
// error is a legitimate empty result; failures are typed (ConnectionError,
// QueryError, FetchError, ParseError) so the pipeline can log the reason
// before advancing to the next source.
type Adapter interface {
	// Name returns the unique adapter identifier (e.g., "database").
	Name() string

	// Source returns the provenance tag stamped on records this adapter
	// produced.
	Source() model.Source

	// Fetch returns the raw records matching the filter.
	Fetch(ctx context.Context, filter model.Filter) ([]RawRecord, error)
}
