package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/norden-group/locintel-cli/internal/db"
	"github.com/norden-group/locintel-cli/internal/model"
)

// propertyQuery joins properties with their addresses. Filter conditions
// are appended as numbered placeholders.
const propertyQuery = `
SELECT
	p.property_id,
	p.property_name,
	p.property_type,
	a.address_line1 || COALESCE(', ' || a.address_line2, '') AS address_line,
	a.city,
	a.country,
	a.postal_code,
	a.latitude,
	a.longitude,
	p.size_sqm,
	p.year_built,
	p.last_renovation,
	p.last_updated
FROM properties p
JOIN addresses a ON p.address_id = a.address_id
WHERE 1=1`

// DatabaseAdapter fetches property records from the primary Postgres
// store. It fails with ConnectionError on transport problems and
// QueryError on malformed result rows; zero matching rows is an empty
// result, not a failure.
type DatabaseAdapter struct {
	pool    db.Pool
	timeout time.Duration
}

// NewDatabaseAdapter creates a DatabaseAdapter over the given pool. A
// non-positive timeout defaults to 15s per fetch.
func NewDatabaseAdapter(pool db.Pool, timeout time.Duration) *DatabaseAdapter {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DatabaseAdapter{pool: pool, timeout: timeout}
}

// Name implements Adapter.
func (a *DatabaseAdapter) Name() string { return "database" }

// Source implements Adapter.
func (a *DatabaseAdapter) Source() model.Source { return model.SourceDatabase }

// Fetch implements Adapter.
func (a *DatabaseAdapter) Fetch(ctx context.Context, filter model.Filter) ([]RawRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	query, args := buildPropertyQuery(filter)

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &ConnectionError{Err: eris.Wrap(err, "database adapter: query")}
	}
	defer rows.Close()

	var records []RawRecord
	for rows.Next() {
		var (
			id, name, ptype, address      string
			city, country, postal         *string
			lat, lon                      *float64
			sizeSqm, yearBuilt, lastRenov *int
			lastUpdated                   *time.Time
		)
		if err := rows.Scan(&id, &name, &ptype, &address, &city, &country, &postal,
			&lat, &lon, &sizeSqm, &yearBuilt, &lastRenov, &lastUpdated); err != nil {
			return nil, &QueryError{Err: eris.Wrap(err, "database adapter: scan row")}
		}

		raw := RawRecord{
			"property_id":   id,
			"property_name": name,
			"property_type": ptype,
			"address_line":  address,
		}
		putString(raw, "city", city)
		putString(raw, "country", country)
		putString(raw, "postal_code", postal)
		putFloat(raw, "latitude", lat)
		putFloat(raw, "longitude", lon)
		putInt(raw, "size_sqm", sizeSqm)
		putInt(raw, "year_built", yearBuilt)
		putInt(raw, "last_renovation", lastRenov)
		if lastUpdated != nil {
			raw["last_updated"] = lastUpdated.UTC().Format(time.RFC3339)
		}
		records = append(records, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Err: eris.Wrap(err, "database adapter: iterate rows")}
	}

	zap.L().Debug("database adapter: fetched rows", zap.Int("count", len(records)))
	return records, nil
}

// buildPropertyQuery appends filter conditions to the base query.
func buildPropertyQuery(filter model.Filter) (string, []any) {
	query := propertyQuery
	var args []any

	if filter.PropertyType != "" {
		args = append(args, filter.PropertyType)
		query += fmt.Sprintf(" AND p.property_type = $%d", len(args))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		query += fmt.Sprintf(" AND a.city = $%d", len(args))
	}
	if filter.MinSize > 0 {
		args = append(args, filter.MinSize)
		query += fmt.Sprintf(" AND p.size_sqm >= $%d", len(args))
	}
	if filter.MaxSize > 0 {
		args = append(args, filter.MaxSize)
		query += fmt.Sprintf(" AND p.size_sqm <= $%d", len(args))
	}
	if filter.UpdatedAfter != nil {
		args = append(args, *filter.UpdatedAfter)
		query += fmt.Sprintf(" AND p.last_updated >= $%d", len(args))
	}

	query += " ORDER BY p.property_id"
	return query, args
}

func putString(raw RawRecord, key string, v *string) {
	if v != nil && *v != "" {
		raw[key] = *v
	}
}

func putFloat(raw RawRecord, key string, v *float64) {
	if v != nil {
		raw[key] = strconv.FormatFloat(*v, 'f', -1, 64)
	}
}

func putInt(raw RawRecord, key string, v *int) {
	if v != nil {
		raw[key] = strconv.Itoa(*v)
	}
}
