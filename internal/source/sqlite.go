package source

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/norden-group/locintel-cli/internal/model"
)

// SQLiteAdapter is the embedded-database variant of the primary source,
// used for local development and air-gapped runs. Shares the database
// provenance tag and error taxonomy with DatabaseAdapter.
type SQLiteAdapter struct {
	db      *sql.DB
	timeout time.Duration
}

// NewSQLite opens the SQLite database at the given DSN.
func NewSQLite(dsn string, timeout time.Duration) (*SQLiteAdapter, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite adapter: open")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SQLiteAdapter{db: sqlDB, timeout: timeout}, nil
}

// Close releases the underlying database handle.
func (a *SQLiteAdapter) Close() error { return a.db.Close() }

// Name implements Adapter.
func (a *SQLiteAdapter) Name() string { return "database" }

// Source implements Adapter.
func (a *SQLiteAdapter) Source() model.Source { return model.SourceDatabase }

// Fetch implements Adapter.
func (a *SQLiteAdapter) Fetch(ctx context.Context, filter model.Filter) ([]RawRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.db.PingContext(ctx); err != nil {
		return nil, &ConnectionError{Err: eris.Wrap(err, "sqlite adapter: ping")}
	}

	query, args := buildPropertyQuerySQLite(filter)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &QueryError{Err: eris.Wrap(err, "sqlite adapter: query")}
	}
	defer rows.Close()

	var records []RawRecord
	for rows.Next() {
		var (
			id, name, ptype, address      string
			city, country, postal         *string
			lat, lon                      *float64
			sizeSqm, yearBuilt, lastRenov *int
			lastUpdated                   *string // stored as RFC3339 text
		)
		if err := rows.Scan(&id, &name, &ptype, &address, &city, &country, &postal,
			&lat, &lon, &sizeSqm, &yearBuilt, &lastRenov, &lastUpdated); err != nil {
			return nil, &QueryError{Err: eris.Wrap(err, "sqlite adapter: scan row")}
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
		putString(raw, "last_updated", lastUpdated)
		records = append(records, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Err: eris.Wrap(err, "sqlite adapter: iterate rows")}
	}

	return records, nil
}

// buildPropertyQuerySQLite mirrors buildPropertyQuery with ? placeholders.
func buildPropertyQuerySQLite(filter model.Filter) (string, []any) {
	query := propertyQuery
	var args []any

	if filter.PropertyType != "" {
		query += " AND p.property_type = ?"
		args = append(args, filter.PropertyType)
	}
	if filter.City != "" {
		query += " AND a.city = ?"
		args = append(args, filter.City)
	}
	if filter.MinSize > 0 {
		query += " AND p.size_sqm >= ?"
		args = append(args, filter.MinSize)
	}
	if filter.MaxSize > 0 {
		query += " AND p.size_sqm <= ?"
		args = append(args, filter.MaxSize)
	}
	if filter.UpdatedAfter != nil {
		query += " AND p.last_updated >= ?"
		args = append(args, filter.UpdatedAfter.UTC().Format(time.RFC3339))
	}

	query += " ORDER BY p.property_id"
	return query, args
}
