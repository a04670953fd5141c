package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norden-group/locintel-cli/internal/model"
)

const sqliteSchema = `
CREATE TABLE addresses (
	address_id    INTEGER PRIMARY KEY,
	address_line1 TEXT NOT NULL,
	address_line2 TEXT,
	city          TEXT,
	country       TEXT,
	postal_code   TEXT,
	latitude      REAL,
	longitude     REAL
);
CREATE TABLE properties (
	property_id     TEXT PRIMARY KEY,
	property_name   TEXT NOT NULL,
	property_type   TEXT NOT NULL,
	address_id      INTEGER NOT NULL REFERENCES addresses(address_id),
	size_sqm        INTEGER,
	year_built      INTEGER,
	last_renovation INTEGER,
	last_updated    TEXT
);`

func newTestSQLite(t *testing.T) *SQLiteAdapter {
	t.Helper()
	adapter, err := NewSQLite(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() }) //nolint:errcheck

	// A second pool connection would see its own empty in-memory database.
	adapter.db.SetMaxOpenConns(1)

	_, err = adapter.db.Exec(sqliteSchema)
	require.NoError(t, err)
	return adapter
}

func TestSQLiteAdapter_Fetch(t *testing.T) {
	adapter := newTestSQLite(t)

	_, err := adapter.db.Exec(`
		INSERT INTO addresses VALUES
			(1, 'Kungsgatan 12', NULL, 'Stockholm', 'Sweden', '11135', 59.335, 18.062),
			(2, 'Strandvejen 4', 'Floor 2', 'Copenhagen', 'Denmark', NULL, NULL, NULL);
		INSERT INTO properties VALUES
			('P-1', 'Waterfront House', 'Office', 1, 4200, 1998, NULL, '2026-03-01T12:00:00Z'),
			('P-2', 'Harbour Point', 'Retail', 2, 900, NULL, 2019, NULL);`)
	require.NoError(t, err)

	records, err := adapter.Fetch(context.Background(), model.Filter{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "P-1", first["property_id"])
	assert.Equal(t, "Kungsgatan 12", first["address_line"])
	assert.Equal(t, "59.335", first["latitude"])
	assert.Equal(t, "2026-03-01T12:00:00Z", first["last_updated"])

	second := records[1]
	assert.Equal(t, "Strandvejen 4, Floor 2", second["address_line"], "address lines are joined")
	assert.NotContains(t, second, "postal_code")
	assert.NotContains(t, second, "latitude")
}

func TestSQLiteAdapter_Fetch_Filter(t *testing.T) {
	adapter := newTestSQLite(t)

	_, err := adapter.db.Exec(`
		INSERT INTO addresses VALUES (1, 'Kungsgatan 12', NULL, 'Stockholm', 'Sweden', NULL, NULL, NULL);
		INSERT INTO properties VALUES
			('P-1', 'Small Office', 'Office', 1, 300, NULL, NULL, NULL),
			('P-2', 'Large Office', 'Office', 1, 5000, NULL, NULL, NULL),
			('P-3', 'Shop', 'Retail', 1, 5000, NULL, NULL, NULL);`)
	require.NoError(t, err)

	records, err := adapter.Fetch(context.Background(), model.Filter{PropertyType: "Office", MinSize: 1000})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "P-2", records[0]["property_id"])
}

func TestSQLiteAdapter_Fetch_Empty(t *testing.T) {
	adapter := newTestSQLite(t)

	records, err := adapter.Fetch(context.Background(), model.Filter{})
	require.NoError(t, err)
	assert.Empty(t, records, "no rows is an empty result, not a failure")
}
