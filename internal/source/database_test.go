package source

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norden-group/locintel-cli/internal/model"
)

var propertyColumns = []string{
	"property_id", "property_name", "property_type", "address_line",
	"city", "country", "postal_code", "latitude", "longitude",
	"size_sqm", "year_built", "last_renovation", "last_updated",
}

func strPtr(s string) *string       { return &s }
func floatPtr(f float64) *float64   { return &f }
func intPtr(i int) *int             { return &i }
func timePtr(t time.Time) *time.Time { return &t }

func TestDatabaseAdapter_Fetch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT\s+p.property_id`).
		WillReturnRows(pgxmock.NewRows(propertyColumns).
			AddRow("P-1", "Waterfront House", "Office", "Kungsgatan 12",
				strPtr("Stockholm"), strPtr("Sweden"), strPtr("11135"),
				floatPtr(59.335), floatPtr(18.062),
				intPtr(4200), intPtr(1998), nil, timePtr(updated)).
			AddRow("P-2", "Harbour Point", "Retail", "Strandvejen 4",
				strPtr("Copenhagen"), strPtr("Denmark"), nil,
				nil, nil,
				intPtr(900), nil, intPtr(2019), nil))

	adapter := NewDatabaseAdapter(mock, 0)
	records, err := adapter.Fetch(context.Background(), model.Filter{})

	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "P-1", first["property_id"])
	assert.Equal(t, "Kungsgatan 12", first["address_line"])
	assert.Equal(t, "Stockholm", first["city"])
	assert.Equal(t, "59.335", first["latitude"])
	assert.Equal(t, "4200", first["size_sqm"])
	assert.Equal(t, "2026-03-01T12:00:00Z", first["last_updated"])

	second := records[1]
	assert.NotContains(t, second, "postal_code", "nil columns are omitted")
	assert.NotContains(t, second, "latitude")
	assert.Equal(t, "2019", second["last_renovation"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseAdapter_Fetch_FilterPushdown(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`AND p.property_type = \$1 AND a.city = \$2 AND p.size_sqm >= \$3`).
		WithArgs("Office", "Stockholm", 100).
		WillReturnRows(pgxmock.NewRows(propertyColumns))

	adapter := NewDatabaseAdapter(mock, 0)
	records, err := adapter.Fetch(context.Background(), model.Filter{
		PropertyType: "Office",
		City:         "Stockholm",
		MinSize:      100,
	})

	require.NoError(t, err)
	assert.Empty(t, records, "zero matching rows is an empty result, not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseAdapter_Fetch_ConnectionError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT\s+p.property_id`).
		WillReturnError(assert.AnError)

	adapter := NewDatabaseAdapter(mock, 0)
	_, err = adapter.Fetch(context.Background(), model.Filter{})

	require.Error(t, err)
	assert.Equal(t, "connection", FailureKind(err))
}

func TestDatabaseAdapter_Fetch_ScanError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Too few columns makes the row scan fail.
	mock.ExpectQuery(`SELECT\s+p.property_id`).
		WillReturnRows(pgxmock.NewRows([]string{"property_id"}).AddRow("P-1"))

	adapter := NewDatabaseAdapter(mock, 0)
	_, err = adapter.Fetch(context.Background(), model.Filter{})

	require.Error(t, err)
	assert.Equal(t, "query", FailureKind(err))
}

func TestBuildPropertyQuery(t *testing.T) {
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args := buildPropertyQuery(model.Filter{
		City:         "Oslo",
		MaxSize:      800,
		UpdatedAfter: &after,
	})

	assert.Contains(t, query, "AND a.city = $1")
	assert.Contains(t, query, "AND p.size_sqm <= $2")
	assert.Contains(t, query, "AND p.last_updated >= $3")
	assert.Contains(t, query, "ORDER BY p.property_id")
	assert.Equal(t, []any{"Oslo", 800, after}, args)
}
