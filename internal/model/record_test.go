package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Source
	}{
		{"database", SourceDatabase},
		{"scraped", SourceScraped},
		{"synthetic", SourceSynthetic},
	} {
		got, err := ParseSource(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.in, got.String())
	}

	_, err := ParseSource("csv")
	assert.Error(t, err)
}

func TestSource_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(SourceScraped)
	require.NoError(t, err)
	assert.Equal(t, `"scraped"`, string(data))

	var s Source
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, SourceScraped, s)
}

func TestRecord_SetCoordinates_Immutable(t *testing.T) {
	var r Record
	assert.False(t, r.HasCoordinates())

	r.SetCoordinates(59.33, 18.07)
	require.True(t, r.HasCoordinates())
	assert.Equal(t, 59.33, *r.Latitude)
	assert.Equal(t, 18.07, *r.Longitude)

	// Second set is ignored: coordinates never change once present.
	r.SetCoordinates(0, 0)
	assert.Equal(t, 59.33, *r.Latitude)
	assert.Equal(t, 18.07, *r.Longitude)
}

func TestRecord_Validate(t *testing.T) {
	r := Record{ID: "1", Address: "Sample Street 1", Source: SourceDatabase}
	assert.NoError(t, r.Validate())

	r.SetCoordinates(59.33, 18.07)
	assert.NoError(t, r.Validate())

	assert.Error(t, (&Record{ID: "2"}).Validate(), "empty address must fail")

	lat := 59.33
	partial := Record{ID: "3", Address: "Sample Street 3", Latitude: &lat}
	assert.Error(t, partial.Validate(), "one coordinate without the other must fail")
}
