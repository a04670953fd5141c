package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norden-group/locintel-cli/internal/model"
)

const listingsPage = `<html><body>
<div class="property-card">
  <h2 class="property-title">Vasastan Office Hub</h2>
  <div class="property-address">Odengatan 22, Stockholm, Sweden</div>
  <span class="property-type">Office</span>
  <span class="property-size">1,250 sqm</span>
</div>
<div class="property-card">
  <h2 class="property-title">No Address Here</h2>
  <span class="property-type">Retail</span>
</div>
<article class="property">
  <span class="property-location">Bryggen 7, Bergen, Norway</span>
  <div class="property-size">480 m²</div>
</article>
</body></html>`

func TestScrapedAdapter_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(listingsPage)) //nolint:errcheck
	}))
	defer srv.Close()

	adapter := NewScrapedAdapter(srv.URL)
	records, err := adapter.Fetch(context.Background(), model.Filter{})

	require.NoError(t, err)
	require.Len(t, records, 2, "the card without an address is skipped")

	first := records[0]
	assert.Equal(t, "WEB-1", first["listing_id"])
	assert.Equal(t, "Odengatan 22, Stockholm, Sweden", first["address"])
	assert.Equal(t, "Vasastan Office Hub", first["title"])
	assert.Equal(t, "Office", first["type"])
	assert.Equal(t, "1250", first["size"], "thousands separator is stripped")

	second := records[1]
	assert.Equal(t, "WEB-3", second["listing_id"], "listing ids follow card position")
	assert.Equal(t, "Bryggen 7, Bergen, Norway", second["address"])
	assert.Equal(t, "480", second["size"])
}

func TestScrapedAdapter_Fetch_FilterParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(listingsPage)) //nolint:errcheck
	}))
	defer srv.Close()

	adapter := NewScrapedAdapter(srv.URL)
	_, err := adapter.Fetch(context.Background(), model.Filter{PropertyType: "Office", City: "Stockholm"})

	require.NoError(t, err)
	assert.Equal(t, "type=office&location=stockholm", gotQuery)
}

func TestScrapedAdapter_Fetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	adapter := NewScrapedAdapter(srv.URL)
	_, err := adapter.Fetch(context.Background(), model.Filter{})

	require.Error(t, err)
	assert.Equal(t, "fetch", FailureKind(err))

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
}

func TestScrapedAdapter_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	adapter := NewScrapedAdapter(srv.URL)
	_, err := adapter.Fetch(context.Background(), model.Filter{})

	require.Error(t, err)
	assert.Equal(t, "fetch", FailureKind(err))
}

func TestScrapedAdapter_Fetch_NoListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Maintenance</p></body></html>`)) //nolint:errcheck
	}))
	defer srv.Close()

	adapter := NewScrapedAdapter(srv.URL)
	_, err := adapter.Fetch(context.Background(), model.Filter{})

	require.Error(t, err)
	assert.Equal(t, "parse", FailureKind(err))
}
