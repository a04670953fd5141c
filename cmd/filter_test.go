package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	filterType = "Office"
	filterCity = "Stockholm"
	filterMinSize = 100
	filterMaxSize = 500
	filterUpdatedAfter = "2026-01-15"
	t.Cleanup(func() {
		filterType, filterCity, filterUpdatedAfter = "", "", ""
		filterMinSize, filterMaxSize = 0, 0
	})

	filter, err := buildFilter()
	require.NoError(t, err)

	assert.Equal(t, "Office", filter.PropertyType)
	assert.Equal(t, "Stockholm", filter.City)
	assert.Equal(t, 100, filter.MinSize)
	assert.Equal(t, 500, filter.MaxSize)
	require.NotNil(t, filter.UpdatedAfter)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), *filter.UpdatedAfter)
}

func TestBuildFilter_BadDate(t *testing.T) {
	filterUpdatedAfter = "15/01/2026"
	t.Cleanup(func() { filterUpdatedAfter = "" })

	_, err := buildFilter()
	assert.Error(t, err)
}

func TestFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/resolve?type=Office&city=Oslo&min_size=100&max_size=900", nil)

	filter := filterFromQuery(req)

	assert.Equal(t, "Office", filter.PropertyType)
	assert.Equal(t, "Oslo", filter.City)
	assert.Equal(t, 100, filter.MinSize)
	assert.Equal(t, 900, filter.MaxSize)

	empty := filterFromQuery(httptest.NewRequest("GET", "/api/resolve", nil))
	assert.True(t, empty.IsZero())
}
