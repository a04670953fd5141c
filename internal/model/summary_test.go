package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataset_Summarize(t *testing.T) {
	a := rec("Stockholm", "Office", "100")
	a.SetCoordinates(59.33, 18.07)
	b := rec("Stockholm", "Office", "300")
	c := rec("Oslo", "Retail", "200")
	c.SetCoordinates(59.91, 10.75)

	d := Dataset{Records: []Record{a, b, c}}
	s := d.Summarize()

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.WithCoordinates)

	office := s.ByPropertyType["Office"]
	assert.Equal(t, 2, office.Count)
	assert.Equal(t, 400, office.TotalSqm)
	assert.Equal(t, 100, office.MinSqm)
	assert.Equal(t, 300, office.MaxSqm)
	assert.Equal(t, 200, office.AvgSqm)
	assert.Equal(t, 1, office.WithCoord)

	oslo := s.ByCity["Oslo"]
	assert.Equal(t, 1, oslo.Count)
	assert.Equal(t, 1, oslo.WithCoord)

	assert.Equal(t, []string{"Office", "Retail"}, SortedKeys(s.ByPropertyType))
}

func TestDataset_Centroid(t *testing.T) {
	a := rec("Stockholm", "Office", "100")
	a.SetCoordinates(60, 20)
	b := rec("Oslo", "Retail", "200")
	b.SetCoordinates(50, 10)
	noCoord := rec("Malmö", "Office", "300")

	d := Dataset{Records: []Record{a, b, noCoord}}
	p := d.Centroid()
	require.NotNil(t, p)
	assert.Equal(t, 15.0, p.X(), "lon")
	assert.Equal(t, 55.0, p.Y(), "lat")
	assert.Equal(t, 4326, p.SRID())

	bounds := d.Bounds()
	require.NotNil(t, bounds)
	assert.Equal(t, 10.0, bounds.Min(0))
	assert.Equal(t, 20.0, bounds.Max(0))
	assert.Equal(t, 50.0, bounds.Min(1))
	assert.Equal(t, 60.0, bounds.Max(1))

	empty := Dataset{Records: []Record{noCoord}}
	assert.Nil(t, empty.Centroid())
	assert.Nil(t, empty.Bounds())
}
