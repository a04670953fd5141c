package model

import (
	"github.com/twpayne/go-geom"
)

// Centroid returns the mean coordinate of all plottable records as an XY
// point with SRID 4326, or nil when no record has coordinates. The map
// view centers on this point.
func (d *Dataset) Centroid() *geom.Point {
	var sumLat, sumLon float64
	var n int
	for i := range d.Records {
		r := &d.Records[i]
		if !r.HasCoordinates() {
			continue
		}
		sumLat += *r.Latitude
		sumLon += *r.Longitude
		n++
	}
	if n == 0 {
		return nil
	}
	return geom.NewPointFlat(geom.XY, []float64{sumLon / float64(n), sumLat / float64(n)}).SetSRID(4326)
}

// Bounds returns the bounding box covering all plottable records, or nil
// when no record has coordinates.
func (d *Dataset) Bounds() *geom.Bounds {
	bounds := geom.NewBounds(geom.XY)
	var n int
	for i := range d.Records {
		r := &d.Records[i]
		if !r.HasCoordinates() {
			continue
		}
		bounds.Extend(geom.NewPointFlat(geom.XY, []float64{*r.Longitude, *r.Latitude}))
		n++
	}
	if n == 0 {
		return nil
	}
	return bounds
}
