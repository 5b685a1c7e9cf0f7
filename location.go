package caserank

import (
	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// geohashPrecision gives cells of roughly 1.2km x 0.6km, plenty for a
// country or province reference point.
const geohashPrecision = 6

// locate sets the country reference point to the spherical centroid of its
// territories that carry coordinates.
func (c *Country) locate() {
	var sum r3.Vector
	n := 0
	for _, p := range c.provinces() {
		t := c.Territories[p]
		if !t.HasLocation {
			continue
		}
		pt := s2.PointFromLatLng(s2.LatLngFromDegrees(t.Latitude, t.Longitude))
		sum = sum.Add(pt.Vector)
		n++
	}
	// Antipodal territories cancel out and leave no usable direction.
	if n == 0 || sum.Norm() == 0 {
		c.HasLocation = false
		return
	}

	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	c.Latitude = ll.Lat.Degrees()
	c.Longitude = ll.Lng.Degrees()
	c.HasLocation = true
}

// Geohash returns the geohash of the country reference point, or "" when the
// sources carried no coordinates.
func (c *Country) Geohash() string {
	if !c.HasLocation {
		return ""
	}
	return geohash.EncodeWithPrecision(c.Latitude, c.Longitude, geohashPrecision)
}

// Geohash returns the geohash of the territory coordinates, or "" when the
// source row had none.
func (t *Territory) Geohash() string {
	if !t.HasLocation {
		return ""
	}
	return geohash.EncodeWithPrecision(t.Latitude, t.Longitude, geohashPrecision)
}
