// Package osgrid implements the British National Grid coordinate system:
// the alphanumeric grid reference codec and the fixed extents which bound
// valid positions. Positions are either projected (eastings/northings in
// meters on the EPSG:27700 plane) or geographic (WGS84 decimal degrees).
//
// Everything here is pure arithmetic over fixed constants; the package holds
// no state and all functions are safe for concurrent use.
package osgrid

import (
	"errors"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Coordinate is a projected National Grid position, meters.
type Coordinate struct {
	Easting  float64 `json:"ea"`
	Northing float64 `json:"no"`
}

// LatLng is a geographic WGS84 position, decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GridRef is an encoded alphanumeric grid reference at 1 m resolution.
// Text reads like "NY 37297 03695"; HTML is the same reference with
// non-breaking spaces. Eastings and Northings are the zero-padded residual
// digit groups within the 100 km tile named by Letters.
type GridRef struct {
	Text      string `json:"text"`
	HTML      string `json:"html"`
	Letters   string `json:"letters"`
	Eastings  string `json:"eastings"`
	Northings string `json:"northings"`
}

// Extent limits. The projected envelope covers the 7x13 grid of 100 km
// tiles; the geographic envelope is the matching lat/lng window over
// Great Britain.
const (
	MinEasting  = 0.0
	MaxEasting  = 699999.9
	MinNorthing = 0.0
	MaxNorthing = 1299999.9

	MinLng = -8.74
	MaxLng = 1.96
	MinLat = 49.84
	MaxLat = 60.9
)

// TileSize is the side of one lettered grid tile, meters.
const TileSize = 100_000.0

// ProjectedExtent is the valid National Grid envelope.
var ProjectedExtent = orb.Bound{
	Min: orb.Point{MinEasting, MinNorthing},
	Max: orb.Point{MaxEasting, MaxNorthing},
}

// GeographicExtent is the valid geographic envelope.
var GeographicExtent = func() s2.Rect {
	r := s2.RectFromLatLng(s2.LatLngFromDegrees(MinLat, MinLng))
	return r.AddPoint(s2.LatLngFromDegrees(MaxLat, MaxLng))
}()

var (
	// ErrOutOfBounds marks a position outside the supported extents.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrBadGridRef marks a grid reference string that cannot be decoded.
	ErrBadGridRef = errors.New("malformed grid reference")
)

// Point returns the coordinate as an orb point on the projected plane.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Easting, c.Northing}
}

// S2 returns the position as an s2 lat/lng.
func (ll LatLng) S2() s2.LatLng {
	return s2.LatLngFromDegrees(ll.Lat, ll.Lng)
}
