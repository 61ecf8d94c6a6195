package osgrid

import (
	"fmt"
	"math"
)

// CheckProjectedBounds returns nil when c lies within the National Grid
// envelope, else an error wrapping ErrOutOfBounds naming the offending axis.
// NaN fails on whichever axis carries it.
func CheckProjectedBounds(c Coordinate) error {
	// orb bounds treat NaN as contained, so the axis checks below stay
	// authoritative; this is just the common-case exit.
	if !math.IsNaN(c.Easting) && !math.IsNaN(c.Northing) && ProjectedExtent.Contains(c.Point()) {
		return nil
	}
	// Positive-form comparisons so NaN falls out.
	if !(c.Easting >= MinEasting && c.Easting <= MaxEasting) {
		return fmt.Errorf("%w: easting %v not in [%v, %v]",
			ErrOutOfBounds, c.Easting, MinEasting, MaxEasting)
	}
	if !(c.Northing >= MinNorthing && c.Northing <= MaxNorthing) {
		return fmt.Errorf("%w: northing %v not in [%v, %v]",
			ErrOutOfBounds, c.Northing, MinNorthing, MaxNorthing)
	}
	return nil
}

// CheckGeographicBounds returns nil when ll lies within the geographic
// envelope, else an error wrapping ErrOutOfBounds naming the offending axis.
func CheckGeographicBounds(ll LatLng) error {
	// s2 rejects invalid (NaN, out-of-range) lat/lngs outright.
	if GeographicExtent.ContainsLatLng(ll.S2()) {
		return nil
	}
	if !(ll.Lat >= MinLat && ll.Lat <= MaxLat) {
		return fmt.Errorf("%w: latitude %v not in [%v, %v]",
			ErrOutOfBounds, ll.Lat, MinLat, MaxLat)
	}
	return fmt.Errorf("%w: longitude %v not in [%v, %v]",
		ErrOutOfBounds, ll.Lng, MinLng, MaxLng)
}
