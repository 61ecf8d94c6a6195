// Package geodesy carries the true geodetic transformation between the
// British National Grid (EPSG:27700) and WGS84 (EPSG:4326). It adapts the
// PROJ library behind a two-method interface; nothing here knows about grid
// references or extents.
package geodesy

// A Transformer converts between projected National Grid positions and
// geographic WGS84 positions. Implementations must be safe for concurrent
// use and behave as pure functions of their inputs.
type Transformer interface {
	// ToLatLng transforms eastings/northings (meters) into WGS84 degrees.
	ToLatLng(ea, no float64) (lat, lng float64, err error)
	// ToNationalGrid transforms WGS84 degrees into eastings/northings (meters).
	ToNationalGrid(lat, lng float64) (ea, no float64, err error)
}
