// Package testdata provides fixtures shared across package tests: known
// positions with their expected conversions, and a flat stand-in for the
// PROJ-backed transformer so handler tests run without libproj.
package testdata

// KnownPoint pairs a projected National Grid coordinate with its geographic
// position and 1 m grid reference.
type KnownPoint struct {
	Ea, No   float64
	Lat, Lng float64
	GridRef  string
}

// KnownPoints span the grid from Scilly up to Shetland. Geographic values
// are good to about a kilometer; tests comparing against them should allow
// 0.02 degrees.
var KnownPoints = []KnownPoint{
	{Ea: 337297, No: 503695, Lat: 54.427, Lng: -2.968, GridRef: "NY 37297 03695"},
	{Ea: 651409, No: 313177, Lat: 52.658, Lng: 1.717, GridRef: "TG 51409 13177"},
	{Ea: 530000, No: 180000, Lat: 51.505, Lng: -0.127, GridRef: "TQ 30000 80000"},
	{Ea: 91500, No: 11000, Lat: 49.915, Lng: -6.308, GridRef: "SV 91500 11000"},
	{Ea: 440000, No: 1107000, Lat: 59.848, Lng: -1.287, GridRef: "HU 40000 07000"},
}

// FlatTransformer is an affine stand-in for the real transformer. It is
// exactly invertible, so expected outputs are computable by hand, and it
// needs no native library. The numbers are geodetic nonsense.
type FlatTransformer struct{}

func (FlatTransformer) ToLatLng(ea, no float64) (lat, lng float64, err error) {
	return 49 + no/111_000, -2 + (ea-400_000)/67_000, nil
}

func (FlatTransformer) ToNationalGrid(lat, lng float64) (ea, no float64, err error) {
	return 400_000 + (lng+2)*67_000, (lat - 49) * 111_000, nil
}
