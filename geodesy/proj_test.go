package geodesy

import (
	"github.com/rotblauer/osgridd/testing/testdata"
	"math"
	"testing"
)

// TestProjTransformer_KnownPoint checks a mid-grid point against coarse
// windows. Exact digits belong to PROJ, not to us; a window of a couple of
// kilometers still catches axis swaps and datum sign mistakes without
// pinning the library's arithmetic.
func TestProjTransformer_KnownPoint(t *testing.T) {
	tr, err := NewProjTransformer()
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	lat, lng, err := tr.ToLatLng(337297, 503695)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("337297,503695 -> %.7f,%.7f", lat, lng)
	if math.Abs(lat-54.425) > 0.02 {
		t.Errorf("latitude %v not near 54.425", lat)
	}
	if math.Abs(lng-(-2.968)) > 0.02 {
		t.Errorf("longitude %v not near -2.968", lng)
	}

	ea, no, err := tr.ToNationalGrid(lat, lng)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("%.7f,%.7f -> %.3f,%.3f", lat, lng, ea, no)
	if math.Abs(ea-337297) > 0.001 || math.Abs(no-503695) > 0.001 {
		t.Errorf("round trip drifted: (%v, %v)", ea, no)
	}
}

// TestProjTransformer_KnownPoints sweeps the shared fixtures. The fixture
// positions are good to about a kilometer, so the window stays wide.
func TestProjTransformer_KnownPoints(t *testing.T) {
	tr, err := NewProjTransformer()
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	for _, kp := range testdata.KnownPoints {
		lat, lng, err := tr.ToLatLng(kp.Ea, kp.No)
		if err != nil {
			t.Fatalf("%s: %v", kp.GridRef, err)
		}
		t.Logf("%s -> %.4f,%.4f", kp.GridRef, lat, lng)
		if math.Abs(lat-kp.Lat) > 0.02 || math.Abs(lng-kp.Lng) > 0.02 {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", kp.GridRef, lat, lng, kp.Lat, kp.Lng)
		}
	}
}

func TestProjTransformer_RoundTrips(t *testing.T) {
	tr, err := NewProjTransformer()
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	coords := [][2]float64{
		{337297, 503695},
		{651409, 313177},
		{91500, 11000},    // Scilly
		{440000, 1107000}, // Shetland
		{530000, 180000},  // London
	}
	for _, c := range coords {
		lat, lng, err := tr.ToLatLng(c[0], c[1])
		if err != nil {
			t.Fatalf("(%v, %v): %v", c[0], c[1], err)
		}
		ea, no, err := tr.ToNationalGrid(lat, lng)
		if err != nil {
			t.Fatalf("(%v, %v): %v", lat, lng, err)
		}
		if math.Abs(ea-c[0]) > 0.001 || math.Abs(no-c[1]) > 0.001 {
			t.Errorf("(%v, %v) round-tripped to (%v, %v)", c[0], c[1], ea, no)
		}
	}
}

// TestProjTransformer_Concurrent hammers one transformer from several
// goroutines; the race detector will flag the pipeline lock if it leaks.
func TestProjTransformer_Concurrent(t *testing.T) {
	tr, err := NewProjTransformer()
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func(i int) {
			for j := 0; j < 50; j++ {
				ea := 100000 + float64(i*1000+j)
				lat, lng, err := tr.ToLatLng(ea, 500000)
				if err != nil {
					done <- err
					return
				}
				if _, _, err := tr.ToNationalGrid(lat, lng); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}(i)
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
