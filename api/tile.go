package api

import (
	"fmt"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/osgridd/osgrid"
	"strings"
)

// TileInfo describes one lettered 100 km tile as a GeoJSON feature: the
// tile outline projected to WGS84, with the projected envelope and letters
// in the properties. Letter pairs naming no tile on the grid are rejected.
func (c *Converter) TileInfo(letters string) (*geojson.Feature, error) {
	b, err := osgrid.TileExtent(letters)
	if err != nil {
		return nil, err
	}
	// Southwest around to northwest, closed.
	corners := []orb.Point{
		b.Min,
		{b.Max[0], b.Min[1]},
		b.Max,
		{b.Min[0], b.Max[1]},
		b.Min,
	}
	ring := make(orb.Ring, 0, len(corners))
	for _, p := range corners {
		lat, lng, err := c.transformer.ToLatLng(p[0], p[1])
		if err != nil {
			return nil, fmt.Errorf("project corner (%v, %v): %w", p[0], p[1], err)
		}
		ring = append(ring, orb.Point{lng, lat})
	}
	f := geojson.NewFeature(orb.Polygon{ring})
	f.Properties["letters"] = strings.ToUpper(strings.TrimSpace(letters))
	f.Properties["ea_min"] = b.Min[0]
	f.Properties["no_min"] = b.Min[1]
	f.Properties["ea_max"] = b.Max[0]
	f.Properties["no_max"] = b.Max[1]
	return f, nil
}
