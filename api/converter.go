// Package api implements the conversion operations the service exposes
// between eastings/northings, latitude/longitude and grid references. It
// composes the osgrid codec and extents with a geodesy.Transformer and
// reports every success on the conversion feed.
package api

import (
	"fmt"
	"github.com/rotblauer/osgridd/common"
	"github.com/rotblauer/osgridd/events"
	"github.com/rotblauer/osgridd/geodesy"
	"github.com/rotblauer/osgridd/osgrid"
	"log/slog"
	"time"
)

// Converter runs conversions through a geodetic transformer. Construct with
// NewConverter; the zero value has no transformer to call.
type Converter struct {
	transformer geodesy.Transformer
	logger      *slog.Logger
}

func NewConverter(t geodesy.Transformer) *Converter {
	return &Converter{
		transformer: t,
		logger:      slog.With("c", "converter"),
	}
}

// ToLatLng converts a projected coordinate to WGS84, rounded to decimals
// places (negative decimals round to whole degrees). The coordinate must
// lie within the projected extent.
func (c *Converter) ToLatLng(coord osgrid.Coordinate, decimals int) (osgrid.LatLng, error) {
	ll, err := c.toLatLng(coord, decimals)
	if err != nil {
		return osgrid.LatLng{}, err
	}
	c.emit(events.Conversion{Op: events.OpToLatLng, Coord: &coord, LatLng: &ll})
	return ll, nil
}

// ToNationalGrid converts a WGS84 position to a projected coordinate,
// rounded to decimals places. The position must lie within the geographic
// extent; points near its southern edge may legitimately project to small
// negative northings, which are returned as computed.
func (c *Converter) ToNationalGrid(ll osgrid.LatLng, decimals int) (osgrid.Coordinate, error) {
	coord, err := c.toNationalGrid(ll, decimals)
	if err != nil {
		return osgrid.Coordinate{}, err
	}
	c.emit(events.Conversion{Op: events.OpToNationalGrid, LatLng: &ll, Coord: &coord})
	return coord, nil
}

// ToGridRef encodes a projected coordinate as a grid reference.
func (c *Converter) ToGridRef(coord osgrid.Coordinate) (osgrid.GridRef, error) {
	ref, err := osgrid.ToGridRef(coord)
	if err != nil {
		return osgrid.GridRef{}, err
	}
	c.emit(events.Conversion{Op: events.OpToGridRef, Coord: &coord, GridRef: &ref})
	return ref, nil
}

// FromGridRef decodes a grid reference to the projected coordinate of its
// southwest corner. Format failures reject; the decoded coordinate is not
// required to be on the grid.
func (c *Converter) FromGridRef(s string) (osgrid.Coordinate, error) {
	coord, err := osgrid.ParseGridRef(s)
	if err != nil {
		return osgrid.Coordinate{}, err
	}
	ev := events.Conversion{Op: events.OpFromGridRef, Coord: &coord}
	if ref, err := osgrid.ToGridRef(coord); err == nil {
		ev.GridRef = &ref
	}
	c.emit(ev)
	return coord, nil
}

// GridRefToLatLng decodes a grid reference and projects it to WGS84,
// rounded to decimals places. The decoded coordinate must be on the grid.
func (c *Converter) GridRefToLatLng(s string, decimals int) (osgrid.LatLng, error) {
	coord, err := osgrid.ParseGridRef(s)
	if err != nil {
		return osgrid.LatLng{}, err
	}
	ll, err := c.toLatLng(coord, decimals)
	if err != nil {
		return osgrid.LatLng{}, err
	}
	ev := events.Conversion{Op: events.OpGridRefToLatLng, Coord: &coord, LatLng: &ll}
	if ref, err := osgrid.ToGridRef(coord); err == nil {
		ev.GridRef = &ref
	}
	c.emit(ev)
	return ll, nil
}

func (c *Converter) toLatLng(coord osgrid.Coordinate, decimals int) (osgrid.LatLng, error) {
	if err := osgrid.CheckProjectedBounds(coord); err != nil {
		return osgrid.LatLng{}, err
	}
	lat, lng, err := c.transformer.ToLatLng(coord.Easting, coord.Northing)
	if err != nil {
		c.logger.Warn("Transform failed", "coord", coord, "error", err)
		return osgrid.LatLng{}, fmt.Errorf("transform (%v, %v): %w", coord.Easting, coord.Northing, err)
	}
	return osgrid.LatLng{
		Lat: common.DecimalToFixed(lat, decimals),
		Lng: common.DecimalToFixed(lng, decimals),
	}, nil
}

func (c *Converter) toNationalGrid(ll osgrid.LatLng, decimals int) (osgrid.Coordinate, error) {
	if err := osgrid.CheckGeographicBounds(ll); err != nil {
		return osgrid.Coordinate{}, err
	}
	ea, no, err := c.transformer.ToNationalGrid(ll.Lat, ll.Lng)
	if err != nil {
		c.logger.Warn("Transform failed", "latlng", ll, "error", err)
		return osgrid.Coordinate{}, fmt.Errorf("transform (%v, %v): %w", ll.Lat, ll.Lng, err)
	}
	return osgrid.Coordinate{
		Easting:  common.DecimalToFixed(ea, decimals),
		Northing: common.DecimalToFixed(no, decimals),
	}, nil
}

func (c *Converter) emit(ev events.Conversion) {
	ev.At = time.Now()
	events.ConversionFeed.Send(ev)
}
