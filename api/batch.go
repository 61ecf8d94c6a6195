package api

import (
	"errors"
	"fmt"
	"github.com/rotblauer/osgridd/events"
	"github.com/rotblauer/osgridd/osgrid"
	"github.com/rotblauer/osgridd/params"
	"github.com/tidwall/gjson"
)

var ErrDecodeBatch = errors.New("could not decode as a position array")

// BatchResult is the outcome for one batch element. On success OK is set
// and every shape the position reaches is populated; on failure Error says
// why and the shapes stay empty.
type BatchResult struct {
	OK      bool               `json:"ok"`
	Error   string             `json:"error,omitempty"`
	Coord   *osgrid.Coordinate `json:"coord,omitempty"`
	LatLng  *osgrid.LatLng     `json:"latlng,omitempty"`
	GridRef *osgrid.GridRef    `json:"gridref,omitempty"`
}

// ConvertBatch decodes a JSON batch of positions and converts each to the
// other shapes at default rounding. Elements are shape-sniffed objects:
// {"ea","no"}, {"lat","lng"}, or {"gridref"}; the batch itself is either a
// bare array or an object with an "items" array.
//
// A bad element does not poison the batch; its result carries the error and
// the rest proceed. An undecodable body, an empty set, or a batch over
// params.MaxBatchItems fails whole.
func (c *Converter) ConvertBatch(data []byte) ([]BatchResult, error) {
	arr := gjson.ParseBytes(data)
	if items := gjson.GetBytes(data, "items"); items.Exists() {
		arr = items
	}
	if !arr.IsArray() {
		return nil, fmt.Errorf("%w: not a JSON array", ErrDecodeBatch)
	}
	els := arr.Array()
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: empty set", ErrDecodeBatch)
	}
	if len(els) > params.MaxBatchItems {
		return nil, fmt.Errorf("%w: %d items over the %d cap", ErrDecodeBatch, len(els), params.MaxBatchItems)
	}
	out := make([]BatchResult, 0, len(els))
	for _, el := range els {
		out = append(out, c.convertOne(el))
	}
	return out, nil
}

func (c *Converter) convertOne(el gjson.Result) BatchResult {
	if !el.IsObject() {
		return BatchResult{Error: "non-object element in array"}
	}
	switch {
	case el.Get("gridref").Exists():
		coord, err := osgrid.ParseGridRef(el.Get("gridref").String())
		if err != nil {
			return BatchResult{Error: err.Error()}
		}
		res := BatchResult{OK: true, Coord: &coord}
		// Off-grid decodes keep the coordinate; the rest fills in only
		// for positions on the grid.
		if ll, err := c.toLatLng(coord, params.DefaultLatLngDecimals); err == nil {
			res.LatLng = &ll
		}
		if ref, err := osgrid.ToGridRef(coord); err == nil {
			res.GridRef = &ref
		}
		c.emit(events.Conversion{Op: events.OpFromGridRef, Coord: res.Coord, LatLng: res.LatLng, GridRef: res.GridRef})
		return res

	case el.Get("lat").Exists() && el.Get("lng").Exists():
		ll := osgrid.LatLng{Lat: el.Get("lat").Float(), Lng: el.Get("lng").Float()}
		coord, err := c.toNationalGrid(ll, params.DefaultGridDecimals)
		if err != nil {
			return BatchResult{Error: err.Error()}
		}
		res := BatchResult{OK: true, LatLng: &ll, Coord: &coord}
		if ref, err := osgrid.ToGridRef(coord); err == nil {
			res.GridRef = &ref
		}
		c.emit(events.Conversion{Op: events.OpToNationalGrid, Coord: res.Coord, LatLng: res.LatLng, GridRef: res.GridRef})
		return res

	case el.Get("ea").Exists() && el.Get("no").Exists():
		coord := osgrid.Coordinate{Easting: el.Get("ea").Float(), Northing: el.Get("no").Float()}
		ref, err := osgrid.ToGridRef(coord)
		if err != nil {
			return BatchResult{Error: err.Error()}
		}
		res := BatchResult{OK: true, Coord: &coord, GridRef: &ref}
		if ll, err := c.toLatLng(coord, params.DefaultLatLngDecimals); err == nil {
			res.LatLng = &ll
		}
		c.emit(events.Conversion{Op: events.OpToGridRef, Coord: res.Coord, LatLng: res.LatLng, GridRef: res.GridRef})
		return res
	}
	return BatchResult{Error: "unrecognized position shape"}
}
