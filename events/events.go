package events

import (
	"github.com/ethereum/go-ethereum/event"
	"github.com/rotblauer/osgridd/osgrid"
	"time"
)

// Op names a conversion operation.
type Op string

const (
	OpToLatLng        Op = "to_latlng"
	OpToNationalGrid  Op = "to_nationalgrid"
	OpToGridRef       Op = "to_gridref"
	OpFromGridRef     Op = "from_gridref"
	OpGridRefToLatLng Op = "gridref_to_latlng"
)

// Conversion records one successful conversion: the operation, whichever of
// the three position shapes took part in it, and when it happened.
// Intermediate shapes are included where an operation produces them, so a
// grid reference converted to lat/lng carries its decoded coordinate too.
type Conversion struct {
	Op      Op                 `json:"op"`
	Coord   *osgrid.Coordinate `json:"coord,omitempty"`
	LatLng  *osgrid.LatLng     `json:"latlng,omitempty"`
	GridRef *osgrid.GridRef    `json:"gridref,omitempty"`
	At      time.Time          `json:"at"`
}

// ConversionFeed is emitted for every conversion the service performs,
// whatever transport asked for it. Feed sends happen on the request path,
// so subscribers must keep their channels drained.
var ConversionFeed = event.FeedOf[Conversion]{}
