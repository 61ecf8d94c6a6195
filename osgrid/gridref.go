package osgrid

import (
	"fmt"
	"github.com/paulmach/orb"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// tileLetters is the 25-letter grid alphabet (I is not used) laid out over a
// 5x5 block of tiles read west to east, south to north. The index of a letter
// encodes a column (idx % 5) and a row (idx / 5) within its block.
const tileLetters = "VWXYZQRSTULMNOPFGHJKABCDE"

// tilePrefixes names the 100 km tiles, indexed [northing band][easting band],
// southernmost row first. Encoding reads this table; decoding runs through
// tileLetters arithmetic instead, and the two agree (see tests).
var tilePrefixes = [13][7]string{
	{"SV", "SW", "SX", "SY", "SZ", "TV", "TW"},
	{"SQ", "SR", "SS", "ST", "SU", "TQ", "TR"},
	{"SL", "SM", "SN", "SO", "SP", "TL", "TM"},
	{"SF", "SG", "SH", "SJ", "SK", "TF", "TG"},
	{"SA", "SB", "SC", "SD", "SE", "TA", "TB"},
	{"NV", "NW", "NX", "NY", "NZ", "OV", "OW"},
	{"NQ", "NR", "NS", "NT", "NU", "OQ", "OR"},
	{"NL", "NM", "NN", "NO", "NP", "OL", "OM"},
	{"NF", "NG", "NH", "NJ", "NK", "OF", "OG"},
	{"NA", "NB", "NC", "ND", "NE", "OA", "OB"},
	{"HV", "HW", "HX", "HY", "HZ", "JV", "JW"},
	{"HQ", "HR", "HS", "HT", "HU", "JQ", "JR"},
	{"HL", "HM", "HN", "HO", "HP", "JL", "JM"},
}

// gridRefPattern admits a tile prefix (first letter one of H, J, N, O, S, T;
// second any grid letter) followed by one or two runs of digits.
var gridRefPattern = regexp.MustCompile(`^([HJNOST])([A-HJ-Z])\s*(\d+(?:\s+\d+)*)$`)

// ToGridRef encodes a projected coordinate as a grid reference at full 1 m
// resolution. The coordinate must lie within ProjectedExtent.
func ToGridRef(c Coordinate) (GridRef, error) {
	if err := CheckProjectedBounds(c); err != nil {
		return GridRef{}, err
	}
	x := int(math.Floor(c.Easting / TileSize))
	y := int(math.Floor(c.Northing / TileSize))
	if y >= len(tilePrefixes) || x >= len(tilePrefixes[0]) {
		// Unreachable behind the bounds check, kept as a guard.
		return GridRef{}, fmt.Errorf("%w: no tile at easting band %d, northing band %d",
			ErrOutOfBounds, x, y)
	}
	letters := tilePrefixes[y][x]
	ea := fmt.Sprintf("%05d", int(math.Floor(c.Easting))%100_000)
	no := fmt.Sprintf("%05d", int(math.Floor(c.Northing))%100_000)
	return GridRef{
		Text:      letters + " " + ea + " " + no,
		HTML:      letters + "&nbsp;" + ea + "&nbsp;" + no,
		Letters:   letters,
		Eastings:  ea,
		Northings: no,
	}, nil
}

// ParseGridRef decodes a grid reference string to the projected coordinate of
// its southwest corner. Letter case and the spacing between components are
// forgiving; the digit groups are not: two groups must have equal length, a
// single fused run must have even length, and anything else is rejected.
// Fewer than five digits per group yields a correspondingly coarser
// (truncated) coordinate: "NY 372 036" names the same corner as "NY 37200
// 03600".
//
// Only the string format is validated here. A reference like "TZ 00000 00000"
// is well formed but names a tile off the east edge of the grid; pair with
// CheckProjectedBounds when the result must be on it.
func ParseGridRef(s string) (Coordinate, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	m := gridRefPattern.FindStringSubmatch(norm)
	if m == nil {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrBadGridRef, s)
	}
	groups := strings.Fields(m[3])
	var east, north string
	switch len(groups) {
	case 1:
		run := groups[0]
		if len(run)%2 != 0 || len(run) > 10 {
			return Coordinate{}, fmt.Errorf("%w: %q: digits must split evenly", ErrBadGridRef, s)
		}
		east, north = run[:len(run)/2], run[len(run)/2:]
	case 2:
		east, north = groups[0], groups[1]
		if len(east) != len(north) {
			return Coordinate{}, fmt.Errorf("%w: %q: unequal digit groups", ErrBadGridRef, s)
		}
		if len(east) > 5 {
			return Coordinate{}, fmt.Errorf("%w: %q: more than 5 digits per group", ErrBadGridRef, s)
		}
	default:
		return Coordinate{}, fmt.Errorf("%w: %q: want one or two digit groups", ErrBadGridRef, s)
	}

	tileEa, tileNo, err := tileOrigin(m[1] + m[2])
	if err != nil {
		return Coordinate{}, err
	}
	scale := math.Pow(10, float64(5-len(east)))
	e, _ := strconv.Atoi(east)
	n, _ := strconv.Atoi(north)
	return Coordinate{
		Easting:  tileEa + float64(e)*scale,
		Northing: tileNo + float64(n)*scale,
	}, nil
}

// TileExtent returns the projected envelope of the named 100 km tile.
// Letter pairs that are alphabetically well formed but name a tile off the
// grid ("TZ", "HA") are rejected.
func TileExtent(letters string) (orb.Bound, error) {
	norm := strings.ToUpper(strings.TrimSpace(letters))
	ea, no, err := tileOrigin(norm)
	if err != nil {
		return orb.Bound{}, err
	}
	x, y := int(ea/TileSize), int(no/TileSize)
	if y < 0 || y >= len(tilePrefixes) || x < 0 || x >= len(tilePrefixes[0]) ||
		tilePrefixes[y][x] != norm {
		return orb.Bound{}, fmt.Errorf("%w: no tile %q on the grid", ErrBadGridRef, norm)
	}
	return orb.Bound{
		Min: orb.Point{ea, no},
		Max: orb.Point{ea + TileSize, no + TileSize},
	}, nil
}

// tileOrigin resolves a two-letter tile prefix to the projected coordinate of
// its southwest corner. The first letter places a 500 km block relative to a
// false origin two blocks west and one south of the grid; the second letter
// places the 100 km tile within that block.
func tileOrigin(letters string) (ea, no float64, err error) {
	if len(letters) != 2 {
		return 0, 0, fmt.Errorf("%w: tile %q", ErrBadGridRef, letters)
	}
	major := strings.IndexByte(tileLetters, letters[0])
	minor := strings.IndexByte(tileLetters, letters[1])
	if major < 0 || minor < 0 {
		return 0, 0, fmt.Errorf("%w: tile %q", ErrBadGridRef, letters)
	}
	ea = float64(major%5)*500_000 - 1_000_000 + float64(minor%5)*TileSize
	no = float64(major/5)*500_000 - 500_000 + float64(minor/5)*TileSize
	return ea, no, nil
}
