package webd

import (
	"github.com/gorilla/mux"
	"github.com/rotblauer/osgridd/osgrid"
	"github.com/rotblauer/osgridd/params"
	"io"
	"math"
	"net/http"
)

// handleToLatLng converts ?ea=&no= to a geographic position.
func (s *WebDaemon) handleToLatLng(w http.ResponseWriter, r *http.Request) {
	ea, ok := s.queryFloat(w, r, "ea")
	if !ok {
		return
	}
	no, ok := s.queryFloat(w, r, "no")
	if !ok {
		return
	}
	decimals, ok := s.queryDecimals(w, r, params.DefaultLatLngDecimals)
	if !ok {
		return
	}
	ll, err := s.Converter.ToLatLng(osgrid.Coordinate{Easting: ea, Northing: no}, decimals)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}
	s.writeJSON(w, ll)
}

// handleToNationalGrid converts ?lat=&lng= to a projected coordinate.
func (s *WebDaemon) handleToNationalGrid(w http.ResponseWriter, r *http.Request) {
	lat, ok := s.queryFloat(w, r, "lat")
	if !ok {
		return
	}
	lng, ok := s.queryFloat(w, r, "lng")
	if !ok {
		return
	}
	decimals, ok := s.queryDecimals(w, r, params.DefaultGridDecimals)
	if !ok {
		return
	}
	coord, err := s.Converter.ToNationalGrid(osgrid.LatLng{Lat: lat, Lng: lng}, decimals)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}
	s.writeJSON(w, coord)
}

// handleToGridRef encodes ?ea=&no= as a grid reference.
func (s *WebDaemon) handleToGridRef(w http.ResponseWriter, r *http.Request) {
	ea, ok := s.queryFloat(w, r, "ea")
	if !ok {
		return
	}
	no, ok := s.queryFloat(w, r, "no")
	if !ok {
		return
	}
	ref, err := s.Converter.ToGridRef(osgrid.Coordinate{Easting: ea, Northing: no})
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}
	s.writeJSON(w, ref)
}

// handleFromGridRef decodes ?gridref= to the projected coordinate of its
// southwest corner.
func (s *WebDaemon) handleFromGridRef(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.queryString(w, r, "gridref")
	if !ok {
		return
	}
	coord, err := s.Converter.FromGridRef(ref)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}
	s.writeJSON(w, coord)
}

// handleGridRefToLatLng decodes ?gridref= and projects it to a geographic
// position.
func (s *WebDaemon) handleGridRefToLatLng(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.queryString(w, r, "gridref")
	if !ok {
		return
	}
	decimals, ok := s.queryDecimals(w, r, params.DefaultLatLngDecimals)
	if !ok {
		return
	}
	ll, err := s.Converter.GridRefToLatLng(ref, decimals)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}
	s.writeJSON(w, ll)
}

// handleTile describes a 100km tile as a GeoJSON polygon of its extent.
func (s *WebDaemon) handleTile(w http.ResponseWriter, r *http.Request) {
	letters := mux.Vars(r)["letters"]
	feature, err := s.Converter.TileInfo(letters)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}
	s.writeJSON(w, feature)
}

// handleConvert is where position batches get posted. The body is either a
// JSON array of positions or an object with an "items" array; results come
// back element for element, bad elements flagged rather than fatal.
func (s *WebDaemon) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		s.logger.Error("No request body", "method", r.Method, "url", r.URL)
		http.Error(w, "Please send a request body", http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("Failed to read request body", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	truncatedBytes := string(body)[:int(math.Min(80, float64(len(body))))]
	s.logger.Debug("Decoding batch", "body.len", len(body), "bytes", truncatedBytes)

	results, err := s.Converter.ConvertBatch(body)
	if err != nil {
		s.logger.Warn("Failed to decode batch", "error", err)
		s.writeError(w, statusForError(err), err)
		return
	}
	s.writeJSON(w, results)
}
