package webd

import (
	"encoding/json"
	"fmt"
	"github.com/rotblauer/osgridd/common"
	"github.com/rotblauer/osgridd/params"
	"github.com/rotblauer/osgridd/testing/testdata"
	"github.com/tidwall/gjson"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestWebDaemon_ping(t *testing.T) {
	req := httptest.NewRequest("GET", "http://localhost:3333/ping", nil)
	w := httptest.NewRecorder()
	pingPong(w, req)
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	t.Log(resp.StatusCode)
	t.Log(string(body))
	if resp.StatusCode != 200 {
		t.Fatalf("status code not 200")
	}
	if string(body) != "pong" {
		t.Errorf("body is not pong: %s", string(body))
	}
}

func TestWebDaemon_statusReport(t *testing.T) {
	d, teardown := newTestWebDaemon()
	defer teardown()

	// The melody hub opens from its own goroutine.
	deadline := time.Now().Add(5 * time.Second)
	for d.melodyInstance.IsClosed() {
		if time.Now().After(deadline) {
			t.Fatal("websocket hub never opened")
		}
		time.Sleep(10 * time.Millisecond)
	}

	req := httptest.NewRequest("GET", "http://localhost:3333/status", nil)
	w := httptest.NewRecorder()
	d.statusReport(w, req)
	resp := w.Result()
	t.Log(resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	status := webDaemonStatus{}
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatal(err)
	}
	if status.Uptime == "" {
		t.Fatal("uptime is empty")
	}
	if status.SourceCRS != params.SourceCRS {
		t.Errorf("source crs: %s", status.SourceCRS)
	}
	if !status.WSOpen {
		t.Error("websocket reported closed")
	}
}

func TestWebDaemon_handleToLatLng(t *testing.T) {
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://localhost:3333/latlng?ea=337297&no=503695&decimals=2", nil))
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	t.Log(resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code not 200")
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: %s", ct)
	}
	if v := gjson.GetBytes(body, "lat").Float(); v != 53.54 {
		t.Errorf("lat: %v", v)
	}
	if v := gjson.GetBytes(body, "lng").Float(); v != -2.94 {
		t.Errorf("lng: %v", v)
	}
}

func TestWebDaemon_handleToLatLng_rejects(t *testing.T) {
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	cases := []string{
		"/latlng",
		"/latlng?ea=337297",
		"/latlng?ea=abc&no=503695",
		"/latlng?ea=700000&no=503695",
		"/latlng?ea=NaN&no=503695",
		"/latlng?ea=337297&no=503695&decimals=-1",
		"/latlng?ea=337297&no=503695&decimals=13",
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "http://localhost:3333"+c, nil))
		resp := w.Result()
		body, _ := io.ReadAll(resp.Body)
		t.Log(c, resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status code not 400: %d", c, resp.StatusCode)
		}
		if !gjson.GetBytes(body, "error").Exists() {
			t.Errorf("%s: no error message", c)
		}
	}
}

func TestWebDaemon_handleToNationalGrid(t *testing.T) {
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	lat, lng, _ := testdata.FlatTransformer{}.ToLatLng(337297, 503695)
	target := fmt.Sprintf("http://localhost:3333/nationalgrid?lat=%v&lng=%v", lat, lng)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	t.Log(resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code not 200")
	}
	if v := gjson.GetBytes(body, "ea").Float(); math.Abs(v-337297) > 0.01 {
		t.Errorf("ea: %v", v)
	}
	if v := gjson.GetBytes(body, "no").Float(); math.Abs(v-503695) > 0.01 {
		t.Errorf("no: %v", v)
	}

	// Below the geographic window.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://localhost:3333/nationalgrid?lat=48.0&lng=-2.0", nil))
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status code not 400: %d", w.Result().StatusCode)
	}
}

func TestWebDaemon_handleToGridRef(t *testing.T) {
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://localhost:3333/gridref?ea=337297&no=503695", nil))
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	t.Log(resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code not 200")
	}
	if v := gjson.GetBytes(body, "text").String(); v != "NY 37297 03695" {
		t.Errorf("text: %q", v)
	}
	if v := gjson.GetBytes(body, "html").String(); v != "NY&nbsp;37297&nbsp;03695" {
		t.Errorf("html: %q", v)
	}
}

func TestWebDaemon_handleGridRef_decodes(t *testing.T) {
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	target := "http://localhost:3333/coordinates?gridref=" + url.QueryEscape("NY 37297 03695")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	t.Log(resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code not 200")
	}
	if v := gjson.GetBytes(body, "ea").Float(); v != 337297 {
		t.Errorf("ea: %v", v)
	}
	if v := gjson.GetBytes(body, "no").Float(); v != 503695 {
		t.Errorf("no: %v", v)
	}

	// Malformed reference.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://localhost:3333/coordinates?gridref=ZZ", nil))
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status code not 400: %d", w.Result().StatusCode)
	}
}

func TestWebDaemon_handleGridRefToLatLng(t *testing.T) {
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	target := "http://localhost:3333/gridref/latlng?gridref=" + url.QueryEscape("NY 37297 03695")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	t.Log(resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code not 200")
	}
	if v := gjson.GetBytes(body, "lat").Float(); math.Abs(v-53.5377928) > 1e-6 {
		t.Errorf("lat: %v", v)
	}

	// Decodes fine, but lands off the grid.
	target = "http://localhost:3333/gridref/latlng?gridref=" + url.QueryEscape("TZ 00000 00000")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	resp = w.Result()
	body, _ = io.ReadAll(resp.Body)
	t.Log(resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status code not 400: %d", resp.StatusCode)
	}
	if !strings.Contains(gjson.GetBytes(body, "error").String(), "out of bounds") {
		t.Errorf("error: %s", body)
	}
}

func TestWebDaemon_handleTile(t *testing.T) {
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://localhost:3333/tile/NY", nil))
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	t.Log(resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code not 200")
	}
	if v := gjson.GetBytes(body, "type").String(); v != "Feature" {
		t.Errorf("type: %q", v)
	}
	if v := gjson.GetBytes(body, "properties.letters").String(); v != "NY" {
		t.Errorf("letters: %q", v)
	}
	if v := gjson.GetBytes(body, "geometry.type").String(); v != "Polygon" {
		t.Errorf("geometry type: %q", v)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://localhost:3333/tile/TZ", nil))
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status code not 400: %d", w.Result().StatusCode)
	}
}

func TestWebDaemon_handleConvert(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "http://localhost:3333/convert", strings.NewReader(testdata.Batch_mixed_1))
	router.ServeHTTP(w, req)
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	t.Log(resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code not 200")
	}
	results := gjson.ParseBytes(body).Array()
	if len(results) != 5 {
		t.Fatalf("results: %d", len(results))
	}
	for i, want := range []bool{true, true, true, false, false} {
		if got := results[i].Get("ok").Bool(); got != want {
			t.Errorf("results[%d].ok = %v, want %v", i, got, want)
		}
	}
	if v := results[0].Get("coord.ea").Float(); v != 337297 {
		t.Errorf("results[0].coord.ea = %v", v)
	}
	if v := results[2].Get("gridref.text").String(); v != "NY 37200 03600" {
		t.Errorf("results[2].gridref.text = %q", v)
	}
}

func TestWebDaemon_handleConvert_undecodable(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	for _, body := range []string{"", "not json", "{}", "[]", "42"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "http://localhost:3333/convert", strings.NewReader(body))
		router.ServeHTTP(w, req)
		resp := w.Result()
		t.Logf("%q %d", body, resp.StatusCode)
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("%q: status code not 422: %d", body, resp.StatusCode)
		}
	}
}

func TestWebDaemon_handleConvert_token(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()
	t.Setenv(params.TokenEnvVar, "sekrit")
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	// No token.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "http://localhost:3333/convert", strings.NewReader(testdata.Batch_items_1))
	router.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status code not 403: %d", w.Result().StatusCode)
	}

	// Bearer token.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "http://localhost:3333/convert", strings.NewReader(testdata.Batch_items_1))
	req.Header.Set("Authorization", "Bearer sekrit")
	router.ServeHTTP(w, req)
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	t.Log(resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code not 200")
	}
	if n := len(gjson.ParseBytes(body).Array()); n != 1 {
		t.Errorf("results: %d", n)
	}

	// Query param token, the legacy protocol.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "http://localhost:3333/convert?api_token=sekrit", strings.NewReader(testdata.Batch_items_1))
	router.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status code not 200: %d", w.Result().StatusCode)
	}
}

func TestWebDaemon_corsPreflight(t *testing.T) {
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("OPTIONS", "http://localhost:3333/convert", nil))
	resp := w.Result()
	t.Log(resp.StatusCode)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status code not 204: %d", resp.StatusCode)
	}
	if v := resp.Header.Get("Access-Control-Allow-Origin"); v != "*" {
		t.Errorf("allow origin: %q", v)
	}
}

func TestWebDaemon_methodNotAllowed(t *testing.T) {
	d, teardown := newTestWebDaemon()
	defer teardown()
	router := d.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://localhost:3333/convert", nil))
	if w.Result().StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status code not 405: %d", w.Result().StatusCode)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "http://localhost:3333/latlng?ea=1&no=1", nil))
	if w.Result().StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status code not 405: %d", w.Result().StatusCode)
	}
}
