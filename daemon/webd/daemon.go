package webd

import (
	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/olahol/melody"
	"github.com/rotblauer/osgridd/api"
	"github.com/rotblauer/osgridd/metrics"
	"github.com/rotblauer/osgridd/params"
	"log/slog"
	"net"
	"net/http"
	"time"
)

type WebDaemon struct {
	Config         *params.WebDaemonConfig
	Converter      *api.Converter
	logger         *slog.Logger
	melodyInstance *melody.Melody
	meter          *metrics.ConversionMeter
	exportSub      event.Subscription
	started        time.Time
}

// NewWebDaemon assembles the daemon around a converter. A nil config gets
// the defaults.
func NewWebDaemon(config *params.WebDaemonConfig, converter *api.Converter) *WebDaemon {
	if config == nil {
		config = params.DefaultWebDaemonConfig()
	}
	d := &WebDaemon{
		Config:    config,
		Converter: converter,

		logger:  slog.With("d", "web"),
		meter:   metrics.NewConversionMeter(time.Minute),
		started: time.Now(),
	}
	d.initMelody()
	return d
}

// Run starts the HTTP server and waits on it, returning any server error.
func (s *WebDaemon) Run() error {
	router := s.NewRouter()
	listener, err := net.Listen(s.Config.Network, s.Config.Address)
	if err != nil {
		return err
	}
	s.logger.Info("Starting web daemon", "listen", listener.Addr().String(),
		"source", params.SourceCRS, "target", params.TargetCRS)
	s.startExporter()
	return http.Serve(listener, router)
}

func (s *WebDaemon) NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(false)
	router.Use(loggingMiddleware)

	router.Path("/socket").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = s.melodyInstance.HandleRequest(w, r)
	})

	apiRoutes := router.NewRoute().Subrouter()

	// All API routes use permissive CORS settings.
	apiRoutes.Use(permissiveCorsMiddleware)

	// /ping is a simple server healthcheck endpoint
	apiRoutes.Path("/ping").HandlerFunc(pingPong)

	apiJSONRoutes := apiRoutes.NewRoute().Subrouter()
	jsonMiddleware := contentTypeMiddlewareFunc("application/json")
	apiJSONRoutes.Use(jsonMiddleware)

	// OPTIONS is matched everywhere so preflights reach the CORS middleware.
	apiJSONRoutes.Path("/status").HandlerFunc(s.statusReport).Methods(http.MethodGet, http.MethodOptions)
	apiJSONRoutes.Path("/latlng").HandlerFunc(s.handleToLatLng).Methods(http.MethodGet, http.MethodOptions)
	apiJSONRoutes.Path("/nationalgrid").HandlerFunc(s.handleToNationalGrid).Methods(http.MethodGet, http.MethodOptions)
	apiJSONRoutes.Path("/gridref").HandlerFunc(s.handleToGridRef).Methods(http.MethodGet, http.MethodOptions)
	apiJSONRoutes.Path("/coordinates").HandlerFunc(s.handleFromGridRef).Methods(http.MethodGet, http.MethodOptions)
	apiJSONRoutes.Path("/gridref/latlng").HandlerFunc(s.handleGridRefToLatLng).Methods(http.MethodGet, http.MethodOptions)
	apiJSONRoutes.Path("/tile/{letters}").HandlerFunc(s.handleTile).Methods(http.MethodGet, http.MethodOptions)

	authenticatedAPIRoutes := apiJSONRoutes.NewRoute().Subrouter()
	authenticatedAPIRoutes.Use(tokenAuthenticationMiddleware)

	authenticatedAPIRoutes.Path("/convert/").HandlerFunc(s.handleConvert).Methods(http.MethodPost, http.MethodOptions)
	authenticatedAPIRoutes.Path("/convert").HandlerFunc(s.handleConvert).Methods(http.MethodPost, http.MethodOptions)

	return router
}
