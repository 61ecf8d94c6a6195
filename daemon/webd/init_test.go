package webd

import (
	"github.com/rotblauer/osgridd/api"
	"github.com/rotblauer/osgridd/params"
	"github.com/rotblauer/osgridd/testing/testdata"
)

// newTestWebDaemon creates a WebDaemon for testing purposes, backed by the
// flat transformer so no native PROJ library is needed.
func newTestWebDaemon() (daemon *WebDaemon, teardown func()) {
	config := params.DefaultTestWebDaemonConfig()
	daemon = NewWebDaemon(config, api.NewConverter(testdata.FlatTransformer{}))
	teardown = func() {
		daemon.meter.Stop()
	}
	return daemon, teardown
}
