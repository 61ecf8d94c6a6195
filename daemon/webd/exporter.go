package webd

import (
	"github.com/rotblauer/osgridd/events"
	"github.com/rotblauer/osgridd/metrics/influxdb"
	"github.com/rotblauer/osgridd/params"
	"time"
)

// startExporter forwards conversion events to InfluxDB in batches. It is a
// no-op unless an InfluxDB URL is configured and the export interval is
// positive. Batches flush on the interval or when the buffer fills.
func (s *WebDaemon) startExporter() {
	if params.INFLUXDB_URL == "" || s.Config.ExportInterval <= 0 {
		s.logger.Info("InfluxDB export disabled")
		return
	}

	ch := make(chan events.Conversion, s.Config.ExportBufferSize)
	s.exportSub = events.ConversionFeed.Subscribe(ch)
	s.logger.Info("InfluxDB export enabled",
		"interval", s.Config.ExportInterval, "buffer", s.Config.ExportBufferSize)

	go func() {
		ticker := time.NewTicker(s.Config.ExportInterval)
		defer ticker.Stop()
		batch := make([]events.Conversion, 0, s.Config.ExportBufferSize)
		flush := func() {
			if len(batch) == 0 {
				return
			}
			if err := influxdb.ExportConversions(batch); err != nil {
				s.logger.Error("Failed to export conversions", "error", err, "n", len(batch))
			} else {
				s.logger.Debug("Exported conversions", "n", len(batch))
			}
			batch = batch[:0]
		}
		for {
			select {
			case ev := <-ch:
				batch = append(batch, ev)
				if len(batch) >= s.Config.ExportBufferSize {
					flush()
				}
			case <-ticker.C:
				flush()
			case err := <-s.exportSub.Err():
				if err != nil {
					s.logger.Error("Export subscription failed", "error", err)
				}
				flush()
				return
			}
		}
	}()
}
