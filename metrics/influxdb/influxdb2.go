// Package influxdb posts conversion events to an InfluxDB 2.x bucket.
package influxdb

import (
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/rotblauer/osgridd/events"
	"github.com/rotblauer/osgridd/params"
	"sync"
	"time"
)

// ExportConversions posts conversions to an InfluxDB Write API.
// Because it accepts a slice, use batches. The Write API will buffer and flush.
// The last error encountered is returned.
func ExportConversions(conversions []events.Conversion) error {
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(params.INFLUXDB_URL, params.INFLUXDB_TOKEN, opts)
	writeAPI := client.WriteAPI(params.INFLUXDB_ORG, params.INFLUXDB_BUCKET)

	// Errors returns a channel for reading errors which occurs during async writes.
	// Must be called before performing any writes for errors to be collected.
	// The chan is unbuffered and must be drained or the writer will block.
	// https://github.com/influxdata/influxdb-client-go?tab=readme-ov-file#reading-async-errors
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	for _, c := range conversions {
		p := influxdb2.NewPointWithMeasurement("conversion").
			SetTime(c.At).
			AddTag("op", string(c.Op))
		if c.GridRef != nil {
			p.AddTag("tile", c.GridRef.Letters)
			p.AddField("gridref", c.GridRef.Text)
		}
		if c.Coord != nil {
			p.AddField("ea", c.Coord.Easting)
			p.AddField("no", c.Coord.Northing)
		}
		if c.LatLng != nil {
			p.AddField("lat", c.LatLng.Lat)
			p.AddField("lng", c.LatLng.Lng)
		}
		writeAPI.WritePoint(p)
	}
	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}
