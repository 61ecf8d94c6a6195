/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/rotblauer/osgridd/api"
	"github.com/rotblauer/osgridd/common"
	"github.com/rotblauer/osgridd/events"
	"github.com/rotblauer/osgridd/geodesy"
	"github.com/rotblauer/osgridd/metrics"
	"github.com/rotblauer/osgridd/metrics/influxdb"
	"github.com/rotblauer/osgridd/params"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"log"
	"log/slog"
	"os"
	"time"
)

var optTo string
var optExportInfluxDB bool

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [position ...]",
	Short: "Convert positions from stdin or args",
	Long: `

Positions are decoded as JSON lines from stdin (or from args, one position
per arg) and converted. Results are written as JSON lines to stdout, element
for element; a rejected position yields a result with ok=false and the
reason, and does not stop the stream.

Accepted position shapes, sniffed per line:

  {"ea": 337297, "no": 503695}
  {"lat": 54.427, "lng": -2.968}
  {"gridref": "NY 37297 03695"}

Flags:

  --to               Output target: auto, latlng, nationalgrid, gridref.
                     Auto emits the full result with every shape reachable
                     from the input; the named targets emit just that shape,
                     falling back to the full result when it is unreachable.
                     (Default is auto.)
  --export-influxdb  Also post converted positions to InfluxDB, configured
                     by INFLUXDB_URL, INFLUXDB_TOKEN, INFLUXDB_ORG and
                     INFLUXDB_BUCKET.

Examples:

  zcat positions.json.gz | osgridd convert --to latlng
  osgridd convert '{"gridref": "TQ 30000 80000"}'
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		switch optTo {
		case "auto", "latlng", "nationalgrid", "gridref":
		default:
			log.Fatalf("unknown --to target: %q", optTo)
		}

		transformer, err := geodesy.NewProjTransformer()
		if err != nil {
			log.Fatalln(err)
		}
		defer transformer.Close()
		converter := api.NewConverter(transformer)

		meter := metrics.NewConversionMeter(10 * time.Second)
		defer meter.Stop()

		batchSize := clampBatchSize(params.DefaultBatchSize)

		// Successful conversions land on the feed; collect them there for
		// the optional export.
		var exported []events.Conversion
		exportCh := make(chan events.Conversion, batchSize)
		if optExportInfluxDB {
			sub := events.ConversionFeed.Subscribe(exportCh)
			defer sub.Unsubscribe()
		}
		drainExport := func(force bool) {
			if !optExportInfluxDB {
				return
			}
			for {
				select {
				case ev := <-exportCh:
					exported = append(exported, ev)
				default:
					if (force && len(exported) > 0) || len(exported) >= batchSize {
						slog.Info("Exporting conversions", "n", len(exported))
						if err := influxdb.ExportConversions(exported); err != nil {
							slog.Error("Failed to export conversions", "error", err)
						}
						exported = exported[:0]
					}
					return
				}
			}
		}

		enc := json.NewEncoder(os.Stdout)
		writeResult := func(res api.BatchResult) {
			var err error
			switch {
			case optTo == "latlng" && res.LatLng != nil:
				err = enc.Encode(res.LatLng)
			case optTo == "nationalgrid" && res.Coord != nil:
				err = enc.Encode(res.Coord)
			case optTo == "gridref" && res.GridRef != nil:
				_, err = fmt.Fprintln(os.Stdout, res.GridRef.Text)
			default:
				err = enc.Encode(res)
			}
			if err != nil {
				log.Fatalln(err)
			}
		}

		flushLines := func(lines [][]byte) {
			if len(lines) == 0 {
				return
			}
			body := bytes.Join(lines, []byte(","))
			body = append(append([]byte("["), body...), ']')
			results, err := converter.ConvertBatch(body)
			if err != nil {
				slog.Error("Failed to decode batch", "error", err)
				return
			}
			for _, res := range results {
				writeResult(res)
			}
			drainExport(false)
		}

		interrupt := common.Interrupted()
		quit := make(chan struct{})
		go func() {
			for i := 0; i < 2; i++ {
				sig := <-interrupt
				slog.Warn("Received signal", "signal", sig, "i", i)
				if i == 0 {
					close(quit)
				} else {
					log.Fatalln("Force exit")
				}
			}
		}()

		linesCh := make(chan []byte, batchSize)
		go func() {
			defer close(linesCh)
			if len(args) > 0 {
				for _, arg := range args {
					linesCh <- []byte(arg)
				}
				return
			}
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
			for scanner.Scan() {
				line := bytes.TrimSpace(scanner.Bytes())
				if len(line) == 0 {
					continue
				}
				cp := make([]byte, len(line))
				copy(cp, line)
				linesCh <- cp
			}
			if err := scanner.Err(); err != nil {
				slog.Error("Failed to read stdin", "error", err)
			}
		}()

		lines := make([][]byte, 0, batchSize)
	readLoop:
		for {
			select {
			case line, ok := <-linesCh:
				if !ok {
					break readLoop
				}
				if !gjson.ValidBytes(line) {
					writeResult(api.BatchResult{Error: "invalid JSON"})
					continue
				}
				lines = append(lines, line)
				if len(lines) >= batchSize {
					flushLines(lines)
					lines = lines[:0]
				}
			case <-quit:
				break readLoop
			}
		}
		flushLines(lines)
		drainExport(true)
	},
}

// clampBatchSize bounds the flag-set batch size: the channels and flush
// threshold need at least 1, and the converter rejects batches over
// params.MaxBatchItems.
func clampBatchSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > params.MaxBatchItems {
		return params.MaxBatchItems
	}
	return n
}

func init() {
	rootCmd.AddCommand(convertCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// convertCmd.PersistentFlags().String("foo", "", "A help for foo")
	pFlags := convertCmd.PersistentFlags()
	pFlags.StringVar(&optTo, "to", "auto", "Output target: auto, latlng, nationalgrid, gridref")
	pFlags.BoolVar(&optExportInfluxDB, "export-influxdb", false, "Post converted positions to InfluxDB")
	pFlags.IntVar(&params.DefaultBatchSize, "batch-size", params.DefaultBatchSize, "Lines per conversion batch")
	pFlags.IntVar(&params.DefaultLatLngDecimals, "latlng-decimals", params.DefaultLatLngDecimals, "Rounding for geographic output")
	pFlags.IntVar(&params.DefaultGridDecimals, "grid-decimals", params.DefaultGridDecimals, "Rounding for projected output")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// convertCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
