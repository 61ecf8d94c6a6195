package params

import "os"

// InfluxDB export configuration rides on the environment, matching the
// client library's own conventions. An empty INFLUXDB_URL disables export.
var INFLUXDB_URL = os.Getenv("INFLUXDB_URL")
var INFLUXDB_TOKEN = os.Getenv("INFLUXDB_TOKEN")
var INFLUXDB_ORG = os.Getenv("INFLUXDB_ORG")
var INFLUXDB_BUCKET = os.Getenv("INFLUXDB_BUCKET")
