package params

import "github.com/ethereum/go-ethereum/metrics"

func init() {
	metrics.Enabled = true
}

var (
	// DefaultLatLngDecimals rounds geographic output; seven decimal places
	// is roughly a centimeter at British latitudes. A var so commands can
	// bind it to a flag.
	DefaultLatLngDecimals = 7

	// DefaultGridDecimals rounds projected output to centimeters.
	DefaultGridDecimals = 2
)

// MaxBatchItems caps the number of items accepted in one batch
// conversion request.
const MaxBatchItems = 10_000

// TokenEnvVar names the environment variable holding the API token for
// authenticated routes. When unset, all requests are allowed.
const TokenEnvVar = "OSGRIDD_TOKEN"

var DefaultBatchSize = 10_000
