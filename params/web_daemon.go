package params

import "time"

type ListenerConfig struct {
	// Network is the network to listen on.
	// The network must be "tcp", "tcp4", "tcp6", "unix" or "unixpacket".
	Network string
	// Address is the address to listen on.
	Address string
}

type WebDaemonConfig struct {
	ListenerConfig

	// ExportInterval is how often the daemon flushes buffered conversions
	// to InfluxDB. Zero disables the exporter. The exporter also stays off
	// when no INFLUXDB_URL is configured, whatever the interval.
	ExportInterval time.Duration

	// ExportBufferSize caps conversions held between flushes; a full
	// buffer forces a flush ahead of the ticker.
	ExportBufferSize int
}

func DefaultWebListenerConfig() ListenerConfig {
	return ListenerConfig{
		Network: "tcp",
		Address: "localhost:3000",
	}
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		ListenerConfig:   DefaultWebListenerConfig(),
		ExportInterval:   30 * time.Second,
		ExportBufferSize: DefaultBatchSize,
	}
}

func DefaultTestWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		ListenerConfig: ListenerConfig{
			Network: "tcp",
			Address: "localhost:3333",
		},
		ExportBufferSize: DefaultBatchSize,
	}
}
