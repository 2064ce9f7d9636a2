package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Endpoint = EndpointConfig{
		URL:       "http://127.0.0.1:0",
		Timeout:   5 * time.Second,
		UserAgent: "chronos-test/1.0",
	}
	cfg.UI.Timezone = "UTC"
	cfg.Log = LogConfig{Level: "off"}
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.DB = ""
	return cfg
}
