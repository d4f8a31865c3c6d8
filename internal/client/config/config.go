package config

import "time"

// Config holds runtime settings for the Snapline client.
//
// Fields:
//   - APIBaseURL: base URL of the backend HTTP API.
//   - NATSURL: address of the document-sync messaging endpoint.
//   - DatabasePath: location of the local SQLite preferences database.
//   - RequestTimeout: upper bound for one whole API request.
//   - TokenFetchTimeout: upper bound for the token read during request
//     interception.
type Config struct {
	APIBaseURL        string
	NATSURL           string
	DatabasePath      string
	RequestTimeout    time.Duration
	TokenFetchTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.NATSURL = "nats://127.0.0.1:4222"
	c.DatabasePath = "snapline.db"
	c.RequestTimeout = 30 * time.Second
	c.TokenFetchTimeout = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
