package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/snapline/internal/flagx"
	"github.com/dmitrijs2005/snapline/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations can
// be given either as strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL        string         `json:"api_base_url"`
	NATSURL           string         `json:"nats_url"`
	DatabasePath      string         `json:"database_path"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	TokenFetchTimeout timex.Duration `json:"token_fetch_timeout"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flag. Missing flag means no JSON is loaded. Only fields present
// in the file override the current values.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.NATSURL != "" {
		cfg.NATSURL = jc.NATSURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.TokenFetchTimeout.Duration > 0 {
		cfg.TokenFetchTimeout = time.Duration(jc.TokenFetchTimeout.Duration)
	}
}
