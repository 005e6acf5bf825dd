package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/weesnerdevelopment/authkit/internal/flagx"
)

// JsonConfig is the DTO for JSON unmarshalling; values are copied into
// the runtime Config afterwards.
type JsonConfig struct {
	EndpointAddr   string   `json:"endpoint_addr"`
	DatabaseDSN    string   `json:"database_dsn"`
	SecretKey      string   `json:"secret_key"`
	TokenValidity  string   `json:"token_validity"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flags. No file, no overlay. Read or unmarshal errors panic;
// a broken config file should stop startup.
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

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenValidity != "" {
		d, err := time.ParseDuration(jc.TokenValidity)
		if err != nil {
			panic(err)
		}
		cfg.TokenValidityDuration = d
	}
	if len(jc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = jc.AllowedOrigins
	}
}
