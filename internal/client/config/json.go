package config

import (
	"encoding/json"
	"os"

	"github.com/weesnerdevelopment/authkit/internal/flagx"
)

// JsonConfig is the DTO for JSON unmarshalling; values are copied into
// the runtime Config afterwards.
type JsonConfig struct {
	AuthBaseURL   string `json:"auth_base_url"`
	CredentialsDB string `json:"credentials_db"`
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

	if jc.AuthBaseURL != "" {
		cfg.AuthBaseURL = jc.AuthBaseURL
	}
	if jc.CredentialsDB != "" {
		cfg.CredentialsDB = jc.CredentialsDB
	}
}
