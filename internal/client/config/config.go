// Package config handles configuration for the client CLI: defaults,
// optional JSON overlay, then command-line flags, each later source
// overriding the earlier ones.
package config

// Config holds runtime settings for the authkit client.
//
// Fields:
//   - AuthBaseURL: base URL of the backend's auth surface, including the
//     mount path (e.g. "http://127.0.0.1:8080/user").
//   - CredentialsDB: path/DSN of the local SQLite database holding the
//     bearer token between runs.
type Config struct {
	AuthBaseURL   string
	CredentialsDB string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.AuthBaseURL = "http://127.0.0.1:8080/user"
	c.CredentialsDB = "credentials.db"
}

// LoadConfig constructs a Config from defaults, JSON (if present) and
// flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
