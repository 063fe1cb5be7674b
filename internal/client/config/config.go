// Package config holds runtime settings for the expo admin CLI.
package config

// Config holds runtime settings.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API.
//   - StateDBPath: path of the local sqlite state database.
//   - PageSize: rows per page on list screens.
type Config struct {
	APIBaseURL  string
	StateDBPath string
	PageSize    int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://www.fist-o.com/eco_energy/api"
	c.StateDBPath = "expoadmin.db"
	c.PageSize = 5
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including a .env file, if present), a JSON file (if
// -c/-config is given) and command-line flags. Later sources take precedence
// over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
