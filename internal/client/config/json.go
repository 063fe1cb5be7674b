package config

import (
	"encoding/json"
	"os"

	"github.com/fist-o/expoadmin/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling; parsed values
// are copied into the runtime Config.
type JsonConfig struct {
	APIBaseURL  string `json:"api_base_url"`
	StateDBPath string `json:"state_db_path"`
	PageSize    int    `json:"page_size"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flag. When no flag is given, nothing is loaded. Only fields
// present in the file override the current values. Panics on read or
// unmarshal errors, matching the fail-fast startup policy.
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
	if jc.StateDBPath != "" {
		cfg.StateDBPath = jc.StateDBPath
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
}
