package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables, loading a .env file
// from the working directory first when one exists. A missing .env is not an
// error.
//
// Recognized variables:
//
//	EXPOADMIN_API_URL    — backend base URL
//	EXPOADMIN_STATE_DB   — local state database path
//	EXPOADMIN_PAGE_SIZE  — rows per page (positive integer)
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("EXPOADMIN_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("EXPOADMIN_STATE_DB"); v != "" {
		cfg.StateDBPath = v
	}
	if v := os.Getenv("EXPOADMIN_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
}
