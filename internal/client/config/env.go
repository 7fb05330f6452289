package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first when present; a missing file is not an
// error.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("FARMLINE_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("FARMLINE_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("FARMLINE_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("FARMLINE_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("FARMLINE_SCOPE"); v != "" {
		cfg.StorageScope = v
	}
	if v := os.Getenv("FARMLINE_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
}
