package config

import "time"

// Config holds runtime settings for the Farmline CLI.
//
// StorageScope is the build-mode analog: "shared" keeps session state in a
// database visible to every client instance, "isolated" keeps it private to
// this process. TypingExpiry is the client-side decay of the typing
// indicator; OnlineTTL is the presence record's staleness window.
type Config struct {
	APIBaseURL    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StorageScope  string
	StateDir      string
	TypingExpiry  time.Duration
	OnlineTTL     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api/v1"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.StorageScope = "shared"
	c.StateDir = "."
	c.TypingExpiry = 3 * time.Second
	c.OnlineTTL = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
