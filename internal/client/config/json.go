package config

import (
	"encoding/json"
	"os"

	"github.com/mkalvans/farmline/internal/flagx"
	"github.com/mkalvans/farmline/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	APIBaseURL    *string         `json:"api_base_url"`
	RedisAddr     *string         `json:"redis_addr"`
	RedisPassword *string         `json:"redis_password"`
	RedisDB       *int            `json:"redis_db"`
	StorageScope  *string         `json:"storage_scope"`
	StateDir      *string         `json:"state_dir"`
	TypingExpiry  *timex.Duration `json:"typing_expiry"`
	OnlineTTL     *timex.Duration `json:"online_ttl"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c/-config flags. Absent file means no overlay; read or unmarshal
// errors panic (caller may recover). Only fields present in the file are
// copied, so the JSON can be partial.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RedisAddr != nil {
		cfg.RedisAddr = *jc.RedisAddr
	}
	if jc.RedisPassword != nil {
		cfg.RedisPassword = *jc.RedisPassword
	}
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.StorageScope != nil {
		cfg.StorageScope = *jc.StorageScope
	}
	if jc.StateDir != nil {
		cfg.StateDir = *jc.StateDir
	}
	if jc.TypingExpiry != nil {
		cfg.TypingExpiry = jc.TypingExpiry.Duration
	}
	if jc.OnlineTTL != nil {
		cfg.OnlineTTL = jc.OnlineTTL.Duration
	}
}
