package config

import (
	"os"
	"strconv"
)

type Config struct {
	Addr        string
	DBPath      string
	APIKey      string
	AdminSecret string
	// Topics selects the topic-aware schema variant: when false, posts carry
	// no topic_id and the topic routes still exist but new posts are not
	// required to name one.
	Topics bool
}

func Load() Config {
	addr := envString("STORYBOARD_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	return Config{
		Addr:        addr,
		DBPath:      envString("STORYBOARD_DB", "storyboard.db"),
		APIKey:      envString("STORYBOARD_API_KEY", "dev-api-key"),
		AdminSecret: envString("STORYBOARD_ADMIN_SECRET", "dev-admin-secret"),
		Topics:      envBool("STORYBOARD_TOPICS", true),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
