package config

import (
	"os"
	"strconv"
)

// Config collects every environment knob the server reads.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Invite InviteConfig
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	// URL selects postgres when set; otherwise Path selects a sqlite file.
	URL  string
	Path string
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

type InviteConfig struct {
	// Secret signs organization invite codes (HMAC-SHA256).
	Secret string
}

// Load reads configuration from the environment with sensible defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
		},
		DB: DBConfig{
			URL:  getEnv("DATABASE_URL", ""),
			Path: getEnv("DATA_PATH", "volunteer_hub.db"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-me-in-production"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Invite: InviteConfig{
			Secret: getEnv("INVITE_SECRET", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
