package server

import (
	"os"
	"strconv"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

// Config holds the HTTP server settings, all overridable via environment.
type Config struct {
	Addr              string
	DefaultDifficulty string
	YieldInterval     int
}

// LoadConfig reads the environment with sensible defaults.
func LoadConfig() Config {
	cfg := Config{
		Addr:              ":8080",
		DefaultDifficulty: "hard",
		YieldInterval:     500,
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ENGINE_DIFFICULTY"); v != "" {
		cfg.DefaultDifficulty = v
	}
	if v := os.Getenv("ENGINE_YIELD_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.YieldInterval = n
		}
	}
	return cfg
}
