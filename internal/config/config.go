package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	DBPath        string
	JWTSecret     string
	TokenTTLHours int
	CodeBytes     int
}

// Load reads .env if present (fine if missing in prod) and resolves
// the settings from the environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:          getenv("ADDR", ":8080"),
		DBPath:        getenv("DB_PATH", "./data/reviewhub.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTLHours: getenvInt("TOKEN_TTL_HOURS", 24),
		CodeBytes:     getenvInt("CONFIRMATION_CODE_BYTES", 8),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("missing required env JWT_SECRET")
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("env %s: %v", k, err)
	}
	return n
}
