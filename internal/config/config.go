package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Playfield — set once at startup, immutable afterward.
	PlayfieldWidth  float64
	PlayfieldHeight float64
	TickRate        int // physics ticks per second while a shot is in flight

	// Session Settings
	SessionExpiryMinutes   int
	IdleWarningSeconds     int
	IdleCloseSeconds       int
	IdleWorkerPollInterval int

	// Security
	JWTSecret string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/playputt?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Playfield
		PlayfieldWidth:  getEnvFloat("PLAYFIELD_WIDTH", 800),
		PlayfieldHeight: getEnvFloat("PLAYFIELD_HEIGHT", 600),
		TickRate:        getEnvInt("TICK_RATE", 60),

		// Session Settings
		SessionExpiryMinutes:   getEnvInt("SESSION_EXPIRY_MINUTES", 60),
		IdleWarningSeconds:     getEnvInt("IDLE_WARNING_SECONDS", 300),
		IdleCloseSeconds:       getEnvInt("IDLE_CLOSE_SECONDS", 600),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_SECONDS", 15),

		// Security
		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
