package config

import (
	"os"
	"time"
)

type Config struct {
	Port          string
	Env           string
	MongoURI      string
	MongoDBName   string
	JWTSecret     string
	JWTExpiry     time.Duration
	RefreshExpiry time.Duration
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB", "bridgea"),
		JWTSecret:     getEnv("JWT_SECRET", "supersecretjwtkey"),
		JWTExpiry:     getDuration("JWT_EXPIRY", 24*time.Hour),
		RefreshExpiry: getDuration("REFRESH_EXPIRY", 30*24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
