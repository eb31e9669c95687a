// Package config loads service configuration from the environment and the
// optional classifier calibration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/example/face-insight/internal/engine"
)

// Config carries the addresses and secrets the composition root wires with.
type Config struct {
	ListenAddr     string
	DatabaseDSN    string
	RedisAddr      string
	LandmarkerURL  string
	JWTSecret      string
	JWTAudience    string
	ThresholdsPath string
}

// Load reads an optional .env file, then the environment, applying the same
// defaults the service ships with in docker-compose.
func Load() Config {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	return Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "host=postgres user=postgres password=postgres dbname=faceinsight port=5432 sslmode=disable"),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		LandmarkerURL:  getEnv("LANDMARKER_URL", "http://landmarker:5000"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		JWTAudience:    os.Getenv("JWT_AUDIENCE"),
		ThresholdsPath: os.Getenv("THRESHOLDS_PATH"),
	}
}

// LoadThresholds returns the default calibration, overridden by the JSON
// file at path when one is configured. The result is validated either way,
// so a bad recalibration fails startup instead of misclassifying quietly.
func LoadThresholds(path string) (engine.Thresholds, error) {
	thresholds := engine.DefaultThresholds()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return engine.Thresholds{}, fmt.Errorf("config: read thresholds: %w", err)
		}
		if err := json.Unmarshal(data, &thresholds); err != nil {
			return engine.Thresholds{}, fmt.Errorf("config: parse thresholds: %w", err)
		}
	}
	if err := thresholds.Validate(); err != nil {
		return engine.Thresholds{}, err
	}
	return thresholds, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
