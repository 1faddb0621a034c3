package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Division describes one data archive to process.
type Division struct {
	Prefix string // "M" or "W"
	Zip    string // path to the Kaggle archive
}

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Data
	Divisions []Division

	// Artifact store
	ArtifactDB string

	// Prediction
	Strategy       string // "elo" or "lr"
	EvalFromSeason int

	// Optional prediction response cache
	RedisURL string
}

// Load loads configuration from environment variables. Every setting has a
// workable default; the archive paths default to the conventional Kaggle
// file names in the working directory.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		ArtifactDB:     getEnv("ARTIFACT_DB", "predict.db"),
		Strategy:       getEnv("PREDICTOR_STRATEGY", "elo"),
		EvalFromSeason: getEnvInt("EVAL_FROM_SEASON", 2015),
		RedisURL:       getEnv("REDIS_URL", ""),
	}

	cfg.Divisions = []Division{
		{Prefix: "M", Zip: getEnv("MENS_ZIP", "google-cloud-ncaa-march-madness-2020-division-1-mens-tournament.zip")},
		{Prefix: "W", Zip: getEnv("WOMENS_ZIP", "google-cloud-ncaa-march-madness-2020-division-1-womens-tournament.zip")},
	}

	switch cfg.Strategy {
	case "elo", "lr":
	default:
		return nil, fmt.Errorf("invalid PREDICTOR_STRATEGY %q (want elo or lr)", cfg.Strategy)
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
