package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	ServerPort   int
	JWTSecretKey string
	AdminKeyHash string

	MatchDuration      time.Duration
	PointsPerWin       int
	PointsPerDraw      int
	PointsPerLoss      int
	NumberOfGroups     int
	KnockoutQualifiers int
	ParallelMatches    int

	// R2 snapshot publishing; optional, disabled when AccountID is empty.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// SnapshotsEnabled reports whether snapshot uploads are configured.
func (c *Config) SnapshotsEnabled() bool {
	return c.R2AccountID != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	adminKeyHash := os.Getenv("ADMIN_KEY_HASH")
	if adminKeyHash == "" {
		return nil, fmt.Errorf("ADMIN_KEY_HASH environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	durationMinutes, err := intEnv("MATCH_DURATION_MINUTES", 20)
	if err != nil {
		return nil, err
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("MATCH_DURATION_MINUTES must be positive, got %d", durationMinutes)
	}

	pointsWin, err := intEnv("POINTS_PER_WIN", 2)
	if err != nil {
		return nil, err
	}
	pointsDraw, err := intEnv("POINTS_PER_DRAW", 1)
	if err != nil {
		return nil, err
	}
	pointsLoss, err := intEnv("POINTS_PER_LOSS", 0)
	if err != nil {
		return nil, err
	}

	numberOfGroups, err := intEnv("NUMBER_OF_GROUPS", 2)
	if err != nil {
		return nil, err
	}
	if numberOfGroups != 2 && numberOfGroups != 4 {
		return nil, fmt.Errorf("NUMBER_OF_GROUPS must be 2 or 4, got %d", numberOfGroups)
	}

	qualifiers, err := intEnv("KNOCKOUT_QUALIFIERS", 8)
	if err != nil {
		return nil, err
	}
	if qualifiers%numberOfGroups != 0 {
		return nil, fmt.Errorf("KNOCKOUT_QUALIFIERS (%d) must divide evenly over %d groups", qualifiers, numberOfGroups)
	}

	parallel, err := intEnv("PARALLEL_MATCHES", 1)
	if err != nil {
		return nil, err
	}
	if parallel < 1 {
		return nil, fmt.Errorf("PARALLEL_MATCHES must be at least 1, got %d", parallel)
	}

	cfg := &Config{
		DatabaseURL:  dbURL,
		ServerPort:   port,
		JWTSecretKey: jwtKey,
		AdminKeyHash: adminKeyHash,

		MatchDuration:      time.Duration(durationMinutes) * time.Minute,
		PointsPerWin:       pointsWin,
		PointsPerDraw:      pointsDraw,
		PointsPerLoss:      pointsLoss,
		NumberOfGroups:     numberOfGroups,
		KnockoutQualifiers: qualifiers,
		ParallelMatches:    parallel,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return value, nil
}
