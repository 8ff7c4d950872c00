package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config enumerates every tunable the engine needs. It is built once in
// main and handed to constructors; nothing reads os.Getenv after startup.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr    string
	KafkaBrokers string
	JWTSecret    string

	// ExtractorURL points at the external feature-extraction/liveness
	// service; ExtractorTimeout bounds each call to it.
	ExtractorURL     string
	ExtractorTimeout time.Duration

	// Biometric engine settings.
	MatchThreshold     float64
	LivenessThreshold  float64
	GracePeriodMinutes int
	// EncryptionKey is the process-wide template key, 32 bytes decoded
	// from BIOMETRIC_ENCRYPTION_KEY (hex). Nil when unset; the API
	// refuses to start without it, the outbox worker never needs it.
	EncryptionKey []byte

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

var ErrMissingEncryptionKey = errors.New("BIOMETRIC_ENCRYPTION_KEY is not set")

func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "3000"),
		DBHost:             os.Getenv("DB_HOST"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:       getEnv("KAFKA_BROKERS", "localhost:9092"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		ExtractorURL:       getEnv("EXTRACTOR_URL", "http://localhost:8500"),
		ExtractorTimeout:   time.Duration(getEnvInt("EXTRACTOR_TIMEOUT_SECONDS", 10)) * time.Second,
		MatchThreshold:     getEnvFloat("FACE_MATCH_THRESHOLD", 0.6),
		LivenessThreshold:  getEnvFloat("LIVENESS_THRESHOLD", 0.7),
		GracePeriodMinutes: getEnvInt("GRACE_PERIOD_MINUTES", 5),
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       10 * time.Second,
		IdleTimeout:        60 * time.Second,
	}

	if raw := os.Getenv("BIOMETRIC_ENCRYPTION_KEY"); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("BIOMETRIC_ENCRYPTION_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return Config{}, fmt.Errorf("BIOMETRIC_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
		}
		cfg.EncryptionKey = key
	}

	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold > 1 {
		return Config{}, fmt.Errorf("FACE_MATCH_THRESHOLD out of range (0,1]: %f", cfg.MatchThreshold)
	}
	if cfg.LivenessThreshold <= 0 || cfg.LivenessThreshold > 1 {
		return Config{}, fmt.Errorf("LIVENESS_THRESHOLD out of range (0,1]: %f", cfg.LivenessThreshold)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
