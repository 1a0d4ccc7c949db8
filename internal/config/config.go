// Package config centralizes the application's configuration loading.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
)

type Config struct {
	Server      ServerConfig
	Storage     StorageConfig
	RateLimiter RateLimiterConfig
	Files       FilesConfig
	Converter   ConverterConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	Type  string
	Redis RedisConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type RateLimiterConfig struct {
	Policy        domain.Policy
	SweepInterval time.Duration
}

type FilesConfig struct {
	UploadDir       string
	OutputDir       string
	MaxUploadBytes  int64
	Retention       time.Duration
	CleanupInterval time.Duration
}

type ConverterConfig struct {
	Command string
	Timeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	server := ServerConfig{Port: getEnv("SERVER_PORT", "8080")}

	storageType := getEnv("STORAGE_TYPE", "memory")

	redisConfig, err := buildRedisConfig()
	if err != nil {
		return Config{}, err
	}

	rateLimiterConfig, err := buildRateLimiterConfig()
	if err != nil {
		return Config{}, err
	}

	filesConfig, err := buildFilesConfig()
	if err != nil {
		return Config{}, err
	}

	converterConfig, err := buildConverterConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server: server,
		Storage: StorageConfig{
			Type:  storageType,
			Redis: redisConfig,
		},
		RateLimiter: rateLimiterConfig,
		Files:       filesConfig,
		Converter:   converterConfig,
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}, nil
}

func buildRedisConfig() (RedisConfig, error) {
	host := getEnv("REDIS_HOST", "localhost")
	port, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return RedisConfig{
		Host:     host,
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func buildRateLimiterConfig() (RateLimiterConfig, error) {
	enabled, err := strconv.ParseBool(getEnv("RATE_LIMIT_ENABLED", "true"))
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_ENABLED: %w", err)
	}

	windowMs, err := strconv.ParseInt(getEnv("RATE_LIMIT_WINDOW_MS", "900000"), 10, 64)
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_WINDOW_MS: %w", err)
	}
	if windowMs <= 0 {
		return RateLimiterConfig{}, fmt.Errorf("RATE_LIMIT_WINDOW_MS must be positive, got %d", windowMs)
	}

	maxRequests, err := strconv.Atoi(getEnv("RATE_LIMIT_MAX_REQUESTS", "100"))
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_MAX_REQUESTS: %w", err)
	}
	if maxRequests <= 0 {
		return RateLimiterConfig{}, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive, got %d", maxRequests)
	}

	sweepMinutes, err := strconv.Atoi(getEnv("RATE_LIMIT_SWEEP_INTERVAL_MINUTES", "15"))
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_SWEEP_INTERVAL_MINUTES: %w", err)
	}
	if sweepMinutes <= 0 {
		return RateLimiterConfig{}, fmt.Errorf("RATE_LIMIT_SWEEP_INTERVAL_MINUTES must be positive, got %d", sweepMinutes)
	}

	return RateLimiterConfig{
		Policy: domain.Policy{
			Enabled:     enabled,
			Window:      time.Duration(windowMs) * time.Millisecond,
			MaxRequests: maxRequests,
		},
		SweepInterval: time.Duration(sweepMinutes) * time.Minute,
	}, nil
}

func buildFilesConfig() (FilesConfig, error) {
	maxUploadBytes, err := strconv.ParseInt(getEnv("UPLOAD_MAX_BYTES", "52428800"), 10, 64)
	if err != nil {
		return FilesConfig{}, fmt.Errorf("invalid UPLOAD_MAX_BYTES: %w", err)
	}
	if maxUploadBytes <= 0 {
		return FilesConfig{}, fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", maxUploadBytes)
	}

	retentionHours, err := strconv.Atoi(getEnv("FILE_RETENTION_HOURS", "24"))
	if err != nil {
		return FilesConfig{}, fmt.Errorf("invalid FILE_RETENTION_HOURS: %w", err)
	}
	if retentionHours <= 0 {
		return FilesConfig{}, fmt.Errorf("FILE_RETENTION_HOURS must be positive, got %d", retentionHours)
	}

	cleanupMinutes, err := strconv.Atoi(getEnv("FILE_CLEANUP_INTERVAL_MINUTES", "60"))
	if err != nil {
		return FilesConfig{}, fmt.Errorf("invalid FILE_CLEANUP_INTERVAL_MINUTES: %w", err)
	}
	if cleanupMinutes <= 0 {
		return FilesConfig{}, fmt.Errorf("FILE_CLEANUP_INTERVAL_MINUTES must be positive, got %d", cleanupMinutes)
	}

	return FilesConfig{
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		OutputDir:       getEnv("OUTPUT_DIR", "converted"),
		MaxUploadBytes:  maxUploadBytes,
		Retention:       time.Duration(retentionHours) * time.Hour,
		CleanupInterval: time.Duration(cleanupMinutes) * time.Minute,
	}, nil
}

func buildConverterConfig() (ConverterConfig, error) {
	timeoutSeconds, err := strconv.Atoi(getEnv("CONVERT_TIMEOUT_SECONDS", "120"))
	if err != nil {
		return ConverterConfig{}, fmt.Errorf("invalid CONVERT_TIMEOUT_SECONDS: %w", err)
	}
	if timeoutSeconds <= 0 {
		return ConverterConfig{}, fmt.Errorf("CONVERT_TIMEOUT_SECONDS must be positive, got %d", timeoutSeconds)
	}

	return ConverterConfig{
		Command: getEnv("CONVERT_COMMAND", "soffice"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
