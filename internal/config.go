package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Operator console locale ("en" or "es")
	Locale string

	// Scale indicator source
	ScaleSource         string // "tcp" or "simulator"
	ScaleAddress        string // host:port of the serial-to-ethernet bridge
	ScaleDialTimeout    time.Duration
	ScaleReadTimeout    time.Duration
	ScaleReconnectDelay time.Duration
	SimulatorInterval   time.Duration

	// Stability detection tuning
	StabilityWindowSize  int
	StabilityToleranceKg float64
	MinimumWeightKg      float64

	// Export archive storage
	StorageProvider  string // "local" or "s3"
	LocalStoragePath string

	// S3-compatible storage (production)
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3Region          string

	// Worker Configuration
	WorkerEnabled      bool
	WorkerConcurrency  int
	WorkerPollInterval time.Duration
	WorkerJobTimeout   time.Duration

	// Daily export scheduling
	ExportEnabled bool
	ExportHour    int // Local hour (0-23) at which yesterday's export is enqueued

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Locale: getEnv("LOCALE", "en"),

		// Scale defaults to the simulator for development
		ScaleSource:         getEnv("SCALE_SOURCE", "simulator"),
		ScaleAddress:        getEnv("SCALE_ADDRESS", "localhost:4001"),
		ScaleDialTimeout:    getEnvDuration("SCALE_DIAL_TIMEOUT", 5*time.Second),
		ScaleReadTimeout:    getEnvDuration("SCALE_READ_TIMEOUT", 3*time.Second),
		ScaleReconnectDelay: getEnvDuration("SCALE_RECONNECT_DELAY", 2*time.Second),
		SimulatorInterval:   getEnvDuration("SIMULATOR_INTERVAL", 200*time.Millisecond),

		// Stability defaults match a 5-sample window at indicator resolution
		StabilityWindowSize:  getEnvInt("STABILITY_WINDOW_SIZE", 5),
		StabilityToleranceKg: getEnvFloat("STABILITY_TOLERANCE_KG", 2.0),
		MinimumWeightKg:      getEnvFloat("MINIMUM_WEIGHT_KG", 50.0),

		// Storage defaults to local filesystem for development
		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./exports"),

		// S3 configuration (production only)
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3BucketName:      getEnv("S3_BUCKET_NAME", ""),
		S3Region:          getEnv("S3_REGION", "auto"),

		// Worker defaults
		WorkerEnabled:      getEnvBool("WORKER_ENABLED", true),
		WorkerConcurrency:  getEnvInt("WORKER_CONCURRENCY", 1),
		WorkerPollInterval: getEnvDuration("WORKER_POLL_INTERVAL", 5*time.Second),
		WorkerJobTimeout:   getEnvDuration("WORKER_JOB_TIMEOUT", 5*time.Minute),

		// Daily export defaults: yesterday's transactions at 00:30
		ExportEnabled: getEnvBool("EXPORT_ENABLED", true),
		ExportHour:    getEnvInt("EXPORT_HOUR", 0),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Required
	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	// Validate scale configuration
	if cfg.ScaleSource == "tcp" {
		if cfg.ScaleAddress == "" {
			return nil, fmt.Errorf("SCALE_ADDRESS is required when SCALE_SOURCE is 'tcp'")
		}
	} else if cfg.ScaleSource != "simulator" {
		return nil, fmt.Errorf("SCALE_SOURCE must be either 'tcp' or 'simulator', got: %s", cfg.ScaleSource)
	}

	// Validate storage configuration
	if cfg.StorageProvider == "s3" {
		if cfg.S3AccessKeyID == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY_ID is required when STORAGE_PROVIDER is 's3'")
		}
		if cfg.S3SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_SECRET_ACCESS_KEY is required when STORAGE_PROVIDER is 's3'")
		}
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("S3_BUCKET_NAME is required when STORAGE_PROVIDER is 's3'")
		}
	} else if cfg.StorageProvider != "local" {
		return nil, fmt.Errorf("STORAGE_PROVIDER must be either 'local' or 's3', got: %s", cfg.StorageProvider)
	}

	if cfg.ExportHour < 0 || cfg.ExportHour > 23 {
		return nil, fmt.Errorf("EXPORT_HOUR must be between 0 and 23, got: %d", cfg.ExportHour)
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

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
