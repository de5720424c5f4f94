package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds environment variables
type Config struct {
	// ClickHouse
	CHHost     string
	CHPort     string
	CHUser     string
	CHPassword string

	// Object storage
	AWSRegion string
	S3Bucket  string
}

// Load reads environment variables, preferring a .env file in workDir when
// one exists.
func Load(workDir string) (*Config, error) {
	envFile := filepath.Join(workDir, ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	return &Config{
		CHHost:     getEnvOrDefault("CH_HOST", "chp.ovh.0x3e.net"),
		CHPort:     getEnvOrDefault("CH_PORT", "9090"),
		CHUser:     getEnvOrDefault("CH_USER", "generic-raw"),
		CHPassword: getEnvOrDefault("CH_PASSWORD", ""),

		AWSRegion: getEnvOrDefault("AWS_REGION", "eu-west-1"),
		S3Bucket:  getEnvOrDefault("S3_BUCKET", ""),
	}, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
