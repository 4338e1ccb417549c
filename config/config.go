package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Cron     CronConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
	// IngestPerSec caps how many snapshots per second the ingest
	// endpoint accepts.
	IngestPerSec float64
	IngestBurst  int
}

type CatalogConfig struct {
	// Path to the recipe dataset (JSON or YAML), loaded once at start.
	Path string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	// DSN for the report-history database. Empty disables persistence.
	DSN string
}

type CronConfig struct {
	// Six-field cron spec for scheduled re-analysis. Empty disables it.
	Spec string
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			IngestPerSec: getEnvAsFloat("INGEST_RATE_PER_SEC", 1),
			IngestBurst:  getEnvAsInt("INGEST_BURST", 2),
		},
		Catalog: CatalogConfig{
			Path: getEnv("RECIPE_DATA", "data/recipes.json"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Cron: CronConfig{
			Spec: getEnv("ANALYSIS_CRON", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Catalog.Path == "" {
		return fmt.Errorf("RECIPE_DATA is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
