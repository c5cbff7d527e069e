package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Payroll  PayrollConfig
	Jobs     JobsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	CORSOrigins []string
}

// StorageConfig selects where clock-in photos are written. Driver is "local"
// or "s3"; the S3 fields also cover MinIO and other compatible stores.
type StorageConfig struct {
	Driver            string
	LocalPath         string
	LocalBaseURL      string
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// RedisConfig is optional. An empty Addr disables distributed job locks.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PayrollConfig struct {
	RateSource         string // "live" or "snapshot"
	SummaryConcurrency int
}

type JobsConfig struct {
	Enabled                   bool
	AutoClockOutInterval      time.Duration
	HolidayAllocationInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "Africa/Nairobi"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Storage configuration
	presign, err := time.ParseDuration(getEnv("STORAGE_PRESIGN_EXPIRATION", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORAGE_PRESIGN_EXPIRATION: %w", err)
	}
	config.Storage = StorageConfig{
		Driver:            getEnv("STORAGE_DRIVER", "local"),
		LocalPath:         getEnv("STORAGE_LOCAL_PATH", "./uploads"),
		LocalBaseURL:      getEnv("STORAGE_LOCAL_BASE_URL", "http://localhost:8080/uploads"),
		Endpoint:          getEnv("STORAGE_ENDPOINT", ""),
		Region:            getEnv("STORAGE_REGION", "us-east-1"),
		Bucket:            getEnv("STORAGE_BUCKET", ""),
		AccessKey:         getEnv("STORAGE_ACCESS_KEY", ""),
		SecretKey:         getEnv("STORAGE_SECRET_KEY", ""),
		UseSSL:            getEnvBool("STORAGE_USE_SSL", false),
		UsePathStyle:      getEnvBool("STORAGE_USE_PATH_STYLE", true),
		PresignExpiration: presign,
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Payroll configuration
	concurrency, err := strconv.Atoi(getEnv("PAYROLL_SUMMARY_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_SUMMARY_CONCURRENCY: %w", err)
	}
	config.Payroll = PayrollConfig{
		RateSource:         strings.ToLower(getEnv("PAYROLL_RATE_SOURCE", "live")),
		SummaryConcurrency: concurrency,
	}

	// Background jobs
	sweepInterval, err := time.ParseDuration(getEnv("JOB_AUTO_CLOCK_OUT_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOB_AUTO_CLOCK_OUT_INTERVAL: %w", err)
	}
	holidayInterval, err := time.ParseDuration(getEnv("JOB_HOLIDAY_ALLOCATION_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOB_HOLIDAY_ALLOCATION_INTERVAL: %w", err)
	}
	config.Jobs = JobsConfig{
		Enabled:                   getEnvBool("JOBS_ENABLED", true),
		AutoClockOutInterval:      sweepInterval,
		HolidayAllocationInterval: holidayInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("STORAGE_BUCKET is required for the s3 driver")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be local or s3, got %q", c.Storage.Driver)
	}
	if c.Payroll.RateSource != "live" && c.Payroll.RateSource != "snapshot" {
		return fmt.Errorf("PAYROLL_RATE_SOURCE must be live or snapshot, got %q", c.Payroll.RateSource)
	}
	if c.Payroll.SummaryConcurrency < 1 {
		return fmt.Errorf("PAYROLL_SUMMARY_CONCURRENCY must be at least 1")
	}
	if c.Jobs.AutoClockOutInterval <= 0 || c.Jobs.HolidayAllocationInterval <= 0 {
		return fmt.Errorf("job intervals must be positive")
	}
	return nil
}

// Location returns the application timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}
