package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
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
	Port     int
	Env      string
	LogLevel string
}

// PayrollConfig holds engine-wide payroll knobs. Per-company deduction rules
// live in the database; these are the fallbacks and store limits.
type PayrollConfig struct {
	// TimezoneOffsetHours is the employer-local UTC offset used to bucket
	// attendance instants into calendar days when a company has none set.
	TimezoneOffsetHours int
	// WriteChunkSize caps how many records go into one atomic batch.
	WriteChunkSize int
	// WorkingDaysPerMonth and DailyWorkHours feed the overtime hourly base.
	WorkingDaysPerMonth int
	DailyWorkHours      int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
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
		Name:     getEnv("DB_NAME", "wagewise_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	tzOffset, err := strconv.Atoi(getEnv("PAYROLL_TZ_OFFSET_HOURS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_TZ_OFFSET_HOURS: %w", err)
	}
	chunkSize, err := strconv.Atoi(getEnv("PAYROLL_WRITE_CHUNK_SIZE", "499"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_WRITE_CHUNK_SIZE: %w", err)
	}
	workingDays, err := strconv.Atoi(getEnv("PAYROLL_WORKING_DAYS_PER_MONTH", "26"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_WORKING_DAYS_PER_MONTH: %w", err)
	}
	dailyHours, err := strconv.Atoi(getEnv("PAYROLL_DAILY_WORK_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_DAILY_WORK_HOURS: %w", err)
	}

	config.Payroll = PayrollConfig{
		TimezoneOffsetHours: tzOffset,
		WriteChunkSize:      chunkSize,
		WorkingDaysPerMonth: workingDays,
		DailyWorkHours:      dailyHours,
	}

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
	if c.Payroll.WriteChunkSize <= 0 {
		return fmt.Errorf("PAYROLL_WRITE_CHUNK_SIZE must be positive")
	}
	if c.Payroll.WorkingDaysPerMonth <= 0 || c.Payroll.DailyWorkHours <= 0 {
		return fmt.Errorf("working days and daily hours must be positive")
	}
	return nil
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
