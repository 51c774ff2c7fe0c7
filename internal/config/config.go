package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
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

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// PayrollConfig holds the payroll policy knobs. Defaults match the
// company handbook; overriding them only changes months that have not
// been closed yet.
type PayrollConfig struct {
	AbsenceRate       decimal.Decimal
	LateRate          decimal.Decimal
	HalfDayRate       decimal.Decimal
	AccrualPerMonth   decimal.Decimal
	LeaveCeilingDays  decimal.Decimal
	MinPresenceDays   decimal.Decimal
	CloseCheckEvery   string
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

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
		Name:     getEnv("DB_NAME", "payroll"),
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

	// Payroll policy configuration
	payroll := PayrollConfig{
		CloseCheckEvery: getEnv("PAYROLL_CLOSE_CHECK_EVERY", "1h"),
	}
	for _, knob := range []struct {
		dst      *decimal.Decimal
		env      string
		fallback string
	}{
		{&payroll.AbsenceRate, "PAYROLL_ABSENCE_RATE", "1"},
		{&payroll.LateRate, "PAYROLL_LATE_RATE", "0.25"},
		{&payroll.HalfDayRate, "PAYROLL_HALF_DAY_RATE", "0.5"},
		{&payroll.AccrualPerMonth, "PAYROLL_LEAVE_ACCRUAL_PER_MONTH", "2.5"},
		{&payroll.LeaveCeilingDays, "PAYROLL_LEAVE_CEILING_DAYS", "30"},
		{&payroll.MinPresenceDays, "PAYROLL_MIN_PRESENCE_DAYS", "15"},
	} {
		d, err := decimal.NewFromString(getEnv(knob.env, knob.fallback))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", knob.env, err)
		}
		*knob.dst = d
	}
	config.Payroll = payroll

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
	if c.Payroll.AbsenceRate.IsNegative() || c.Payroll.LateRate.IsNegative() || c.Payroll.HalfDayRate.IsNegative() {
		return fmt.Errorf("deduction rates must not be negative")
	}
	if !c.Payroll.AccrualPerMonth.IsPositive() {
		return fmt.Errorf("PAYROLL_LEAVE_ACCRUAL_PER_MONTH must be positive")
	}
	if !c.Payroll.LeaveCeilingDays.IsPositive() {
		return fmt.Errorf("PAYROLL_LEAVE_CEILING_DAYS must be positive")
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
