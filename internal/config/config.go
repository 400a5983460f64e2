package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	LogLevel             string
	JWTSecret            string
	JWTExpirationMinutes int
	Database             DatabaseConfig
	Upload               UploadConfig
	RateLimit            RateLimitConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// UploadConfig controls where uploaded images are written and how large they may be.
type UploadConfig struct {
	Dir   string
	MaxMB int64
}

// RateLimitConfig holds per-client request limits. RPS of zero disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var validDrivers = map[string]bool{
	DriverMySQL:    true,
	DriverPostgres: true,
	DriverSQLite:   true,
}

// LoadConfig loads configuration from a .env file (if present) and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3001")
	v.SetDefault("ORIGIN", "http://localhost:4200")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 60)
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USERNAME", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "medical_records")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	dbConfig := DatabaseConfig{
		Driver:   v.GetString("DB_DRIVER"),
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetString("DB_PORT"),
		Username: v.GetString("DB_USERNAME"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		DSN:      v.GetString("DB_DSN"),
	}
	if dbConfig.DSN == "" {
		dbConfig.DSN = dbConfig.BuildDSN()
	}

	cfg := &Config{
		Port:                 v.GetString("PORT"),
		Origin:               v.GetString("ORIGIN"),
		Environment:          v.GetString("ENV"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTExpirationMinutes: v.GetInt("JWT_EXPIRATION_MINUTES"),
		Database:             dbConfig,
		Upload: UploadConfig{
			Dir:   v.GetString("UPLOAD_DIR"),
			MaxMB: v.GetInt64("MAX_UPLOAD_MB"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildDSN assembles a driver specific data source name from the connection parts.
func (d DatabaseConfig) BuildDSN() string {
	switch d.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			d.Host, d.Username, d.Password, d.Name, d.Port)
	case DriverSQLite:
		return d.Name + ".db"
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.Username, d.Password, d.Host, d.Port, d.Name)
	}
}

// Validate checks settings that cannot be expressed as defaults.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("DB_DRIVER must be one of mysql, postgres, sqlite, got %q", c.Database.Driver)
	}
	if c.Upload.Dir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if c.Upload.MaxMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.Upload.MaxMB)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	if c.JWTSecret != "" && c.JWTExpirationMinutes <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MINUTES must be positive")
	}
	return nil
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Environment == "development"
}

// AuthEnabled reports whether bearer tokens are required on entity routes.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// MaxUploadBytes returns the multipart size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Upload.MaxMB << 20
}
