package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	Database DatabaseConfig
	RedisURL string

	Matricula MatriculaConfig
	Import    ImportConfig

	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the POSTGRES_* parts
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type MatriculaConfig struct {
	Prefix  string
	LockTTL time.Duration
}

type ImportConfig struct {
	MaxFileSize   int64
	ExportMaxRows int
}

// LoadConfig reads .env (if present) and the process environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var errs []error

	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		RedisURL:    os.Getenv("REDIS_URL"),
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "password"),
			Name:     getEnv("POSTGRES_DB", "sistema_educativo"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Matricula: MatriculaConfig{
			Prefix: getEnv("MATRICULA_PREFIX", "UNI"),
		},
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.LogLevel = level

	cfg.Database.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	errs = appendErr(errs, err)
	cfg.Database.MaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	errs = appendErr(errs, err)
	cfg.Database.ConnMaxLifetime, err = getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	errs = appendErr(errs, err)
	cfg.Matricula.LockTTL, err = getEnvDuration("MATRICULA_LOCK_TTL", 10*time.Second)
	errs = appendErr(errs, err)

	maxFileSize, err := getEnvInt("IMPORT_MAX_FILE_SIZE", 10<<20)
	errs = appendErr(errs, err)
	cfg.Import.MaxFileSize = int64(maxFileSize)
	cfg.Import.ExportMaxRows, err = getEnvInt("EXPORT_MAX_ROWS", 10000)
	errs = appendErr(errs, err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid TCP port, got %q", c.Port))
	}
	if c.Matricula.Prefix == "" {
		errs = append(errs, errors.New("MATRICULA_PREFIX must not be empty"))
	}
	if len(c.Matricula.Prefix) > 13 {
		// prefix + 4-digit year + 3-digit sequence must fit the matricula column
		errs = append(errs, fmt.Errorf("MATRICULA_PREFIX %q is too long", c.Matricula.Prefix))
	}
	if c.Matricula.LockTTL <= 0 {
		errs = append(errs, errors.New("MATRICULA_LOCK_TTL must be positive"))
	}
	if c.Import.MaxFileSize <= 0 {
		errs = append(errs, errors.New("IMPORT_MAX_FILE_SIZE must be positive"))
	}
	if c.Import.ExportMaxRows <= 0 {
		errs = append(errs, errors.New("EXPORT_MAX_ROWS must be positive"))
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, errors.New("DB_MAX_IDLE_CONNS must not exceed DB_MAX_OPEN_CONNS"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func parseLogLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", value, err)
	}
	return level, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}
