package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/diet-tracker/internal/logger"
)

// Storage backends selectable with STORAGE.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server  ServerConfig
	Storage string
	DB      DBConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Ledger  LedgerConfig
	Logger  LoggerConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}

// RedisConfig is optional; an empty Host keeps login attempt counters in memory.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns the Redis address string.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfig struct {
	SecretKey          string
	Algorithm          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration // zero: refresh tokens carry no expiry
	MaxLoginAttempts   int           // zero: no limit
	LoginAttemptWindow time.Duration
	BcryptCost         int
}

type LedgerConfig struct {
	// MinInterval separates two measurement submissions and is also the
	// distance between the latest record and the progress reference.
	MinInterval time.Duration
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

var supportedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseLifetime accepts a Go duration ("30m") or a plain number of hours ("0.5").
func parseLifetime(key, value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	hours, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return time.Duration(hours * float64(time.Hour)), nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var errs []error
	duration := func(key, def string) time.Duration {
		d, err := parseLifetime(key, getEnvOrDefault(key, def))
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}
	integer := func(key, def string) int {
		n, err := parseInt(key, getEnvOrDefault(key, def))
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:           integer("SERVER_PORT", "8080"),
			RequestTimeout: duration("REQUEST_TIMEOUT", "30s"),
			CORSOrigins:    splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost,http://localhost:8080")),
		},
		Storage: strings.ToLower(getEnvOrDefault("STORAGE", StoragePostgres)),
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "diet_tracker"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Auth: AuthConfig{
			SecretKey:          os.Getenv("SECRET_KEY"),
			Algorithm:          strings.ToUpper(getEnvOrDefault("ALGORITHM", "HS256")),
			AccessTokenTTL:     duration("ACCESS_TOKEN_LIFETIME", "30m"),
			RefreshTokenTTL:    duration("REFRESH_TOKEN_LIFETIME", "720h"),
			MaxLoginAttempts:   integer("MAX_LOGIN_ATTEMPTS", "0"),
			LoginAttemptWindow: duration("LOGIN_ATTEMPT_WINDOW", "15m"),
			BcryptCost:         integer("BCRYPT_COST", "10"),
		},
		Ledger: LedgerConfig{
			MinInterval: duration("MEASUREMENT_INTERVAL", "168h"),
		},
		Logger: LoggerConfig{
			Level:      logger.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the core cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if !supportedAlgorithms[c.Auth.Algorithm] {
		errs = append(errs, fmt.Errorf("ALGORITHM %q is not supported (HS256, HS384, HS512)", c.Auth.Algorithm))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_LIFETIME must be positive"))
	}
	if c.Auth.RefreshTokenTTL < 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_LIFETIME must not be negative"))
	}
	if c.Auth.MaxLoginAttempts < 0 {
		errs = append(errs, errors.New("MAX_LOGIN_ATTEMPTS must not be negative"))
	}
	if c.Auth.MaxLoginAttempts > 0 && c.Auth.LoginAttemptWindow <= 0 {
		errs = append(errs, errors.New("LOGIN_ATTEMPT_WINDOW must be positive when MAX_LOGIN_ATTEMPTS is set"))
	}
	if c.Ledger.MinInterval <= 0 {
		errs = append(errs, errors.New("MEASUREMENT_INTERVAL must be positive"))
	}
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		errs = append(errs, fmt.Errorf("STORAGE %q is not supported (postgres, memory)", c.Storage))
	}
	return errors.Join(errs...)
}
