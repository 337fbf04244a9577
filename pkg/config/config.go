package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	AMQP     AMQPConfig
	Auth     AuthConfig
	Logger   LoggerConfig
}

type AppConfig struct {
	Env         string
	ProjectName string
	APIPrefix   string
	Timezone    string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Port             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins string
	RateLimitMax     int
	RateLimitWindow  time.Duration
}

type DatabaseConfig struct {
	Backend     string
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SQLitePath  string
	AutoMigrate bool
	MaxConns    int
}

type AMQPConfig struct {
	URL              string
	Exchange         string
	RoutingKeyPrefix string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work too
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:         getEnv("APP_ENV", "development"),
			ProjectName: getEnv("PROJECT_NAME", "Expense Tracker API"),
			APIPrefix:   getEnv("API_V1_PREFIX", "/api/v1"),
			Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		},
		Server: ServerConfig{
			Port:             getEnv("SERVER_PORT", "8000"),
			ReadTimeout:      time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout:     time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
			CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
			RateLimitMax:     getEnvInt("RATE_LIMIT_MAX", 0),
			RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Database: DatabaseConfig{
			Backend:     getEnv("DATA_BACKEND", BackendPostgres),
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnv("POSTGRES_PORT", "5432"),
			User:        getEnv("POSTGRES_USER", "postgres"),
			Password:    getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:      getEnv("POSTGRES_DB", "expense_db"),
			SSLMode:     getEnv("POSTGRES_SSLMODE", "disable"),
			SQLitePath:  getEnv("SQLITE_DB_PATH", "./data/expenses.db"),
			AutoMigrate: getEnv("DB_AUTO_MIGRATE", "true") == "true",
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 10),
		},
		AMQP: AMQPConfig{
			URL:              getEnv("AMQP_URL", ""),
			Exchange:         getEnv("AMQP_EXCHANGE", "expense_tracker"),
			RoutingKeyPrefix: getEnv("AMQP_ROUTING_KEY_PREFIX", "transaction"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			TokenTTL:  time.Duration(getEnvInt("AUTH_TOKEN_TTL_HOURS", 24)) * time.Hour,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Server.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Server.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.Database.Backend {
	case BackendPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			errs = append(errs, "POSTGRES_HOST and POSTGRES_DB are required for the postgres backend")
		}
	case BackendSQLite:
		if c.Database.SQLitePath == "" {
			errs = append(errs, "SQLITE_DB_PATH cannot be empty when using the sqlite backend")
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v",
			c.Database.Backend, []string{BackendPostgres, BackendSQLite, BackendMemory}))
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone '%s': %v", c.App.Timezone, err))
	}

	if !strings.HasPrefix(c.App.APIPrefix, "/") {
		errs = append(errs, fmt.Sprintf("invalid API prefix '%s': must start with '/'", c.App.APIPrefix))
	}

	if c.AMQP.URL != "" {
		if u, err := url.Parse(c.AMQP.URL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQP.Exchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Database.MaxConns < 0 {
		errs = append(errs, fmt.Sprintf("invalid POSTGRES_MAX_CONNS %d: must not be negative", c.Database.MaxConns))
	}

	switch c.Logger.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be 'json' or 'console'", c.Logger.Format))
	}

	if c.Server.RateLimitMax < 0 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must not be negative", c.Server.RateLimitMax))
	}

	if c.Auth.JWTSecret != "" && c.Auth.TokenTTL <= 0 {
		errs = append(errs, "AUTH_TOKEN_TTL_HOURS must be positive when auth is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Env, "development")
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Location returns the timezone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PostgresURL returns a pgx5:// URL for golang-migrate.
func (c *DatabaseConfig) PostgresURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
