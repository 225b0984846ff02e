// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Mode selects whether the service talks to real collaborators or to local substitutes.
//
// The mode is resolved once in Load and is used for the repository, the completion client
// and the blob storage alike, so these can never be mixed.
type Mode string

const (
	// ModeLive uses MySQL, the OpenAI API and a Google Cloud Storage bucket.
	ModeLive Mode = "live"
	// ModeMock uses an in-memory repository, canned completions and placeholder upload URLs.
	ModeMock Mode = "mock"
)

const envProduction = "production"

// Config holds all configuration for the application
type Config struct {
	Env         string
	Mode        Mode
	Database    DatabaseConfig
	Server      ServerConfig
	Logging     LoggingConfig
	CORS        CORSConfig
	OpenAI      OpenAIConfig
	Storage     StorageConfig
	RateLimit   RateLimitConfig
	AdminAPIKey string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// OpenAIConfig holds settings of the completion client
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// StorageConfig holds blob storage settings
type StorageConfig struct {
	Bucket        string
	PublicBaseURL string
	EmulatorHost  string
	MockBaseURL   string
}

// RateLimitConfig holds per-IP request limits (requests per minute)
type RateLimitConfig struct {
	Global     int
	Generation int
}

// IsProduction reports whether the process is flagged as a production deployment
func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	cfg.Env = strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	mode, err := resolveMode()
	if err != nil {
		return nil, err
	}
	if cfg.IsProduction() && mode != ModeLive {
		return nil, fmt.Errorf("APP_MODE=%s is not allowed when APP_ENV=production", mode)
	}
	cfg.Mode = mode

	if cfg.Mode == ModeLive {
		if err := loadDatabase(cfg); err != nil {
			return nil, err
		}
		if err := loadOpenAI(cfg); err != nil {
			return nil, err
		}
		if err := loadStorage(cfg); err != nil {
			return nil, err
		}
	} else {
		cfg.Storage.MockBaseURL = os.Getenv("MOCK_UPLOAD_BASE_URL")
		if cfg.Storage.MockBaseURL == "" {
			cfg.Storage.MockBaseURL = "mock://uploads"
		}
	}

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	// Generation requests wait for the model, so the write timeout must outlive OPENAI_TIMEOUT.
	cfg.Server.ReadTimeout, err = durationEnv("SERVER_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Server.WriteTimeout, err = durationEnv("SERVER_WRITE_TIMEOUT", 150*time.Second)
	if err != nil {
		return nil, err
	}

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if corsOrigins == "" {
		// Default to allow all origins if not specified (for development)
		cfg.CORS.AllowedOrigins = []string{"*"}
	} else {
		origins := strings.Split(corsOrigins, ",")
		cfg.CORS.AllowedOrigins = make([]string, 0, len(origins))
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, origin)
			}
		}
		if len(cfg.CORS.AllowedOrigins) == 0 {
			cfg.CORS.AllowedOrigins = []string{"*"}
		}
	}

	cfg.RateLimit.Global, err = intEnv("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}
	cfg.RateLimit.Generation, err = intEnv("GENERATION_RATE_LIMIT_PER_MINUTE", 10)
	if err != nil {
		return nil, err
	}

	cfg.AdminAPIKey = os.Getenv("ADMIN_API_KEY")
	if cfg.IsProduction() && cfg.AdminAPIKey == "" {
		return nil, fmt.Errorf("ADMIN_API_KEY is required when APP_ENV=production")
	}

	return cfg, nil
}

// resolveMode reads APP_MODE, falling back to "live" when a database host is configured
func resolveMode() (Mode, error) {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("APP_MODE")))
	switch Mode(raw) {
	case ModeLive, ModeMock:
		return Mode(raw), nil
	case "":
		if os.Getenv("DB_HOST") != "" {
			return ModeLive, nil
		}
		return ModeMock, nil
	default:
		return "", fmt.Errorf("invalid APP_MODE=%q, must be %q or %q", raw, ModeLive, ModeMock)
	}
}

func loadDatabase(cfg *Config) error {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	return nil
}

func loadOpenAI(cfg *Config) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	cfg.OpenAI.APIKey = apiKey

	cfg.OpenAI.Model = os.Getenv("OPENAI_MODEL")
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4-turbo"
	}
	cfg.OpenAI.BaseURL = strings.TrimRight(os.Getenv("OPENAI_BASE_URL"), "/")

	timeout, err := durationEnv("OPENAI_TIMEOUT", 120*time.Second)
	if err != nil {
		return err
	}
	cfg.OpenAI.Timeout = timeout

	return nil
}

func loadStorage(cfg *Config) error {
	bucket := os.Getenv("GCS_BUCKET_NAME")
	if bucket == "" {
		return fmt.Errorf("GCS_BUCKET_NAME is required")
	}
	cfg.Storage.Bucket = bucket
	cfg.Storage.PublicBaseURL = strings.TrimRight(os.Getenv("GCS_PUBLIC_BASE_URL"), "/")
	cfg.Storage.EmulatorHost = strings.TrimRight(os.Getenv("STORAGE_EMULATOR_HOST"), "/")
	return nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	dsn := mysql.NewConfig()
	dsn.User = c.Database.User
	dsn.Passwd = c.Database.Password
	dsn.Net = "tcp"
	dsn.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	dsn.DBName = c.Database.DBName
	dsn.ParseTime = true
	dsn.MultiStatements = true
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	return dsn.FormatDSN()
}
