package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pickem-app-go/logging"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Odds provider configuration
	Odds OddsConfig `json:"odds"`

	// League configuration
	League LeagueConfig `json:"league"`

	// Cache configuration
	Cache CacheConfig `json:"cache"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Email configuration
	Email EmailConfig `json:"email"`

	// Authentication configuration
	Auth AuthConfig `json:"auth"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `json:"port"`
	Host        string `json:"host"`
	BehindProxy bool   `json:"behind_proxy"`
	Environment string `json:"environment"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Database string        `json:"database"`
	Timeout  time.Duration `json:"timeout"`
}

// OddsConfig holds The Odds API provider configuration and the collection
// cadence of the in-process updater.
type OddsConfig struct {
	APIKey             string        `json:"-"`
	BaseURL            string        `json:"base_url"`
	Timeout            time.Duration `json:"timeout"`
	Bookmaker          string        `json:"bookmaker"`
	ScoresLookbackDays int           `json:"scores_lookback_days"`
	ScoresInterval     time.Duration `json:"scores_interval"`
	UpdaterEnabled     bool          `json:"updater_enabled"`
}

// LeagueConfig holds season calendar and rule configuration
type LeagueConfig struct {
	Season         int  `json:"season"`
	AnchorMonth    int  `json:"anchor_month"`
	AnchorDay      int  `json:"anchor_day"`
	DeadlineHour   int  `json:"deadline_hour"`
	StrictLineLock bool `json:"strict_line_lock"`
}

// CacheConfig holds Redis cache configuration
type CacheConfig struct {
	Enabled  bool          `json:"enabled"`
	Addr     string        `json:"addr"`
	Password string        `json:"-"`
	DB       int           `json:"db"`
	TTL      time.Duration `json:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
}

// EmailConfig holds SMTP settings for outgoing mail. All-empty means mail
// delivery is disabled and reset tokens are only logged.
type EmailConfig struct {
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     string `json:"smtp_port"`
	SMTPUsername string `json:"smtp_username"`
	SMTPPassword string `json:"-"`
	FromEmail    string `json:"from_email"`
	FromName     string `json:"from_name"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret string `json:"-"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Don't treat missing .env as an error
		logging.Warnf("Could not load .env file: %v", err)
	}

	// Determine if we're in development mode first
	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := strings.ToLower(environment) == "development"

	// Get server port with development override
	serverPort := getEnv("SERVER_PORT", "8080")
	if isDevelopment {
		if develPort := getEnv("DEVEL_SERVER_PORT", ""); develPort != "" {
			serverPort = develPort
		}
	}

	// Get database port with development override
	dbPort := getEnv("DB_PORT", "27017")
	if isDevelopment {
		if develPort := getEnv("DEVEL_DB_PORT", ""); develPort != "" {
			dbPort = develPort
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:        serverPort,
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			BehindProxy: getBoolEnv("BEHIND_PROXY", false),
			Environment: environment,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			Username: getEnv("DB_USERNAME", "pickem"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "pickem_app"),
			Timeout:  getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Odds: OddsConfig{
			APIKey:             getEnv("ODDS_API_KEY", ""),
			BaseURL:            getEnv("ODDS_API_BASE_URL", "https://api.the-odds-api.com"),
			Timeout:            getDurationEnv("ODDS_API_TIMEOUT", 15*time.Second),
			Bookmaker:          getEnv("ODDS_BOOKMAKER", "DraftKings"),
			ScoresLookbackDays: getIntEnv("SCORES_LOOKBACK_DAYS", 3),
			ScoresInterval:     getDurationEnv("SCORES_INTERVAL", 6*time.Hour),
			UpdaterEnabled:     getBoolEnv("BACKGROUND_UPDATER_ENABLED", true),
		},
		League: LeagueConfig{
			Season:         getIntEnv("CURRENT_SEASON", 2026),
			AnchorMonth:    getIntEnv("SEASON_ANCHOR_MONTH", 9),
			AnchorDay:      getIntEnv("SEASON_ANCHOR_DAY", 5),
			DeadlineHour:   getIntEnv("SUBMISSION_DEADLINE_HOUR", 17),
			StrictLineLock: getBoolEnv("STRICT_LINE_LOCK", false),
		},
		Cache: CacheConfig{
			Enabled:  getBoolEnv("CACHE_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			TTL:      getDurationEnv("CACHE_TTL", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "debug"),
			Prefix:      getEnv("LOG_PREFIX", "pickem-app"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", ""),
			FromName:     getEnv("FROM_NAME", "Pick'em League"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	// Validate server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	// Validate database configuration
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database port is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Validate authentication
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTSecret == "your-secret-key-change-in-production" && !c.IsDevelopment() {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	// Validate league configuration
	if c.League.Season < 2020 || c.League.Season > 2035 {
		return fmt.Errorf("current season must be between 2020 and 2035, got: %d", c.League.Season)
	}
	if c.League.AnchorMonth < 1 || c.League.AnchorMonth > 12 {
		return fmt.Errorf("season anchor month must be 1-12, got: %d", c.League.AnchorMonth)
	}
	if c.League.AnchorDay < 1 || c.League.AnchorDay > 31 {
		return fmt.Errorf("season anchor day must be 1-31, got: %d", c.League.AnchorDay)
	}
	if c.League.DeadlineHour < 0 || c.League.DeadlineHour > 23 {
		return fmt.Errorf("submission deadline hour must be 0-23, got: %d", c.League.DeadlineHour)
	}

	// Validate odds provider configuration
	if c.Odds.BaseURL == "" {
		return fmt.Errorf("odds API base URL is required")
	}
	if c.Odds.ScoresLookbackDays < 1 {
		return fmt.Errorf("scores lookback days must be at least 1, got: %d", c.Odds.ScoresLookbackDays)
	}

	return nil
}

// IsDevelopment returns true when running in development mode
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.Server.Environment) == "development"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GetMongoURI returns the MongoDB connection URI
func (c *Config) GetMongoURI() string {
	if c.Database.Username != "" && c.Database.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=%s",
			c.Database.Username, c.Database.Password,
			c.Database.Host, c.Database.Port,
			c.Database.Database, c.Database.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s",
		c.Database.Host, c.Database.Port, c.Database.Database)
}

// IsBackgroundUpdaterEnabled returns true when the in-process collectors run
func (c *Config) IsBackgroundUpdaterEnabled() bool {
	return c.Odds.UpdaterEnabled
}

// LogConfiguration logs the current configuration (without sensitive data)
func (c *Config) LogConfiguration() {
	logging.Info("=== Application Configuration ===")
	logging.Infof("Server: %s (Behind Proxy: %t, Environment: %s)",
		c.GetServerAddress(), c.Server.BehindProxy, c.Server.Environment)
	logging.Infof("Database: %s:%s/%s (Username: %s, Auth: %t)",
		c.Database.Host, c.Database.Port, c.Database.Database,
		c.Database.Username, c.Database.Password != "")
	logging.Infof("Odds: %s (Key: %t, Bookmaker: %s, Lookback: %dd, Updater: %t)",
		c.Odds.BaseURL, c.Odds.APIKey != "", c.Odds.Bookmaker,
		c.Odds.ScoresLookbackDays, c.Odds.UpdaterEnabled)
	logging.Infof("League: Season=%d, Anchor=%02d-%02d, DeadlineHour=%d, StrictLock=%t",
		c.League.Season, c.League.AnchorMonth, c.League.AnchorDay,
		c.League.DeadlineHour, c.League.StrictLineLock)
	logging.Infof("Cache: Enabled=%t, Addr=%s, DB=%d, TTL=%s",
		c.Cache.Enabled, c.Cache.Addr, c.Cache.DB, c.Cache.TTL)
	logging.Infof("Logging: Level=%s, Prefix=%s, Color=%t",
		c.Logging.Level, c.Logging.Prefix, c.Logging.EnableColor)
	logging.Infof("Email: Host=%s, From=%s (Configured: %t)",
		c.Email.SMTPHost, c.Email.FromEmail, c.Email.SMTPHost != "")
	logging.Info("================================")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
