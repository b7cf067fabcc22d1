package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration for the SQL session store
type DBConfig struct {
	Driver          string          `yaml:"driver"`
	Host            string          `yaml:"host"`
	Port            string          `yaml:"port"`
	User            string          `yaml:"user"`
	Password        string          `yaml:"password"`
	DBName          string          `yaml:"name"`
	SSLMode         string          `yaml:"ssl_mode"`
	SQLitePath      string          `yaml:"sqlite_path"`
	MaxIdleConns    int             `yaml:"max_idle_conns"`
	MaxOpenConns    int             `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration   `yaml:"conn_max_lifetime"`
	LogLevel        logger.LogLevel `yaml:"-"`
	LogLevelName    string          `yaml:"log_level"`
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `yaml:"port"`
	Env             string        `yaml:"env"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// APIConfig points at the property-management API
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig controls console sessions
type SessionConfig struct {
	Store           string        `yaml:"store"`
	TTL             time.Duration `yaml:"ttl"`
	RecheckInterval time.Duration `yaml:"recheck_interval"`
	CookieName      string        `yaml:"cookie_name"`
	Secure          bool          `yaml:"secure"`
	SigningKey      string        `yaml:"signing_key"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string `yaml:"prefix"`
}

// SecurityConfig holds request protection settings
type SecurityConfig struct {
	LoginRatePerMinute int      `yaml:"login_rate_per_minute"`
	CSRF               bool     `yaml:"csrf"`
	TrustedProxies     []string `yaml:"trusted_proxies"`
}

// DefaultSigningKey is the development session key; production rejects it.
const DefaultSigningKey = "defaultsecretkey"

// Config holds all configuration
type Config struct {
	ServiceName string         `yaml:"-"`
	Server      ServerConfig   `yaml:"server"`
	API         APIConfig      `yaml:"api"`
	Session     SessionConfig  `yaml:"session"`
	DB          DBConfig       `yaml:"db"`
	Redis       RedisConfig    `yaml:"redis"`
	Log         LogConfig      `yaml:"log"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Security    SecurityConfig `yaml:"security"`
}

// Default returns the built-in configuration.
func Default(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Server: ServerConfig{
			Port:            "8080",
			Env:             "development",
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			BaseURL: "http://localhost:8081",
			Timeout: 15 * time.Second,
		},
		Session: SessionConfig{
			Store:           "memory",
			TTL:             12 * time.Hour,
			RecheckInterval: 5 * time.Minute,
			CookieName:      "bomahub_session",
			SigningKey:      DefaultSigningKey,
		},
		DB: DBConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "password",
			DBName:          serviceName,
			SSLMode:         "disable",
			SQLitePath:      serviceName + ".db",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
			LogLevel:        logger.Warn,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: serviceName + ":session:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Prefix: serviceName,
		},
		Security: SecurityConfig{
			LoginRatePerMinute: 10,
			CSRF:               true,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order. path may be empty; CONFIG_FILE is used then.
func Load(serviceName, path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default(serviceName)

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found: %w", path, err)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if c.DB.LogLevelName != "" {
		c.DB.LogLevel = parseLogLevel(c.DB.LogLevelName, c.DB.LogLevel)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.Env = getEnv("APP_ENV", c.Server.Env)
	c.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.API.BaseURL = strings.TrimRight(getEnv("API_BASE_URL", c.API.BaseURL), "/")
	c.API.Timeout = getEnvAsDuration("API_TIMEOUT", c.API.Timeout)

	c.Session.Store = strings.ToLower(getEnv("SESSION_STORE", c.Session.Store))
	c.Session.TTL = getEnvAsDuration("SESSION_TTL", c.Session.TTL)
	c.Session.RecheckInterval = getEnvAsDuration("SESSION_RECHECK_INTERVAL", c.Session.RecheckInterval)
	c.Session.CookieName = getEnv("SESSION_COOKIE_NAME", c.Session.CookieName)
	c.Session.Secure = getEnvAsBool("SESSION_SECURE", c.Session.Secure)
	c.Session.SigningKey = getEnv("SESSION_SIGNING_KEY", c.Session.SigningKey)

	c.DB.Driver = strings.ToLower(getEnv("DB_DRIVER", c.DB.Driver))
	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	c.DB.Port = getEnv("DB_PORT", c.DB.Port)
	c.DB.User = getEnv("DB_USER", c.DB.User)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.DBName = getEnv("DB_NAME", c.DB.DBName)
	c.DB.SSLMode = getEnv("DB_SSL_MODE", c.DB.SSLMode)
	c.DB.SQLitePath = getEnv("DB_SQLITE_PATH", c.DB.SQLitePath)
	c.DB.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", c.DB.MaxIdleConns)
	c.DB.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", c.DB.MaxOpenConns)
	c.DB.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", c.DB.ConnMaxLifetime)
	c.DB.LogLevel = parseLogLevel(getEnv("DB_LOG_LEVEL", ""), c.DB.LogLevel)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)
	c.Redis.Prefix = getEnv("REDIS_PREFIX", c.Redis.Prefix)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)

	c.Metrics.Prefix = getEnv("METRICS_PREFIX", c.Metrics.Prefix)

	c.Security.LoginRatePerMinute = getEnvAsInt("LOGIN_RATE_PER_MINUTE", c.Security.LoginRatePerMinute)
	c.Security.CSRF = getEnvAsBool("CSRF_ENABLED", c.Security.CSRF)
	c.Security.TrustedProxies = getEnvAsList("TRUSTED_PROXIES", c.Security.TrustedProxies)
}

// Validate rejects settings the console cannot start with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API_BASE_URL must be set")
	}
	switch c.Session.Store {
	case "memory", "redis", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Session.SigningKey == "" {
		return errors.New("SESSION_SIGNING_KEY must be set")
	}
	if c.IsProduction() && c.Session.SigningKey == DefaultSigningKey {
		return errors.New("SESSION_SIGNING_KEY must be changed from the default in production")
	}
	if _, err := c.TrustedProxyNets(); err != nil {
		return err
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// TrustedProxyNets parses Security.TrustedProxies. A bare IP is treated as a
// single-host range.
func (c *Config) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.Security.TrustedProxies))
	for _, raw := range c.Security.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			ip := net.ParseIP(raw)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", raw)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			raw = fmt.Sprintf("%s/%d", raw, bits)
		}
		_, ipNet, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// IsProduction reports whether the console runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("api_base_url", c.API.BaseURL),
		zap.Duration("api_timeout", c.API.Timeout),
		zap.String("session_store", c.Session.Store),
		zap.Duration("session_ttl", c.Session.TTL),
		zap.String("db_driver", c.DB.Driver),
		zap.String("db_host", c.DB.Host),
		zap.String("redis_addr", c.Redis.Addr),
		zap.String("log_level", c.Log.Level),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func parseLogLevel(name string, defaultValue logger.LogLevel) logger.LogLevel {
	switch name {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
