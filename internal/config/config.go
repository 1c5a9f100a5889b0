package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Log      LogConfig
	CORS     CORSConfig
	Rates    RatesConfig
	Geocoder GeocoderConfig
	Engine   EngineConfig
	Resolver ResolverConfig
	GeoCache GeoCacheConfig
	Archive  ArchiveConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RatesConfig holds rate table settings.
type RatesConfig struct {
	CSVPath     string  `mapstructure:"csv_path"`
	DefaultRate float64 `mapstructure:"default_rate"`
	State       string  `mapstructure:"state"`
}

// GeocoderConfig holds reverse geocoding settings.
type GeocoderConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	UserAgent   string `mapstructure:"user_agent"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// EngineConfig holds settings for the out-of-process tax engine.
type EngineConfig struct {
	UseRemote   bool   `mapstructure:"use_remote"`
	Command     string `mapstructure:"command"`
	ScriptPath  string `mapstructure:"script_path"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ResolverConfig holds batch resolution settings.
type ResolverConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// GeoCacheConfig holds geocode cache settings.
type GeoCacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// ArchiveConfig holds import archive storage settings.
type ArchiveConfig struct {
	Provider  string `mapstructure:"provider"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	FromAddress   string `mapstructure:"from_address"`
	FromName      string `mapstructure:"from_name"`
	NotifyAddress string `mapstructure:"notify_address"`
}

// Load reads configuration from environment variables with the TAXPOINT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "taxpoint")
	v.SetDefault("db.password", "taxpoint_secret")
	v.SetDefault("db.name", "taxpoint_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Rate table defaults
	v.SetDefault("rates.csv_path", "data/ny_tax_rates.csv")
	v.SetDefault("rates.default_rate", 0.04)
	v.SetDefault("rates.state", "NY")

	// Geocoder defaults
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "taxpoint/1.0")
	v.SetDefault("geocoder.timeout_secs", 10)

	// Remote engine defaults
	v.SetDefault("engine.use_remote", false)
	v.SetDefault("engine.command", "python3")
	v.SetDefault("engine.script_path", "")
	v.SetDefault("engine.timeout_secs", 15)

	// Resolver defaults
	v.SetDefault("resolver.concurrency", 5)

	// Geocode cache defaults
	v.SetDefault("geocache.backend", "memory")
	v.SetDefault("geocache.redis_addr", "localhost:6379")
	v.SetDefault("geocache.redis_password", "")
	v.SetDefault("geocache.redis_db", 0)
	v.SetDefault("geocache.ttl", "24h")

	// Archive defaults
	v.SetDefault("archive.provider", "none")
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "taxpoint-imports")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.prefix", "imports")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@taxpoint.dev")
	v.SetDefault("email.from_name", "Taxpoint")
	v.SetDefault("email.notify_address", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "TAXPOINT_SERVER_PORT",
		"server.read_timeout":     "TAXPOINT_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "TAXPOINT_SERVER_WRITE_TIMEOUT",
		"server.environment":      "TAXPOINT_SERVER_ENVIRONMENT",
		"db.host":                 "TAXPOINT_DB_HOST",
		"db.port":                 "TAXPOINT_DB_PORT",
		"db.user":                 "TAXPOINT_DB_USER",
		"db.password":             "TAXPOINT_DB_PASSWORD",
		"db.name":                 "TAXPOINT_DB_NAME",
		"db.sslmode":              "TAXPOINT_DB_SSLMODE",
		"db.max_open":             "TAXPOINT_DB_MAX_OPEN",
		"db.max_idle":             "TAXPOINT_DB_MAX_IDLE",
		"log.level":               "TAXPOINT_LOG_LEVEL",
		"log.format":              "TAXPOINT_LOG_FORMAT",
		"cors.allowed_origins":    "TAXPOINT_CORS_ALLOWED_ORIGINS",
		"rates.csv_path":          "TAXPOINT_RATES_CSV_PATH",
		"rates.default_rate":      "TAXPOINT_RATES_DEFAULT_RATE",
		"rates.state":             "TAXPOINT_RATES_STATE",
		"geocoder.base_url":       "TAXPOINT_GEOCODER_BASE_URL",
		"geocoder.user_agent":     "TAXPOINT_GEOCODER_USER_AGENT",
		"geocoder.timeout_secs":   "TAXPOINT_GEOCODER_TIMEOUT_SECS",
		"engine.use_remote":       "TAXPOINT_ENGINE_USE_REMOTE",
		"engine.command":          "TAXPOINT_ENGINE_COMMAND",
		"engine.script_path":      "TAXPOINT_ENGINE_SCRIPT_PATH",
		"engine.timeout_secs":     "TAXPOINT_ENGINE_TIMEOUT_SECS",
		"resolver.concurrency":    "TAXPOINT_RESOLVER_CONCURRENCY",
		"geocache.backend":        "TAXPOINT_GEOCACHE_BACKEND",
		"geocache.redis_addr":     "TAXPOINT_GEOCACHE_REDIS_ADDR",
		"geocache.redis_password": "TAXPOINT_GEOCACHE_REDIS_PASSWORD",
		"geocache.redis_db":       "TAXPOINT_GEOCACHE_REDIS_DB",
		"geocache.ttl":            "TAXPOINT_GEOCACHE_TTL",
		"archive.provider":        "TAXPOINT_ARCHIVE_PROVIDER",
		"archive.region":          "TAXPOINT_ARCHIVE_REGION",
		"archive.bucket":          "TAXPOINT_ARCHIVE_BUCKET",
		"archive.endpoint":        "TAXPOINT_ARCHIVE_ENDPOINT",
		"archive.access_key":      "TAXPOINT_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":      "TAXPOINT_ARCHIVE_SECRET_KEY",
		"archive.prefix":          "TAXPOINT_ARCHIVE_PREFIX",
		"email.provider":          "TAXPOINT_EMAIL_PROVIDER",
		"email.region":            "TAXPOINT_EMAIL_REGION",
		"email.from_address":      "TAXPOINT_EMAIL_FROM_ADDRESS",
		"email.from_name":         "TAXPOINT_EMAIL_FROM_NAME",
		"email.notify_address":    "TAXPOINT_EMAIL_NOTIFY_ADDRESS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TAXPOINT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TAXPOINT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Rates = RatesConfig{
		CSVPath:     v.GetString("rates.csv_path"),
		DefaultRate: v.GetFloat64("rates.default_rate"),
		State:       v.GetString("rates.state"),
	}
	cfg.Geocoder = GeocoderConfig{
		BaseURL:     v.GetString("geocoder.base_url"),
		UserAgent:   v.GetString("geocoder.user_agent"),
		TimeoutSecs: v.GetInt("geocoder.timeout_secs"),
	}
	cfg.Engine = EngineConfig{
		UseRemote:   v.GetBool("engine.use_remote"),
		Command:     v.GetString("engine.command"),
		ScriptPath:  v.GetString("engine.script_path"),
		TimeoutSecs: v.GetInt("engine.timeout_secs"),
	}
	cfg.Resolver = ResolverConfig{
		Concurrency: v.GetInt("resolver.concurrency"),
	}
	cfg.GeoCache = GeoCacheConfig{
		Backend:       v.GetString("geocache.backend"),
		RedisAddr:     v.GetString("geocache.redis_addr"),
		RedisPassword: v.GetString("geocache.redis_password"),
		RedisDB:       v.GetInt("geocache.redis_db"),
		TTL:           v.GetDuration("geocache.ttl"),
	}
	cfg.Archive = ArchiveConfig{
		Provider:  v.GetString("archive.provider"),
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
		Prefix:    v.GetString("archive.prefix"),
	}
	cfg.Email = EmailConfig{
		Provider:      v.GetString("email.provider"),
		Region:        v.GetString("email.region"),
		FromAddress:   v.GetString("email.from_address"),
		FromName:      v.GetString("email.from_name"),
		NotifyAddress: v.GetString("email.notify_address"),
	}

	return cfg, nil
}
