package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bridge   BridgeConfig   `mapstructure:"bridge"`
	Database DatabaseConfig `mapstructure:"database"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Valkey   ValkeyConfig   `mapstructure:"valkey"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Log      LogConfig      `mapstructure:"log"`
}

// BridgeConfig configures the loopback map server.
// Port 0 asks the OS for a free port on every start attempt.
type BridgeConfig struct {
	Host                string `mapstructure:"host"`
	Port                int    `mapstructure:"port"`
	StaticDir           string `mapstructure:"static_dir"`
	ReadTimeout         int    `mapstructure:"read_timeout"`
	WriteTimeout        int    `mapstructure:"write_timeout"`
	CollaboratorTimeout int    `mapstructure:"collaborator_timeout"`
	StartAttempts       int    `mapstructure:"start_attempts"`
	ExposeMetrics       bool   `mapstructure:"expose_metrics"`
}

func (b BridgeConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(b.ReadTimeout) * time.Second
}

func (b BridgeConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(b.WriteTimeout) * time.Second
}

func (b BridgeConfig) CollaboratorTimeoutDuration() time.Duration {
	return time.Duration(b.CollaboratorTimeout) * time.Second
}

// DatabaseConfig selects and configures the report store.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // sqlite or postgres
	Path     string `mapstructure:"path"`   // sqlite only
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// GeocoderConfig configures the Nominatim client and its cache.
type GeocoderConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	UserAgent     string `mapstructure:"user_agent"`
	MinIntervalMS int    `mapstructure:"min_interval_ms"`
	Timeout       int    `mapstructure:"timeout"`
	CacheTTL      int    `mapstructure:"cache_ttl"`
	CacheSize     int    `mapstructure:"cache_size"`
}

func (g GeocoderConfig) MinInterval() time.Duration {
	return time.Duration(g.MinIntervalMS) * time.Millisecond
}

func (g GeocoderConfig) TimeoutDuration() time.Duration {
	return time.Duration(g.Timeout) * time.Second
}

// ValkeyConfig enables the shared geocode cache when Addr is set.
type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

// NATSConfig enables report change events when URL is set.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from file and environment variables.
// configFile, when non-empty, replaces the default search path.
func Load(service, configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("bridge.host", "127.0.0.1")
	v.SetDefault("bridge.port", 0)
	v.SetDefault("bridge.static_dir", "map_static")
	v.SetDefault("bridge.read_timeout", 10)
	v.SetDefault("bridge.write_timeout", 10)
	v.SetDefault("bridge.collaborator_timeout", 5)
	v.SetDefault("bridge.start_attempts", 3)
	v.SetDefault("bridge.expose_metrics", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "siara.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "siara")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "siara")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", service+"_geocoder")
	v.SetDefault("geocoder.min_interval_ms", 1000)
	v.SetDefault("geocoder.timeout", 10)
	v.SetDefault("geocoder.cache_ttl", 86400)
	v.SetDefault("geocoder.cache_size", 1024)
	v.SetDefault("valkey.addr", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	// Config file (optional)
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "siara"))
		}
		_ = v.ReadInConfig() // OK if missing
	}

	// Environment variables: SIARA_DATABASE_DRIVER → database.driver
	v.SetEnvPrefix("SIARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Bridge.Host != "127.0.0.1" && c.Bridge.Host != "localhost" && c.Bridge.Host != "::1" {
		errs = append(errs, fmt.Sprintf("bridge.host must be a loopback address, got %q", c.Bridge.Host))
	}
	if c.Bridge.Port < 0 || c.Bridge.Port > 65535 {
		errs = append(errs, fmt.Sprintf("bridge.port must be 0-65535, got %d", c.Bridge.Port))
	}
	if c.Bridge.StaticDir == "" {
		errs = append(errs, "bridge.static_dir is required")
	}
	if c.Bridge.ReadTimeout <= 0 {
		errs = append(errs, "bridge.read_timeout must be positive")
	}
	if c.Bridge.WriteTimeout <= 0 {
		errs = append(errs, "bridge.write_timeout must be positive")
	}
	if c.Bridge.CollaboratorTimeout <= 0 {
		errs = append(errs, "bridge.collaborator_timeout must be positive")
	}
	if c.Bridge.StartAttempts <= 0 {
		errs = append(errs, "bridge.start_attempts must be positive")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, "database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be sqlite or postgres, got %q", c.Database.Driver))
	}

	if c.Geocoder.BaseURL == "" {
		errs = append(errs, "geocoder.base_url is required")
	}
	if c.Geocoder.UserAgent == "" {
		errs = append(errs, "geocoder.user_agent is required")
	}
	if c.Geocoder.MinIntervalMS < 0 {
		errs = append(errs, "geocoder.min_interval_ms must not be negative")
	}
	if c.Geocoder.Timeout <= 0 {
		errs = append(errs, "geocoder.timeout must be positive")
	}
	if c.Geocoder.CacheSize <= 0 {
		errs = append(errs, "geocoder.cache_size must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
