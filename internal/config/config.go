package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "DOCVERSION"
	configFileName = "docversion"
)

type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type VersioningConfig struct {
	ChangeThreshold float64 `mapstructure:"change_threshold"`
	CloneOnRestore  bool    `mapstructure:"clone_on_restore"`
	Compression     string  `mapstructure:"compression"`
}

type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type EventsConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Brokers    []string `mapstructure:"brokers"`
	Topic      string   `mapstructure:"topic"`
	MaxRetries uint64   `mapstructure:"max_retries"`
}

type ServerConfig struct {
	GrpcPort string `mapstructure:"grpc_port"`
	HttpPort string `mapstructure:"http_port"`
}

type JobsConfig struct {
	InvariantCheck string `mapstructure:"invariant_check"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the process configuration, read from docversion.yml and
// DOCVERSION_* environment variables.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Versioning VersioningConfig `mapstructure:"versioning"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Events     EventsConfig     `mapstructure:"events"`
	Server     ServerConfig     `mapstructure:"server"`
	Jobs       JobsConfig       `mapstructure:"jobs"`
	Log        LogConfig        `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", filepath.Join(".data", "docversion.db"))
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("versioning.change_threshold", 5.0)
	v.SetDefault("versioning.clone_on_restore", false)
	v.SetDefault("versioning.compression", "gzip")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.brokers", []string{"localhost:9092"})
	v.SetDefault("events.topic", "docversion.events")
	v.SetDefault("events.max_retries", 3)

	v.SetDefault("server.grpc_port", "4020")
	v.SetDefault("server.http_port", "4021")

	v.SetDefault("jobs.invariant_check", "@every 5m")

	v.SetDefault("log.level", "info")
}

// LoadConfig reads the configuration and panics when it is unusable.
func LoadConfig() *Config {
	cfg, err := Load(viper.New())
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// Load reads the configuration through v. A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName(configFileName)
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// comma separated broker lists come in as a single env value
	if len(cfg.Events.Brokers) == 1 && strings.Contains(cfg.Events.Brokers[0], ",") {
		cfg.Events.Brokers = strings.Split(cfg.Events.Brokers[0], ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	logrus.SetLevel(level)

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Type {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown database.type %q", c.Database.Type)
	}

	if c.Versioning.ChangeThreshold < 0 || c.Versioning.ChangeThreshold > 100 {
		return fmt.Errorf("versioning.change_threshold must be between 0 and 100, got %v", c.Versioning.ChangeThreshold)
	}
	if c.Events.Enabled && (len(c.Events.Brokers) == 0 || c.Events.Topic == "") {
		return errors.New("events.brokers and events.topic are required when events are enabled")
	}

	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}

	return os.MkdirAll(dir, 0o755)
}
