package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	configDir  = ".askdb"
	configFile = "config"
	configType = "yaml"

	// homeEnv overrides the configuration directory.
	homeEnv = "ASKDB_HOME"
)

// ErrNoConnection is returned when no DSN, DB_* variables or saved profile exist.
var ErrNoConnection = errors.New("no database connection configured")

// envBindings maps configuration keys to the environment variables read for them.
var envBindings = map[string]string{
	"database.driver":       "DB_DRIVER",
	"database.client":       "DB_CLIENT",
	"database.host":         "DB_HOST",
	"database.port":         "DB_PORT",
	"database.name":         "DB_NAME",
	"database.user":         "DB_USER",
	"database.password":     "DB_PASSWORD",
	"database.sslmode":      "DB_SSLMODE",
	"database.schema":       "DB_SCHEMA",
	"database.read_only":    "DB_READ_ONLY",
	"database.timeout":      "DB_TIMEOUT",
	"model.name":            "MODEL_NAME",
	"model.host":            "OLLAMA_HOST",
	"model.temperature":     "TEMPERATURE",
	"model.max_tokens":      "MAX_TOKENS",
	"model.timeout":         "MODEL_TIMEOUT",
	"server.port":           "SERVER_PORT",
	"server.session_secret": "SESSION_SECRET",
	"log.dir":               "LOG_DIR",
	"log.level":             "LOG_LEVEL",
}

// Load reads ~/.askdb/config.yaml and overlays the environment.
// A .env file in the working directory is loaded first; it never overrides
// variables that are already set. A missing config file is not an error.
func Load() (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	dir, err := configDirPath()
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFile)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Database.Driver = normalizeDriver(cfg.Database.Driver)
	for i := range cfg.Connections {
		cfg.Connections[i].Driver = normalizeDriver(cfg.Connections[i].Driver)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.client", "pgx")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.schema", "public")
	v.SetDefault("database.read_only", true)
	v.SetDefault("database.timeout", 30*time.Second)
	v.SetDefault("model.name", "llama3.1:8b")
	v.SetDefault("model.host", "http://localhost:11434")
	v.SetDefault("model.temperature", 0.7)
	v.SetDefault("model.max_tokens", 8192)
	v.SetDefault("model.timeout", 5*time.Minute)
	v.SetDefault("server.port", 7860)
	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.level", "info")
	v.SetDefault("preferences.default_chart", "bar")
}

// Save writes the connection profiles and preferences to ~/.askdb/config.yaml.
func Save(cfg *Config) error {
	dir, err := configDirPath()
	if err != nil {
		return fmt.Errorf("config dir: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.Set("connections", cfg.Connections)
	v.Set("preferences", cfg.Preferences)

	path := filepath.Join(dir, configFile+"."+configType)
	return v.WriteConfigAs(path)
}

// SaveConnection stores the password in the keyring and the profile on disk.
func SaveConnection(cfg *Config, conn Connection) error {
	if cfg.HasConnection(conn.Name) {
		return nil
	}
	if conn.Password != "" {
		if err := StorePassword(conn.Name, conn.Password); err != nil {
			return fmt.Errorf("store password: %w", err)
		}
		conn.Password = ""
	}
	cfg.AddConnection(conn)
	return Save(cfg)
}

// DefaultConnection returns the default connection from config, or the first one.
func DefaultConnection(cfg *Config) *Connection {
	if len(cfg.Connections) == 0 {
		return nil
	}

	if cfg.Preferences.DefaultConnection != "" {
		for i := range cfg.Connections {
			if cfg.Connections[i].Name == cfg.Preferences.DefaultConnection {
				return &cfg.Connections[i]
			}
		}
	}

	return &cfg.Connections[0]
}

// Target is a resolved store to connect to.
type Target struct {
	Driver string
	DSN    string
	Name   string
}

// Resolve picks the store: flag DSN, then DB_* variables, then the default profile.
func Resolve(cfg *Config, flagDSN string) (Target, error) {
	if flagDSN != "" {
		conn, err := ParseDSN(flagDSN)
		if err != nil {
			return Target{}, err
		}
		dsn := flagDSN
		if conn.Driver == "mysql" {
			dsn = conn.DSN()
		}
		return Target{Driver: conn.Driver, DSN: dsn, Name: conn.DisplayString()}, nil
	}

	if cfg.Database.HasEnvConnection() {
		conn := cfg.Database.Connection()
		return Target{Driver: conn.Driver, DSN: conn.DSN(), Name: conn.DisplayString()}, nil
	}

	if conn := DefaultConnection(cfg); conn != nil {
		resolved, err := ResolvePassword(*conn)
		if err != nil {
			return Target{}, err
		}
		return Target{Driver: resolved.Driver, DSN: resolved.DSN(), Name: resolved.Name}, nil
	}

	return Target{}, ErrNoConnection
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "postgres", "postgresql":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	default:
		return driver
	}
}

func configDirPath() (string, error) {
	if dir := os.Getenv(homeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}
