package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
)

// Config represents the application configuration.
type Config struct {
	Database    Database     `mapstructure:"database" yaml:"-"`
	Model       Model        `mapstructure:"model" yaml:"-"`
	Server      Server       `mapstructure:"server" yaml:"-"`
	Log         Log          `mapstructure:"log" yaml:"-"`
	Connections []Connection `mapstructure:"connections" yaml:"connections"`
	Preferences Preferences  `mapstructure:"preferences" yaml:"preferences"`
}

// Database holds the store settings read from the environment.
type Database struct {
	Driver   string        `mapstructure:"driver"`
	Client   string        `mapstructure:"client"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Name     string        `mapstructure:"name"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	SSLMode  string        `mapstructure:"sslmode"`
	Schema   string        `mapstructure:"schema"`
	ReadOnly bool          `mapstructure:"read_only"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Model holds the language model settings.
type Model struct {
	Name        string        `mapstructure:"name"`
	Host        string        `mapstructure:"host"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Server holds the web form settings.
type Server struct {
	Port          int    `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
}

// Log holds logging settings.
type Log struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

// Connection represents a saved database connection profile.
type Connection struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Driver   string `mapstructure:"driver" yaml:"driver"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Database string `mapstructure:"database" yaml:"database"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

// Preferences holds user preferences.
type Preferences struct {
	DefaultConnection string `mapstructure:"default_connection" yaml:"default_connection"`
	DefaultChart      string `mapstructure:"default_chart" yaml:"default_chart"`
}

// HasEnvConnection reports whether the DB_* variables describe a store.
func (d Database) HasEnvConnection() bool {
	return d.Name != ""
}

// DefaultPort returns the standard port of a driver.
func DefaultPort(driver string) int {
	if driver == "mysql" {
		return 3306
	}
	return 5432
}

// Connection converts the environment settings into a connection profile.
// An unset port becomes the driver's default.
func (d Database) Connection() Connection {
	port := d.Port
	if port == 0 {
		port = DefaultPort(d.Driver)
	}
	return Connection{
		Name:     "env",
		Driver:   d.Driver,
		Host:     d.Host,
		Port:     port,
		Database: d.Name,
		Username: d.User,
		Password: d.Password,
		SSLMode:  d.SSLMode,
	}
}

// DSN builds a connection string for the profile's driver.
func (c Connection) DSN() string {
	if c.Driver == "mysql" {
		return c.mysqlDSN()
	}

	dsn := "postgresql://"
	if c.Username != "" {
		dsn += url.PathEscape(c.Username)
		if c.Password != "" {
			dsn += ":" + url.PathEscape(c.Password)
		}
		dsn += "@"
	}
	dsn += c.Host
	if c.Port > 0 {
		dsn += ":" + strconv.Itoa(c.Port)
	}
	dsn += "/" + c.Database
	if c.SSLMode != "" {
		dsn += "?sslmode=" + c.SSLMode
	}
	return dsn
}

func (c Connection) mysqlDSN() string {
	cfg := gomysql.NewConfig()
	cfg.User = c.Username
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	port := c.Port
	if port == 0 {
		port = DefaultPort(c.Driver)
	}
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.DBName = c.Database
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// DisplayString returns a human-readable summary of the connection.
func (c Connection) DisplayString() string {
	s := c.Host
	if c.Port > 0 {
		s += ":" + strconv.Itoa(c.Port)
	}
	s += "/" + c.Database
	if c.Username != "" {
		s = c.Username + "@" + s
	}
	return s
}

// ParseDSN parses a postgres or mysql connection URL into a Connection.
func ParseDSN(dsn string) (Connection, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Connection{}, fmt.Errorf("invalid DSN: %w", err)
	}

	conn := Connection{
		Host:     u.Hostname(),
		Database: trimPrefix(u.Path, "/"),
		SSLMode:  u.Query().Get("sslmode"),
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		conn.Driver = "postgres"
	case "mysql":
		conn.Driver = "mysql"
	default:
		return Connection{}, fmt.Errorf("invalid DSN: unsupported scheme %q", u.Scheme)
	}

	if u.User != nil {
		conn.Username = u.User.Username()
		if p, ok := u.User.Password(); ok {
			conn.Password = p
		}
	}

	if portStr := u.Port(); portStr != "" {
		conn.Port, _ = strconv.Atoi(portStr)
	}
	if conn.Port == 0 {
		conn.Port = DefaultPort(conn.Driver)
	}

	// Auto-generate a name
	conn.Name = fmt.Sprintf("%s-%s-%d-%s", conn.Driver, conn.Host, conn.Port, conn.Database)

	return conn, nil
}

// HasConnection checks if a connection with the given name already exists.
func (cfg *Config) HasConnection(name string) bool {
	for _, c := range cfg.Connections {
		if c.Name == name {
			return true
		}
	}
	return false
}

// AddConnection appends a connection if it doesn't already exist.
func (cfg *Config) AddConnection(conn Connection) {
	if !cfg.HasConnection(conn.Name) {
		cfg.Connections = append(cfg.Connections, conn)
	}
}

func trimPrefix(s, prefix string) string {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}
