package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr   = ":8080"
	DefaultPrefix = "/datastore/odata3.0"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	DBType           string `yaml:"type"`
	ConnectionString string `yaml:"connection_string,omitempty"`
	File             string `yaml:"file,omitempty"`
	// ResourceTable lists collection names and timestamps.
	ResourceTable string `yaml:"resource_table,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
	// BaseURL is the public root of the service, e.g. https://data.example.org.
	// Derived from Addr when empty.
	BaseURL string `yaml:"base_url,omitempty"`
	Prefix  string `yaml:"prefix,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyDefaults()
	return &config, nil
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.Prefix == "" {
		c.Server.Prefix = DefaultPrefix
	}
	c.Server.Prefix = "/" + strings.Trim(c.Server.Prefix, "/")
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (d *DatabaseConfig) GetConnectionString() (string, error) {
	switch d.DBType {
	case "postgres", "mysql":
		if d.ConnectionString == "" {
			return "", fmt.Errorf("connection string is required for %s connection", d.DBType)
		}

		return d.ConnectionString, nil

	case "sqlite":
		if d.File == "" {
			d.File = "database.db"
		}
		return d.File, nil

	default:
		return "", fmt.Errorf("unsupported Database type: %s", d.DBType)
	}
}

// ServiceRoot is the absolute URL of the OData root, with a trailing slash.
func (s *ServerConfig) ServiceRoot() string {
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		host, port, err := net.SplitHostPort(s.Addr)
		if err != nil {
			host, port = s.Addr, ""
		}
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = "localhost"
		}
		base = "http://" + host
		if port != "" && port != "80" {
			base = "http://" + net.JoinHostPort(host, port)
		}
	}
	return base + s.Prefix + "/"
}

func (l *LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}
