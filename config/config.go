package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all storefront configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Display DisplayConfig `yaml:"display"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr              string `yaml:"addr"`
	ReadHeaderTimeout string `yaml:"read_header_timeout"`
	ReadTimeout       string `yaml:"read_timeout"`
	WriteTimeout      string `yaml:"write_timeout"`
	IdleTimeout       string `yaml:"idle_timeout"`
	ShutdownTimeout   string `yaml:"shutdown_timeout"`
}

// BackendConfig points at the catalog REST API.
type BackendConfig struct {
	BaseURL string       `yaml:"base_url"`
	Timeout string       `yaml:"timeout"`
	Consul  ConsulConfig `yaml:"consul"`
}

// ConsulConfig enables resolving the backend through Consul instead of BaseURL.
type ConsulConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"` // host:port of the consul agent
	Service string `yaml:"service"` // registered name of the catalog service
	Scheme  string `yaml:"scheme"`  // scheme used to reach the discovered instance
	Path    string `yaml:"path"`    // path prefix of the API on that instance
}

// SessionConfig configures where the selected user is remembered.
type SessionConfig struct {
	Driver     string `yaml:"driver"` // memory, postgres
	DSN        string `yaml:"dsn"`
	CookieName string `yaml:"cookie_name"`
	MaxAge     string `yaml:"max_age"`
	Secure     bool   `yaml:"secure"`
}

// DisplayConfig controls how money and dates are rendered.
type DisplayConfig struct {
	CurrencySymbol    string `yaml:"currency_symbol"`
	DecimalSeparator  string `yaml:"decimal_separator"`
	ThousandSeparator string `yaml:"thousand_separator"`
	DateLayout        string `yaml:"date_layout"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: "5s",
			ReadTimeout:       "10s",
			WriteTimeout:      "15s",
			IdleTimeout:       "60s",
			ShutdownTimeout:   "10s",
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:12000/api",
			Timeout: "10s",
			Consul: ConsulConfig{
				Address: "localhost:8500",
				Service: "catalog",
				Scheme:  "http",
				Path:    "/api",
			},
		},
		Session: SessionConfig{
			Driver:     "memory",
			CookieName: "storefront_session",
			MaxAge:     "720h",
		},
		Display: DisplayConfig{
			CurrencySymbol:    "R$",
			DecimalSeparator:  ",",
			ThousandSeparator: ".",
			DateLayout:        "02/01/2006 15:04:05",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path yields defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	// STOREFRONT_ADDR wins over PORT
	if v := os.Getenv("STOREFRONT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("STOREFRONT_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("CONSUL_HOST"); v != "" {
		c.Backend.Consul.Enabled = true
		if !strings.Contains(v, ":") {
			v += ":8500"
		}
		c.Backend.Consul.Address = v
	}
	if v := os.Getenv("STOREFRONT_SESSION_DRIVER"); v != "" {
		c.Session.Driver = v
	}
	if v := os.Getenv("STOREFRONT_SESSION_DSN"); v != "" {
		c.Session.DSN = v
		if os.Getenv("STOREFRONT_SESSION_DRIVER") == "" {
			c.Session.Driver = "postgres"
		}
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks values that would only fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if !c.Backend.Consul.Enabled {
		u, err := url.Parse(c.Backend.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("backend.base_url %q is not an absolute URL", c.Backend.BaseURL)
		}
	} else if c.Backend.Consul.Service == "" {
		return fmt.Errorf("backend.consul.service is required when consul is enabled")
	}
	switch c.Session.Driver {
	case "memory":
	case "postgres":
		if c.Session.DSN == "" {
			return fmt.Errorf("session.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown session.driver %q", c.Session.Driver)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	for name, v := range map[string]string{
		"server.read_header_timeout": c.Server.ReadHeaderTimeout,
		"server.read_timeout":        c.Server.ReadTimeout,
		"server.write_timeout":       c.Server.WriteTimeout,
		"server.idle_timeout":        c.Server.IdleTimeout,
		"server.shutdown_timeout":    c.Server.ShutdownTimeout,
		"backend.timeout":            c.Backend.Timeout,
		"session.max_age":            c.Session.MaxAge,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// duration parses s, falling back to def when s is empty or malformed.
func duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func (s ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return duration(s.ReadHeaderTimeout, 5*time.Second)
}
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return duration(s.ReadTimeout, 10*time.Second)
}
func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return duration(s.WriteTimeout, 15*time.Second)
}
func (s ServerConfig) IdleTimeoutDuration() time.Duration {
	return duration(s.IdleTimeout, 60*time.Second)
}
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return duration(s.ShutdownTimeout, 10*time.Second)
}

func (b BackendConfig) TimeoutDuration() time.Duration { return duration(b.Timeout, 10*time.Second) }

func (s SessionConfig) MaxAgeDuration() time.Duration { return duration(s.MaxAge, 30*24*time.Hour) }
