// ABOUTME: Configuration loading and parsing for soporte-bot
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete soporte-bot configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	TicketService TicketServiceConfig `yaml:"ticket_service"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// TicketServiceConfig holds the connection settings for the external ticket
// service, including the OAuth2 client credentials.
type TicketServiceConfig struct {
	BaseURL      string        `yaml:"base_url"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	Timeout      time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment
// variable values. If the environment variable is not set, it is replaced with
// an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.TicketService.BaseURL == "" {
		return fmt.Errorf("ticket_service.base_url is required")
	}
	if _, err := url.Parse(c.TicketService.BaseURL); err != nil {
		return fmt.Errorf("ticket_service.base_url is not a valid URL: %w", err)
	}
	if c.TicketService.ClientID == "" {
		return fmt.Errorf("ticket_service.client_id is required")
	}
	if c.TicketService.ClientSecret == "" {
		return fmt.Errorf("ticket_service.client_secret is required")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.TicketService.TimeoutRaw != "" {
		timeout, err := time.ParseDuration(cfg.TicketService.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing ticket_service.timeout %q: %w", cfg.TicketService.TimeoutRaw, err)
		}
		cfg.TicketService.Timeout = timeout
	}

	return nil
}
