package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks the environment variables read by Load. A double
// underscore separates nesting levels: URA_API__BASE_URL sets api.base_url.
const EnvPrefix = "URA_"

// Config holds all application configuration
type Config struct {
	API      APIConfig      `koanf:"api"`
	Mock     MockConfig     `koanf:"mock"`
	Session  SessionConfig  `koanf:"session"`
	Log      LogConfig      `koanf:"log"`
	Web      WebConfig      `koanf:"web"`
	Terminal TerminalConfig `koanf:"terminal"`
}

// APIConfig points at the legal assistant backend
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// MockConfig controls the offline fallbacks
type MockConfig struct {
	Enabled    bool          `koanf:"enabled"`
	ReplyDelay time.Duration `koanf:"reply_delay"`
	AuthDelay  time.Duration `koanf:"auth_delay"`
}

// SessionConfig is where the terminal client keeps its login
type SessionConfig struct {
	Path string `koanf:"path"`
}

// LogConfig controls the process logger. An empty path logs to stderr.
type LogConfig struct {
	Path    string `koanf:"path"`
	Verbose bool   `koanf:"verbose"`
}

// WebConfig is the web client listener
type WebConfig struct {
	Addr string `koanf:"addr"`
}

// TerminalConfig tunes terminal rendering
type TerminalConfig struct {
	// Style is a glamour standard style name; empty picks one from the
	// terminal background.
	Style string `koanf:"style"`
	Width int    `koanf:"width"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Mock: MockConfig{
			Enabled:    true,
			ReplyDelay: 1500 * time.Millisecond,
			AuthDelay:  800 * time.Millisecond,
		},
		Session: SessionConfig{
			Path: expandHome("~/.ura-xlaw/session.json"),
		},
		Log: LogConfig{
			Path: expandHome("~/.ura-xlaw/client.log"),
		},
		Web: WebConfig{
			Addr: ":8080",
		},
		Terminal: TerminalConfig{
			Width: 100,
		},
	}
}

// Load layers an optional YAML file and URA_ environment variables over the
// defaults. An empty path skips the file; a named file must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := NewConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Session.Path = expandHome(cfg.Session.Path)
	cfg.Log.Path = expandHome(cfg.Log.Path)
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL cannot be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API base URL must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}
	if c.Mock.ReplyDelay < 0 || c.Mock.AuthDelay < 0 {
		return fmt.Errorf("mock delays cannot be negative")
	}
	if c.Session.Path == "" {
		return fmt.Errorf("session path cannot be empty")
	}
	if c.Terminal.Width < 20 {
		return fmt.Errorf("terminal width must be at least 20")
	}
	return nil
}

// expandHome expands the ~ in file paths to the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, path[1:])
}
