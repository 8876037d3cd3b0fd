// Package config loads the worldforge YAML configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/worldforge/internal/database"
	"github.com/lawnchairsociety/worldforge/internal/terrain"
)

// Config is the top-level configuration file. The logging section of the
// same file is read by the logger package.
type Config struct {
	World   terrain.Config `yaml:"world"`
	Server  ServerConfig   `yaml:"server"`
	Archive ArchiveConfig  `yaml:"archive"`
	Journal JournalConfig  `yaml:"journal"`
}

// ServerConfig holds the tile API server settings.
type ServerConfig struct {
	// ListenAddr is the HTTP listen address, e.g. ":8080".
	ListenAddr  string            `yaml:"listen_addr"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	ReadOnly    bool              `yaml:"read_only"`
}

// RateLimitConfig locks out clients that keep sending invalid requests.
type RateLimitConfig struct {
	// MaxInvalid is the number of invalid requests before lockout.
	MaxInvalid int `yaml:"max_invalid"`

	// LockoutSeconds is the initial lockout duration in seconds.
	LockoutSeconds int `yaml:"lockout_seconds"`

	// MaxLockoutSeconds is the maximum lockout duration (for exponential backoff).
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited (not recommended).
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// ArchiveConfig controls whether generated worlds are stored in a database.
type ArchiveConfig struct {
	Enabled         bool `yaml:"enabled"`
	database.Config `yaml:",inline"`
}

// JournalConfig controls the tile mutation journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
}

// DefaultConfig returns a Config with secure defaults.
func DefaultConfig() *Config {
	return &Config{
		World: terrain.DefaultConfig(),
		Server: ServerConfig{
			ListenAddr: ":8080",
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 65536,
			},
			Connections: ConnectionsConfig{
				MaxPerIP: 8,
				MaxTotal: 100,
			},
			RateLimit: RateLimitConfig{
				MaxInvalid:        10,
				LockoutSeconds:    30,
				MaxLockoutSeconds: 300,
			},
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Config:  database.DefaultConfig("data/worlds.db"),
		},
		Journal: JournalConfig{
			Enabled: false,
			Dir:     "data/journal",
			Prefix:  "mutations",
		},
	}
}

// Load reads configuration from a YAML file.
// A missing file yields the defaults; an unparsable one yields the defaults
// and the parse error.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	if err := config.validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch database.DialectType(c.Archive.Driver) {
	case database.DialectSQLite, database.DialectPostgres:
	default:
		return fmt.Errorf("archive driver %q: must be sqlite or postgres", c.Archive.Driver)
	}
	if c.Server.WebSocket.MaxMessageSize <= 0 {
		return fmt.Errorf("server.websocket.max_message_size must be positive")
	}
	if c.Journal.Enabled && c.Journal.Dir == "" {
		return fmt.Errorf("journal.dir is required when the journal is enabled")
	}
	return nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// "http://localhost:3000" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
